package runtime

import (
	"fmt"

	"github.com/panyam/ion/decl"
)

// evalCall invokes a native function. Arguments keep their alias/owned form.
func (s *SimpleEval) evalCall(n *decl.Call, scope *decl.Scope) (decl.EvalResult, error) {
	callee, err := s.eval(n.Callee, scope)
	if err != nil {
		return nil, err
	}
	value, err := scope.Deref(callee)
	if err != nil {
		return nil, err
	}
	fn, ok := value.(*decl.NativeFunction)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not callable (%s)", ErrUnsupportedOperation, n.Callee, value.Kind())
	}

	args := make([]decl.EvalResult, 0, len(n.Args))
	for _, a := range n.Args {
		r, err := s.eval(a, scope)
		if err != nil {
			return nil, err
		}
		args = append(args, r)
	}

	Debug("calling native %s with %d args", fn.Name, len(args))
	result, err := fn.Fn(args, scope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name, err)
	}
	if result == nil {
		return decl.Own(decl.Nil{}), nil
	}
	return result, nil
}
