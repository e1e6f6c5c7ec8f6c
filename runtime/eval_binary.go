package runtime

import (
	"github.com/panyam/ion/decl"
)

func (s *SimpleEval) evalBinaryOp(n *decl.BinaryOp, scope *decl.Scope) (decl.EvalResult, error) {
	left, err := s.eval(n.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := s.eval(n.Right, scope)
	if err != nil {
		return nil, err
	}
	lv, err := scope.Deref(left)
	if err != nil {
		return nil, err
	}
	rv, err := scope.Deref(right)
	if err != nil {
		return nil, err
	}
	out, err := Arithmetic(n.Operator, lv, rv)
	if err != nil {
		return nil, err
	}
	return decl.Own(out), nil
}
