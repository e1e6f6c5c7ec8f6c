package runtime

import (
	"fmt"

	"github.com/panyam/ion/decl"
)

// evalMemberAccess returns the field's stored result unchanged, so an
// aliased field stays an alias.
func (s *SimpleEval) evalMemberAccess(n *decl.MemberAccess, scope *decl.Scope) (decl.EvalResult, error) {
	base, err := s.eval(n.Object, scope)
	if err != nil {
		return nil, err
	}
	obj, err := derefObject(base, scope)
	if err != nil {
		return nil, err
	}
	field, ok := obj.Get(n.Property.Name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s' in %s", ErrFieldNotFound, n.Property.Name, n.Object)
	}
	return field, nil
}

func (s *SimpleEval) evalIndexAccess(n *decl.IndexAccess, scope *decl.Scope) (decl.EvalResult, error) {
	base, err := s.eval(n.Array, scope)
	if err != nil {
		return nil, err
	}
	value, err := scope.Deref(base)
	if err != nil {
		return nil, err
	}
	arr, ok := value.(*decl.ArrayLiteral)
	if !ok {
		return nil, fmt.Errorf("%w: cannot index %s", ErrTypeMismatch, value.Kind())
	}

	idxResult, err := s.eval(n.Index, scope)
	if err != nil {
		return nil, err
	}
	idxValue, err := scope.Deref(idxResult)
	if err != nil {
		return nil, err
	}
	idx, ok := IntValue(idxValue)
	if !ok {
		return nil, fmt.Errorf("%w: array index must be an integer, found %s", ErrTypeMismatch, idxValue.Kind())
	}
	if idx < 0 || idx >= int64(len(arr.Entries)) {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, idx, len(arr.Entries))
	}
	return arr.Entries[idx], nil
}

func derefObject(r decl.EvalResult, scope *decl.Scope) (*decl.ObjectLiteral, error) {
	value, err := scope.Deref(r)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(*decl.ObjectLiteral)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object literal, found %s", ErrTypeMismatch, value.Kind())
	}
	return obj, nil
}
