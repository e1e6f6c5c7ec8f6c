package runtime

import (
	"fmt"

	"github.com/panyam/ion/decl"
)

// ReservedName cannot be declared.
const ReservedName = "_"

// evalVarDecl checks the resolved initializer but stores the original result,
// so `$y <asg> x;` makes y a synonym for x.
func (s *SimpleEval) evalVarDecl(n *decl.VarDecl, scope *decl.Scope) (decl.EvalResult, error) {
	name := n.Name.Name
	if name == ReservedName {
		return nil, fmt.Errorf("%w: '%s' cannot be declared", ErrReservedName, name)
	}
	declared, err := n.Flags.DeclaredType()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}
	complexName, _ := n.Flags.ComplexSchema()
	if declared.IsComplex() && declared.Schema == "" {
		declared.Schema = complexName
	}

	var value decl.EvalResult = decl.Own(decl.Nil{})
	if n.Initializer != nil {
		if value, err = s.eval(n.Initializer, scope); err != nil {
			return nil, err
		}
		if alias, ok := value.(decl.Alias); ok && alias.Name == name {
			return nil, fmt.Errorf("%w: '%s' cannot be declared as an alias of itself", ErrAliasCycle, name)
		}
		if err := s.checker(scope).CheckResult(value, declared, complexName); err != nil {
			return nil, fmt.Errorf("declaring '%s': %w", name, err)
		}
	}

	if err := scope.Declare(name, value, declared, n.Flags.Has(decl.FlagConst)); err != nil {
		return nil, err
	}
	Debug("declared %s %s = %s", name, declared, value)
	return decl.Own(decl.StatementExecuted{}), nil
}

func (s *SimpleEval) evalAssignment(n *decl.Assignment, scope *decl.Scope) (decl.EvalResult, error) {
	value, err := s.eval(n.Value, scope)
	if err != nil {
		return nil, err
	}

	switch target := n.Target.(type) {
	case *decl.Identifier:
		err = s.assignName(target.Name, value, scope)
	case *decl.MemberAccess:
		err = s.assignMember(target, value, scope)
	default:
		err = fmt.Errorf("%w: cannot assign to %s", ErrUnsupportedOperation, n.Target)
	}
	if err != nil {
		return nil, err
	}
	return decl.Own(decl.StatementExecuted{}), nil
}

func (s *SimpleEval) assignName(name string, value decl.EvalResult, scope *decl.Scope) error {
	entry, err := scope.Entry(name)
	if err != nil {
		return err
	}
	if entry.Const {
		return fmt.Errorf("%w: '%s'", ErrConstViolation, name)
	}
	if err := s.checker(scope).CheckResult(value, entry.Type, ""); err != nil {
		return fmt.Errorf("assigning '%s': %w", name, err)
	}
	if err := scope.Assign(name, value); err != nil {
		return err
	}
	Debug("assigned %s = %s", name, value)
	return nil
}

// assignMember performs copy-modify-write: every object on the path from the
// root binding to the target field is cloned, the field replaced, and the new
// root validated before it is written. When the root is an alias the write
// goes to the binding at the end of its chain, so every alias observes it.
func (s *SimpleEval) assignMember(target *decl.MemberAccess, value decl.EvalResult, scope *decl.Scope) error {
	path := []string{target.Property.Name}
	var curr decl.Expr = target.Object
	for {
		m, ok := curr.(*decl.MemberAccess)
		if !ok {
			break
		}
		path = append([]string{m.Property.Name}, path...)
		curr = m.Object
	}
	root, ok := curr.(*decl.Identifier)
	if !ok {
		return fmt.Errorf("%w: cannot assign to a field of %s", ErrUnsupportedOperation, curr)
	}

	entry, err := scope.Entry(root.Name)
	if err != nil {
		return err
	}
	if entry.Const {
		return fmt.Errorf("%w: '%s'", ErrConstViolation, root.Name)
	}
	owner, err := scope.Target(root.Name)
	if err != nil {
		return fmt.Errorf("assigning '%s.%s': %w", root.Name, path[0], err)
	}
	ownerEntry, err := scope.Entry(owner)
	if err != nil {
		return err
	}
	if ownerEntry.Const {
		return fmt.Errorf("%w: '%s' (via alias '%s')", ErrConstViolation, owner, root.Name)
	}
	base, err := derefObject(decl.Alias{Name: owner}, scope)
	if err != nil {
		return fmt.Errorf("assigning '%s.%s': %w", root.Name, path[0], err)
	}
	updated, err := setField(base, path, value, scope)
	if err != nil {
		return err
	}
	checker := s.checker(scope)
	if err := checker.Check(updated, entry.Type, ""); err != nil {
		return fmt.Errorf("assigning '%s': %w", target, err)
	}
	if owner != root.Name {
		if err := checker.Check(updated, ownerEntry.Type, ""); err != nil {
			return fmt.Errorf("assigning '%s' through alias of '%s': %w", target, owner, err)
		}
	}
	if err := scope.Assign(owner, decl.Own(updated)); err != nil {
		return err
	}
	Debug("assigned %s = %s", target, value)
	return nil
}

// setField returns a copy of obj with the field at path replaced.
func setField(obj *decl.ObjectLiteral, path []string, value decl.EvalResult, scope *decl.Scope) (*decl.ObjectLiteral, error) {
	out := obj.Clone().(*decl.ObjectLiteral)
	field, ok := out.Get(path[0])
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrFieldNotFound, path[0])
	}
	if len(path) == 1 {
		out.Set(path[0], value)
		return out, nil
	}
	child, err := derefObject(field, scope)
	if err != nil {
		return nil, fmt.Errorf("field '%s': %w", path[0], err)
	}
	updated, err := setField(child, path[1:], value, scope)
	if err != nil {
		return nil, err
	}
	out.Set(path[0], decl.Own(updated))
	return out, nil
}
