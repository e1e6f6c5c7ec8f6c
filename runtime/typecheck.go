package runtime

import (
	"fmt"

	"github.com/panyam/ion/decl"
)

// DefaultMaxSchemaDepth bounds recursive structural validation.
const DefaultMaxSchemaDepth = 64

// TypeChecker validates values against declared type attributes.
// Complex schemas are looked up by name in Scope at check time.
type TypeChecker struct {
	Scope    *decl.Scope
	MaxDepth int
}

func NewTypeChecker(scope *decl.Scope, maxDepth int) *TypeChecker {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxSchemaDepth
	}
	return &TypeChecker{Scope: scope, MaxDepth: maxDepth}
}

// Check validates value against declared. complexName is the schema name
// supplied separately from the attribute (by a complex-schema flag); it is
// used when declared is the bare complex marker.
func (tc *TypeChecker) Check(value decl.Value, declared decl.TypeAttr, complexName string) error {
	if declared.IsComplex() && declared.Schema == "" {
		declared.Schema = complexName
	}
	return tc.check(value, declared, 0)
}

// CheckResult resolves r before checking it.
func (tc *TypeChecker) CheckResult(r decl.EvalResult, declared decl.TypeAttr, complexName string) error {
	value, err := tc.Scope.Deref(r)
	if err != nil {
		return err
	}
	return tc.Check(value, declared, complexName)
}

func (tc *TypeChecker) check(value decl.Value, declared decl.TypeAttr, depth int) error {
	if depth > tc.MaxDepth {
		return fmt.Errorf("%w: exceeded %d levels", ErrSchemaDepth, tc.MaxDepth)
	}
	kind := value.Kind()
	switch declared.Kind {
	case decl.AttrAny:
		return nil
	case decl.AttrNumeric:
		if kind.IsNumeric() || kind == decl.KindNil {
			return nil
		}
	case decl.AttrBool:
		if kind == decl.KindBool || kind == decl.KindNil {
			return nil
		}
	case decl.AttrString:
		if kind == decl.KindString || kind == decl.KindNil {
			return nil
		}
	case decl.AttrObject:
		if kind == decl.KindObjectLiteral || kind == decl.KindNil {
			return nil
		}
	case decl.AttrArray:
		if kind == decl.KindArrayLiteral || kind == decl.KindNil {
			return nil
		}
	case decl.AttrFunction:
		if kind == decl.KindFunctionSchema || kind == decl.KindNativeFunction || kind == decl.KindNil {
			return nil
		}
	case decl.AttrComplex:
		return tc.checkComplex(value, declared.Schema, depth)
	}
	return fmt.Errorf("%w: expected %s, found %s (%s)", ErrTypeMismatch, declared, kind, value)
}

func (tc *TypeChecker) checkComplex(value decl.Value, schemaName string, depth int) error {
	if schemaName == "" {
		return fmt.Errorf("%w: complex type declared without a schema name", ErrMissingSchema)
	}
	if schemaName == decl.AnonymousSchema {
		return nil
	}
	schema, err := tc.Scope.ResolveValue(schemaName)
	if err != nil {
		return fmt.Errorf("%w: schema '%s': %w", ErrMissingSchema, schemaName, err)
	}

	switch s := schema.(type) {
	case *decl.ObjectSchema:
		if value.Kind() == decl.KindNil {
			return nil
		}
		obj, ok := value.(*decl.ObjectLiteral)
		if !ok {
			return fmt.Errorf("%w: schema '%s' expects an object literal, found %s", ErrTypeMismatch, schemaName, value.Kind())
		}
		return tc.checkObject(obj, s, schemaName, depth)
	case *decl.ArraySchema:
		if value.Kind() == decl.KindNil {
			return nil
		}
		arr, ok := value.(*decl.ArrayLiteral)
		if !ok {
			return fmt.Errorf("%w: schema '%s' expects an array literal, found %s", ErrTypeMismatch, schemaName, value.Kind())
		}
		return tc.checkArray(arr, s, schemaName, depth)
	}
	return fmt.Errorf("%w: '%s' is bound to %s, not an object or array schema", ErrMissingSchema, schemaName, schema.Kind())
}

func (tc *TypeChecker) checkObject(obj *decl.ObjectLiteral, schema *decl.ObjectSchema, schemaName string, depth int) error {
	for _, name := range schema.Order {
		field, ok := obj.Get(name)
		if !ok {
			return fmt.Errorf("%w: missing field '%s' required by schema '%s'", ErrFieldMismatch, name, schemaName)
		}
		fieldValue, err := tc.Scope.Deref(field)
		if err != nil {
			return fmt.Errorf("field '%s': %w", name, err)
		}
		if err := tc.check(fieldValue, schema.Fields[name], depth+1); err != nil {
			return fmt.Errorf("field '%s' of schema '%s': %w", name, schemaName, err)
		}
	}
	for _, name := range obj.Order {
		if _, ok := schema.Fields[name]; !ok {
			return fmt.Errorf("%w: %w: '%s' is not declared by schema '%s'", ErrFieldMismatch, ErrExtraField, name, schemaName)
		}
	}
	return nil
}

func (tc *TypeChecker) checkArray(arr *decl.ArrayLiteral, schema *decl.ArraySchema, schemaName string, depth int) error {
	if len(arr.Entries) != schema.Length {
		return fmt.Errorf("%w: schema '%s' expects %d elements, found %d", ErrFieldMismatch, schemaName, schema.Length, len(arr.Entries))
	}
	for i, entry := range arr.Entries {
		elem, err := tc.Scope.Deref(entry)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if err := tc.check(elem, schema.Elem, depth+1); err != nil {
			return fmt.Errorf("element %d of schema '%s': %w", i, schemaName, err)
		}
	}
	return nil
}
