package decl

import (
	"fmt"
	"strings"
)

// AttrKind is the declared structural type of a binding or schema field.
type AttrKind int

const (
	AttrAny AttrKind = iota // no structural type declared
	AttrNumeric
	AttrBool
	AttrString
	AttrObject
	AttrArray
	AttrFunction
	AttrComplex
)

var attrNames = map[AttrKind]string{
	AttrAny:      "any",
	AttrNumeric:  "numeric",
	AttrBool:     "bool",
	AttrString:   "string",
	AttrObject:   "object",
	AttrArray:    "array",
	AttrFunction: "fn",
	AttrComplex:  "complex",
}

func (k AttrKind) String() string {
	if s, ok := attrNames[k]; ok {
		return s
	}
	return fmt.Sprintf("AttrKind(%d)", int(k))
}

// AnonymousSchema opts a complex binding out of structural checking.
const AnonymousSchema = "anonymous"

// TypeAttr is a declared type. For AttrComplex, Schema names the binding
// holding the structural schema; an empty Schema is the bare complex marker
// whose name is supplied separately (by the complex-schema flag).
type TypeAttr struct {
	Kind   AttrKind
	Schema string
}

var (
	AnyAttr      = TypeAttr{Kind: AttrAny}
	NumericAttr  = TypeAttr{Kind: AttrNumeric}
	BoolAttr     = TypeAttr{Kind: AttrBool}
	StringAttr   = TypeAttr{Kind: AttrString}
	ObjectAttr   = TypeAttr{Kind: AttrObject}
	ArrayAttr    = TypeAttr{Kind: AttrArray}
	FunctionAttr = TypeAttr{Kind: AttrFunction}
	ComplexKind  = TypeAttr{Kind: AttrComplex}
)

func Complex(schema string) TypeAttr {
	return TypeAttr{Kind: AttrComplex, Schema: schema}
}

func (t TypeAttr) IsComplex() bool { return t.Kind == AttrComplex }

func (t TypeAttr) String() string {
	if t.Kind == AttrComplex && t.Schema != "" {
		return "complex:" + t.Schema
	}
	return t.Kind.String()
}

// Syntax renders the attribute the way it is written in source.
func (t TypeAttr) Syntax() string {
	return "<" + t.String() + ">"
}

// ParseTypeAttr parses "numeric", "complex", "complex:Point" etc.
func ParseTypeAttr(s string) (TypeAttr, error) {
	name, schema, hasSchema := strings.Cut(s, ":")
	for kind, kname := range attrNames {
		if kname != name || kind == AttrAny {
			continue
		}
		if hasSchema {
			if kind != AttrComplex {
				return AnyAttr, fmt.Errorf("type attribute '%s' does not take a schema name", name)
			}
			if schema == "" {
				return AnyAttr, fmt.Errorf("empty schema name in type attribute '%s'", s)
			}
			return Complex(schema), nil
		}
		return TypeAttr{Kind: kind}, nil
	}
	return AnyAttr, fmt.Errorf("unknown type attribute '%s'", s)
}

// --- Declaration flags ---

// Flag is a declaration flag as produced by the front end.
type Flag string

const (
	FlagAssign = Flag("assign-present")
	FlagConst  = Flag("const")

	structuralTypePrefix = "structural-type:"
	complexSchemaPrefix  = "complex-schema:"
)

func StructuralTypeFlag(kind AttrKind) Flag {
	return Flag(structuralTypePrefix + kind.String())
}

func ComplexSchemaFlag(name string) Flag {
	return Flag(complexSchemaPrefix + name)
}

// Flags is the ordered flag list of a declaration.
type Flags []Flag

func (f Flags) Has(flag Flag) bool {
	for _, x := range f {
		if x == flag {
			return true
		}
	}
	return false
}

func (f Flags) withPrefix(prefix string) (string, bool) {
	for _, x := range f {
		if rest, ok := strings.CutPrefix(string(x), prefix); ok {
			return rest, true
		}
	}
	return "", false
}

// StructuralType returns the declared attribute kind, AttrAny if none.
func (f Flags) StructuralType() (AttrKind, error) {
	name, ok := f.withPrefix(structuralTypePrefix)
	if !ok {
		return AttrAny, nil
	}
	attr, err := ParseTypeAttr(name)
	if err != nil {
		return AttrAny, err
	}
	return attr.Kind, nil
}

// ComplexSchema returns the schema name given by a complex-schema flag.
func (f Flags) ComplexSchema() (string, bool) {
	return f.withPrefix(complexSchemaPrefix)
}

// DeclaredType combines the structural-type and complex-schema flags.
func (f Flags) DeclaredType() (TypeAttr, error) {
	kind, err := f.StructuralType()
	if err != nil {
		return AnyAttr, err
	}
	out := TypeAttr{Kind: kind}
	if kind == AttrComplex {
		out.Schema, _ = f.ComplexSchema()
	}
	return out, nil
}

// Syntax renders flags back into source form, assignment flag last.
func (f Flags) Syntax() (out []string) {
	if f.Has(FlagConst) {
		out = append(out, "<const>")
	}
	if attr, err := f.DeclaredType(); err == nil && attr.Kind != AttrAny {
		out = append(out, attr.Syntax())
	}
	if f.Has(FlagAssign) {
		out = append(out, "<asg>")
	}
	return
}
