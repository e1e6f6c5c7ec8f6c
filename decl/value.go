package decl

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// ValueKind tags every runtime value variant.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindString
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindObject
	KindObjectLiteral
	KindArray
	KindArrayLiteral
	KindFunctionSchema
	KindNativeFunction
	KindStatementExecuted
)

var kindNames = [...]string{
	KindNil:               "Nil",
	KindBool:              "Boolean",
	KindString:            "String",
	KindI8:                "I8",
	KindI16:               "I16",
	KindI32:               "I32",
	KindI64:               "I64",
	KindU8:                "U8",
	KindU16:               "U16",
	KindU32:               "U32",
	KindU64:               "U64",
	KindF32:               "F32",
	KindF64:               "F64",
	KindObject:            "Object",
	KindObjectLiteral:     "ObjectLiteral",
	KindArray:             "Array",
	KindArrayLiteral:      "ArrayLiteral",
	KindFunctionSchema:    "FunctionSchema",
	KindNativeFunction:    "NativeFunction",
	KindStatementExecuted: "StatementExecuted",
}

func (k ValueKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

func (k ValueKind) IsNumeric() bool { return k >= KindI8 && k <= KindF64 }
func (k ValueKind) IsFloat() bool   { return k == KindF32 || k == KindF64 }
func (k ValueKind) IsInteger() bool { return k >= KindI8 && k <= KindU64 }

// Value is the closed set of runtime values.
type Value interface {
	Kind() ValueKind
	Clone() Value
	String() string
	isValue()
}

// --- Scalars ---

type Nil struct{}

func (Nil) Kind() ValueKind { return KindNil }
func (Nil) Clone() Value    { return Nil{} }
func (Nil) String() string  { return "nil" }
func (Nil) isValue()        {}

type Bool bool

func (b Bool) Kind() ValueKind { return KindBool }
func (b Bool) Clone() Value    { return b }
func (b Bool) String() string  { return strconv.FormatBool(bool(b)) }
func (b Bool) isValue()        {}

type String string

func (s String) Kind() ValueKind { return KindString }
func (s String) Clone() Value    { return s }
func (s String) String() string  { return string(s) }
func (s String) isValue()        {}

// NumberType lists the Go representations of the numeric variants.
type NumberType interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Number is the one generic shape shared by every numeric variant.
// Number[uint8] and Number[int64] are distinct values of distinct kinds.
type Number[T NumberType] struct {
	V T
}

// Numeric is implemented by every Number instantiation.
type Numeric interface {
	Value
	Float64() float64
}

func NewNumber[T NumberType](v T) Number[T] { return Number[T]{V: v} }

func (n Number[T]) Kind() ValueKind {
	switch any(n.V).(type) {
	case int8:
		return KindI8
	case int16:
		return KindI16
	case int32:
		return KindI32
	case int64:
		return KindI64
	case uint8:
		return KindU8
	case uint16:
		return KindU16
	case uint32:
		return KindU32
	case uint64:
		return KindU64
	case float32:
		return KindF32
	default:
		return KindF64
	}
}

func (n Number[T]) Float64() float64 { return float64(n.V) }
func (n Number[T]) Clone() Value     { return n }
func (n Number[T]) isValue()         {}

func (n Number[T]) String() string {
	switch v := any(n.V).(type) {
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// --- Schemas ---

// ObjectSchema is a declared structural schema: field name to type attribute.
type ObjectSchema struct {
	Fields map[string]TypeAttr
	Order  []string
}

func NewObjectSchema(fields ...FieldSpec) *ObjectSchema {
	out := &ObjectSchema{Fields: map[string]TypeAttr{}}
	for _, f := range fields {
		if _, exists := out.Fields[f.Name]; !exists {
			out.Order = append(out.Order, f.Name)
		}
		out.Fields[f.Name] = f.Attr
	}
	return out
}

func (o *ObjectSchema) Kind() ValueKind { return KindObject }
func (o *ObjectSchema) isValue()        {}

func (o *ObjectSchema) Clone() Value {
	out := &ObjectSchema{Fields: make(map[string]TypeAttr, len(o.Fields)), Order: slices.Clone(o.Order)}
	for k, v := range o.Fields {
		out.Fields[k] = v
	}
	return out
}

func (o *ObjectSchema) String() string {
	fields := gfn.Map(o.Order, func(k string) string { return fmt.Sprintf("%s: %s", k, o.Fields[k].Syntax()) })
	return fmt.Sprintf("Object{%s}", strings.Join(fields, ", "))
}

// ArraySchema is a declared fixed-length array schema.
type ArraySchema struct {
	Elem   TypeAttr // Elem.Schema names the element schema, if any
	Length int
}

func (a *ArraySchema) Kind() ValueKind { return KindArray }
func (a *ArraySchema) isValue()         {}
func (a *ArraySchema) Clone() Value {
	out := *a
	return &out
}

func (a *ArraySchema) String() string {
	return fmt.Sprintf("Array[%s; %d]", a.Elem.Syntax(), a.Length)
}

// FunctionSchema declares parameter and return types.
type FunctionSchema struct {
	Params map[string]TypeAttr
	Order  []string
	Return TypeAttr
}

func NewFunctionSchema(ret TypeAttr, params ...FieldSpec) *FunctionSchema {
	out := &FunctionSchema{Params: map[string]TypeAttr{}, Return: ret}
	for _, p := range params {
		if _, exists := out.Params[p.Name]; !exists {
			out.Order = append(out.Order, p.Name)
		}
		out.Params[p.Name] = p.Attr
	}
	return out
}

func (f *FunctionSchema) Kind() ValueKind { return KindFunctionSchema }
func (f *FunctionSchema) isValue()        {}

func (f *FunctionSchema) Clone() Value {
	out := &FunctionSchema{Params: make(map[string]TypeAttr, len(f.Params)), Order: slices.Clone(f.Order), Return: f.Return}
	for k, v := range f.Params {
		out.Params[k] = v
	}
	return out
}

func (f *FunctionSchema) String() string {
	params := gfn.Map(f.Order, func(k string) string { return fmt.Sprintf("%s: %s", k, f.Params[k].Syntax()) })
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), f.Return.Syntax())
}

// --- Data ---

// ObjectLiteral maps field names to evaluation results. Fields initialized
// from a bare identifier hold an Alias.
type ObjectLiteral struct {
	Fields map[string]EvalResult
	Order  []string
}

func NewObjectLiteral() *ObjectLiteral {
	return &ObjectLiteral{Fields: map[string]EvalResult{}}
}

func (o *ObjectLiteral) Kind() ValueKind { return KindObjectLiteral }
func (o *ObjectLiteral) isValue()        {}

func (o *ObjectLiteral) Get(name string) (EvalResult, bool) {
	r, ok := o.Fields[name]
	return r, ok
}

// Set adds or replaces a field, keeping first-insertion order.
func (o *ObjectLiteral) Set(name string, value EvalResult) {
	if _, exists := o.Fields[name]; !exists {
		o.Order = append(o.Order, name)
	}
	o.Fields[name] = value
}

func (o *ObjectLiteral) Clone() Value {
	out := &ObjectLiteral{Fields: make(map[string]EvalResult, len(o.Fields)), Order: slices.Clone(o.Order)}
	for k, v := range o.Fields {
		out.Fields[k] = CloneResult(v)
	}
	return out
}

func (o *ObjectLiteral) String() string {
	fields := gfn.Map(o.Order, func(k string) string { return fmt.Sprintf("%s: %s", k, o.Fields[k]) })
	return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
}

// ArrayLiteral is an ordered sequence of evaluation results.
type ArrayLiteral struct {
	Entries []EvalResult
}

func (a *ArrayLiteral) Kind() ValueKind { return KindArrayLiteral }
func (a *ArrayLiteral) isValue()        {}

func (a *ArrayLiteral) Clone() Value {
	return &ArrayLiteral{Entries: gfn.Map(a.Entries, CloneResult)}
}

func (a *ArrayLiteral) String() string {
	entries := gfn.Map(a.Entries, func(e EvalResult) string { return e.String() })
	return fmt.Sprintf("[%s]", strings.Join(entries, ", "))
}

// NativeFunc is the host-side signature of a callable binding.
type NativeFunc func(args []EvalResult, scope *Scope) (EvalResult, error)

// NativeFunction wraps a host callable.
type NativeFunction struct {
	Name string
	Fn   NativeFunc
}

func (n *NativeFunction) Kind() ValueKind { return KindNativeFunction }
func (n *NativeFunction) isValue()        {}
func (n *NativeFunction) Clone() Value    { return &NativeFunction{Name: n.Name, Fn: n.Fn} }
func (n *NativeFunction) String() string  { return fmt.Sprintf("<native fn %s>", n.Name) }

// StatementExecuted is returned by statements that produce no value.
type StatementExecuted struct{}

func (StatementExecuted) Kind() ValueKind { return KindStatementExecuted }
func (StatementExecuted) Clone() Value    { return StatementExecuted{} }
func (StatementExecuted) String() string  { return "<stmt executed>" }
func (StatementExecuted) isValue()        {}

// IsStatement reports whether r is the marker a statement evaluates to.
func IsStatement(r EvalResult) bool {
	owned, ok := r.(Owned)
	if !ok {
		return false
	}
	_, ok = owned.Value.(StatementExecuted)
	return ok
}

// --- Evaluation results ---

// EvalResult is either Owned (a value) or Alias (a name to resolve later).
type EvalResult interface {
	String() string
	isEvalResult()
}

// Owned wraps a value with no binding relationship.
type Owned struct {
	Value Value
}

func (o Owned) String() string {
	if o.Value == nil {
		return "nil"
	}
	return o.Value.String()
}
func (Owned) isEvalResult() {}

// Alias names another binding. It never carries a value.
type Alias struct {
	Name string
}

func (a Alias) String() string { return "&" + a.Name }
func (Alias) isEvalResult()    {}

func Own(v Value) EvalResult { return Owned{Value: v} }

// CloneResult deep-copies owned values; aliases are copied as names.
func CloneResult(r EvalResult) EvalResult {
	if o, ok := r.(Owned); ok && o.Value != nil {
		return Owned{Value: o.Value.Clone()}
	}
	return r
}
