package decl

import (
	"fmt"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Expr represents an expression node (evaluates to an EvalResult).
type Expr interface {
	Stmt
	exprNode() // Marker method for expressions
}

type ExprBase struct {
	NodeInfo
}

func (e *ExprBase) exprNode() {}
func (e *ExprBase) stmtNode() {}

// --- Leaves ---

// Identifier is a bare name. Evaluating it never copies the bound value.
type Identifier struct {
	ExprBase
	Name string
}

func (i *Identifier) String() string             { return i.Name }
func (i *Identifier) PrettyPrint(cp CodePrinter) { cp.Print(i.Name) }

type StringLiteral struct {
	ExprBase
	Value string
}

func (s *StringLiteral) String() string             { return strconv.Quote(s.Value) }
func (s *StringLiteral) PrettyPrint(cp CodePrinter) { cp.Print(s.String()) }

// NumericLiteral holds the parsed value at full precision.
// Width selection happens at evaluation time.
type NumericLiteral struct {
	ExprBase
	Value float64
}

func (n *NumericLiteral) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}
func (n *NumericLiteral) PrettyPrint(cp CodePrinter) { cp.Print(n.String()) }

type BooleanLiteral struct {
	ExprBase
	Value bool
}

func (b *BooleanLiteral) String() string             { return strconv.FormatBool(b.Value) }
func (b *BooleanLiteral) PrettyPrint(cp CodePrinter) { cp.Print(b.String()) }

type NilLiteral struct {
	ExprBase
}

func (n *NilLiteral) String() string             { return "!?" }
func (n *NilLiteral) PrettyPrint(cp CodePrinter) { cp.Print("!?") }

// --- Operators and accessors ---

// BinaryOp represents `left operator right`
type BinaryOp struct {
	ExprBase
	Left     Expr
	Operator string // "+", "-", "*", "/", "%"
	Right    Expr
}

func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator, b.Right)
}
func (b *BinaryOp) PrettyPrint(cp CodePrinter) { cp.Print(b.String()) }

// MemberAccess represents `object.property`
type MemberAccess struct {
	ExprBase
	Object   Expr
	Property *Identifier
}

func (m *MemberAccess) String() string {
	return fmt.Sprintf("%s.%s", m.Object, m.Property.Name)
}
func (m *MemberAccess) PrettyPrint(cp CodePrinter) { cp.Print(m.String()) }

// IndexAccess represents `array[index]`
type IndexAccess struct {
	ExprBase
	Array Expr
	Index Expr
}

func (i *IndexAccess) String() string {
	return fmt.Sprintf("%s[%s]", i.Array, i.Index)
}
func (i *IndexAccess) PrettyPrint(cp CodePrinter) { cp.Print(i.String()) }

// Call represents `callee(args...)`
type Call struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

func (c *Call) String() string {
	args := gfn.Map(c.Args, func(e Expr) string { return e.String() })
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}
func (c *Call) PrettyPrint(cp CodePrinter) { cp.Print(c.String()) }

// --- Schemas: type descriptors, never evaluated as data ---

// FieldSpec is a named type attribute inside a schema expression.
type FieldSpec struct {
	Name string
	Attr TypeAttr
}

func (f FieldSpec) String() string {
	return fmt.Sprintf("%s: %s", f.Name, f.Attr.Syntax())
}

// ObjectTypeExpr represents `@object { name: <attr>; ... }`
type ObjectTypeExpr struct {
	ExprBase
	Fields []FieldSpec
}

func (o *ObjectTypeExpr) String() string {
	fields := gfn.Map(o.Fields, func(f FieldSpec) string { return f.String() + ";" })
	return fmt.Sprintf("@object { %s }", strings.Join(fields, " "))
}

func (o *ObjectTypeExpr) PrettyPrint(cp CodePrinter) {
	cp.Println("@object {")
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, f := range o.Fields {
			cp.Println(f.String() + ";")
		}
	})
	cp.Print("}")
}

// ArrayTypeExpr represents `@array [ <attr>; length ]`
type ArrayTypeExpr struct {
	ExprBase
	Elem   TypeAttr
	Length int
}

func (a *ArrayTypeExpr) String() string {
	return fmt.Sprintf("@array [%s; %d]", a.Elem.Syntax(), a.Length)
}
func (a *ArrayTypeExpr) PrettyPrint(cp CodePrinter) { cp.Print(a.String()) }

// FunctionTypeExpr represents `@fn (name: <attr>, ...) -> <attr>`
type FunctionTypeExpr struct {
	ExprBase
	Params []FieldSpec
	Return TypeAttr
}

func (f *FunctionTypeExpr) String() string {
	params := gfn.Map(f.Params, func(p FieldSpec) string { return p.String() })
	return fmt.Sprintf("@fn (%s) -> %s", strings.Join(params, ", "), f.Return.Syntax())
}
func (f *FunctionTypeExpr) PrettyPrint(cp CodePrinter) { cp.Print(f.String()) }

// --- Data literals ---

// FieldInit is a named value inside an object literal.
type FieldInit struct {
	Name  string
	Value Expr
}

// ObjectLiteralExpr represents `{ name: expr; ... }`
type ObjectLiteralExpr struct {
	ExprBase
	Fields []FieldInit
}

func (o *ObjectLiteralExpr) String() string {
	fields := gfn.Map(o.Fields, func(f FieldInit) string { return fmt.Sprintf("%s: %s;", f.Name, f.Value) })
	return fmt.Sprintf("{ %s }", strings.Join(fields, " "))
}

func (o *ObjectLiteralExpr) PrettyPrint(cp CodePrinter) {
	cp.Println("{")
	WithIndent(1, cp, func(cp CodePrinter) {
		for _, f := range o.Fields {
			cp.Printf("%s: ", f.Name)
			f.Value.PrettyPrint(cp)
			cp.Println(";")
		}
	})
	cp.Print("}")
}

// ArrayLiteralExpr represents `[ expr, ... ]`
type ArrayLiteralExpr struct {
	ExprBase
	Elements []Expr
}

func (a *ArrayLiteralExpr) String() string {
	elems := gfn.Map(a.Elements, func(e Expr) string { return e.String() })
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}
func (a *ArrayLiteralExpr) PrettyPrint(cp CodePrinter) { cp.Print(a.String()) }
