package decl

import (
	"fmt"
	"strings"
)

// --- Interfaces ---

// Node represents any node in the syntax tree.
// The set of node kinds is closed: every implementation lives in this package.
type Node interface {
	Pos() Location  // Starting position (for error reporting)
	End() Location  // Ending position
	String() string // String representation for debugging/printing
	PrettyPrint(cp CodePrinter)
	node()
}

// Stmt is a node that can appear directly in a Program body.
// Every expression is also a statement (expression statements).
type Stmt interface {
	Node
	stmtNode()
}

// Location is a position in the source text.
type Location struct {
	Pos  int // Byte offset
	Line int // 1-based line
	Col  int // 1-based rune column
}

func (l Location) LineColStr() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

func (l Location) String() string {
	return fmt.Sprintf("Line %d, Col %d", l.Line, l.Col)
}

// --- Base Struct ---

// NodeInfo embeddable struct for position tracking.
type NodeInfo struct{ StartPos, StopPos Location }

func NewNodeInfo(start, end Location) NodeInfo {
	return NodeInfo{StartPos: start, StopPos: end}
}

func (n *NodeInfo) Pos() Location { return n.StartPos }
func (n *NodeInfo) End() Location { return n.StopPos }
func (n *NodeInfo) node()         {}

// --- Statements ---

// Program is the root of a parsed source: a sequence of statements
// evaluated in order. Its value is the value of the last statement.
type Program struct {
	NodeInfo
	Body []Stmt
}

func (p *Program) stmtNode() {}

func (p *Program) String() string {
	lines := []string{}
	for _, s := range p.Body {
		lines = append(lines, statementString(s))
	}
	return strings.Join(lines, "\n")
}

func (p *Program) PrettyPrint(cp CodePrinter) {
	for _, s := range p.Body {
		s.PrettyPrint(cp)
		cp.Println(";")
	}
}

// VarDecl represents `$name <flag>... [<asg> initializer];`
type VarDecl struct {
	NodeInfo
	Name        *Identifier
	Flags       Flags
	Initializer Expr // nil when the assign-present flag is absent
}

func (v *VarDecl) stmtNode() {}

func (v *VarDecl) header() string {
	var sb strings.Builder
	sb.WriteString("$")
	sb.WriteString(v.Name.Name)
	for _, f := range v.Flags.Syntax() {
		sb.WriteString(" ")
		sb.WriteString(f)
	}
	return sb.String()
}

func (v *VarDecl) String() string {
	if v.Initializer == nil {
		return v.header()
	}
	return v.header() + " " + v.Initializer.String()
}

func (v *VarDecl) PrettyPrint(cp CodePrinter) {
	cp.Print(v.header())
	if v.Initializer != nil {
		cp.Print(" ")
		v.Initializer.PrettyPrint(cp)
	}
}

// Assignment represents `target <asg> value;`
type Assignment struct {
	NodeInfo
	Target Expr
	Value  Expr
}

func (a *Assignment) stmtNode() {}

func (a *Assignment) String() string {
	return fmt.Sprintf("%s <asg> %s", a.Target, a.Value)
}

func (a *Assignment) PrettyPrint(cp CodePrinter) {
	a.Target.PrettyPrint(cp)
	cp.Print(" <asg> ")
	a.Value.PrettyPrint(cp)
}

func statementString(s Stmt) string {
	return s.String() + ";"
}
