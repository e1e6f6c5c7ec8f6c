package runtime

import (
	"fmt"

	"github.com/panyam/ion/decl"
)

// SimpleEval is a tree walking evaluator. It holds no per-run state, so one
// instance can evaluate any number of trees against any scopes.
type SimpleEval struct {
	MaxSchemaDepth int
}

func NewSimpleEval() *SimpleEval {
	return &SimpleEval{MaxSchemaDepth: DefaultMaxSchemaDepth}
}

// Evaluate runs node against scope with a default evaluator.
func Evaluate(node decl.Node, scope *decl.Scope) (decl.EvalResult, error) {
	return NewSimpleEval().Eval(node, scope)
}

// Eval evaluates node. Failures come back as an *EvalError carrying the
// position of the statement that failed.
func (s *SimpleEval) Eval(node decl.Node, scope *decl.Scope) (decl.EvalResult, error) {
	result, err := s.eval(node, scope)
	if err != nil {
		return nil, atNode(node, err)
	}
	return result, nil
}

func (s *SimpleEval) checker(scope *decl.Scope) *TypeChecker {
	return NewTypeChecker(scope, s.MaxSchemaDepth)
}

// The main eval loop of an expression/statement
func (s *SimpleEval) eval(node decl.Node, scope *decl.Scope) (decl.EvalResult, error) {
	switch n := node.(type) {
	// --- Statement Nodes ---
	case *decl.Program:
		return s.evalProgram(n, scope)
	case *decl.VarDecl:
		return s.evalVarDecl(n, scope)
	case *decl.Assignment:
		return s.evalAssignment(n, scope)

	// --- Expression Nodes ---
	case *decl.NilLiteral:
		return decl.Own(decl.Nil{}), nil
	case *decl.BooleanLiteral:
		return decl.Own(decl.Bool(n.Value)), nil
	case *decl.StringLiteral:
		return decl.Own(decl.String(n.Value)), nil
	case *decl.NumericLiteral:
		return decl.Own(Minimize(n.Value)), nil
	case *decl.Identifier:
		return decl.Alias{Name: n.Name}, nil
	case *decl.BinaryOp:
		return s.evalBinaryOp(n, scope)
	case *decl.MemberAccess:
		return s.evalMemberAccess(n, scope)
	case *decl.IndexAccess:
		return s.evalIndexAccess(n, scope)
	case *decl.Call:
		return s.evalCall(n, scope)
	case *decl.ObjectTypeExpr:
		return s.evalObjectTypeExpr(n)
	case *decl.ArrayTypeExpr:
		return s.evalArrayTypeExpr(n)
	case *decl.FunctionTypeExpr:
		return s.evalFunctionTypeExpr(n)
	case *decl.ObjectLiteralExpr:
		return s.evalObjectLiteral(n, scope)
	case *decl.ArrayLiteralExpr:
		return s.evalArrayLiteral(n, scope)
	case nil:
		return nil, fmt.Errorf("%w: nil node", ErrNotImplemented)
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotImplemented, node)
	}
}

// evalProgram runs every statement in order. The program's value is the
// value of its last statement.
func (s *SimpleEval) evalProgram(p *decl.Program, scope *decl.Scope) (decl.EvalResult, error) {
	var result decl.EvalResult = decl.Own(decl.Nil{})
	for _, stmt := range p.Body {
		r, err := s.eval(stmt, scope)
		if err != nil {
			return nil, atNode(stmt, err)
		}
		result = r
	}
	return result, nil
}
