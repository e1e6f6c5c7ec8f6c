package runtime

import (
	"github.com/panyam/ion/decl"
)

// Schema expressions are type descriptors. Their field specs are copied
// verbatim and nothing inside them is evaluated.

func (s *SimpleEval) evalObjectTypeExpr(n *decl.ObjectTypeExpr) (decl.EvalResult, error) {
	return decl.Own(decl.NewObjectSchema(n.Fields...)), nil
}

func (s *SimpleEval) evalArrayTypeExpr(n *decl.ArrayTypeExpr) (decl.EvalResult, error) {
	return decl.Own(&decl.ArraySchema{Elem: n.Elem, Length: n.Length}), nil
}

func (s *SimpleEval) evalFunctionTypeExpr(n *decl.FunctionTypeExpr) (decl.EvalResult, error) {
	return decl.Own(decl.NewFunctionSchema(n.Return, n.Params...)), nil
}

// evalObjectLiteral keeps bare identifier fields as aliases.
func (s *SimpleEval) evalObjectLiteral(n *decl.ObjectLiteralExpr, scope *decl.Scope) (decl.EvalResult, error) {
	out := decl.NewObjectLiteral()
	for _, f := range n.Fields {
		r, err := s.eval(f.Value, scope)
		if err != nil {
			return nil, err
		}
		out.Set(f.Name, r)
	}
	return decl.Own(out), nil
}

func (s *SimpleEval) evalArrayLiteral(n *decl.ArrayLiteralExpr, scope *decl.Scope) (decl.EvalResult, error) {
	out := &decl.ArrayLiteral{Entries: make([]decl.EvalResult, 0, len(n.Elements))}
	for _, e := range n.Elements {
		r, err := s.eval(e, scope)
		if err != nil {
			return nil, err
		}
		out.Entries = append(out.Entries, r)
	}
	return decl.Own(out), nil
}
