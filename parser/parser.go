package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
	"github.com/panyam/ion/decl"
)

var (
	ErrMissingToken    = errors.New("missing token")
	ErrUnexpectedToken = errors.New("unexpected token")
)

// ParseError is a syntax error at a token. Kind is ErrMissingToken or
// ErrUnexpectedToken.
type ParseError struct {
	Kind  error
	Found Token
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Error at Line %d, Col %d near '%s': %s", e.Found.Start.Line, e.Found.Start.Col, e.Found.Text, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// Parse lexes and parses a complete source text.
func Parse(src string) (*decl.Program, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).ParseProgram()
}

// ParseReader is Parse over a reader.
func ParseReader(r io.Reader) (*decl.Program, error) {
	tokens, err := NewLexer(r).All()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).ParseProgram()
}

// Parser is a recursive descent parser over an immutable token slice.
// The only mutable state is the cursor.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser. tokens should end with an EOF token; one is
// added if missing.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		var end decl.Location
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].End
		}
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Type: EOF, Start: end, End: end})
	}
	return &Parser{tokens: tokens}
}

func (p *Parser) PeekToken() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekType(n int) TokenType {
	if p.pos+n >= len(p.tokens) {
		return EOF
	}
	return p.tokens[p.pos+n].Type
}

// Advance consumes the current token and returns it. EOF is never consumed.
func (p *Parser) Advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

// previous returns the most recently consumed token.
func (p *Parser) previous() Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) Errorf(kind error, format string, args ...any) error {
	return &ParseError{Kind: kind, Found: p.PeekToken(), Msg: fmt.Sprintf(format, args...)}
}

// Expect checks if the current token is one of the expected types.
// It does NOT advance.
func (p *Parser) Expect(types ...TokenType) (Token, error) {
	tok := p.PeekToken()
	for _, t := range types {
		if tok.Type == t {
			return tok, nil
		}
	}
	if len(types) == 1 {
		return tok, p.Errorf(ErrMissingToken, "expected %s, found: %s", types[0], tok)
	}
	expected := gfn.Map(types, func(t TokenType) string { return t.String() })
	return tok, p.Errorf(ErrMissingToken, "expected one of: [%s], found: %s", strings.Join(expected, ", "), tok)
}

// AdvanceIf expects one of the given types and consumes it if found.
func (p *Parser) AdvanceIf(types ...TokenType) (Token, error) {
	if _, err := p.Expect(types...); err != nil {
		return Token{}, err
	}
	return p.Advance(), nil
}

// ParseProgram parses statements until end of input.
func (p *Parser) ParseProgram() (*decl.Program, error) {
	out := &decl.Program{}
	out.StartPos = p.PeekToken().Start
	for p.PeekToken().Type != EOF {
		if p.PeekToken().Type == SEMICOLON {
			p.Advance()
			continue
		}
		stmt, err := p.ParseStmt()
		if err != nil {
			return nil, err
		}
		out.Body = append(out.Body, stmt)
	}
	out.StopPos = p.PeekToken().End
	return out, nil
}

// ParseStmt parses a declaration, an assignment or an expression statement,
// including its terminating ';'.
func (p *Parser) ParseStmt() (out decl.Stmt, err error) {
	if p.PeekToken().Type == DOLLAR {
		out, err = p.ParseVarDecl()
	} else {
		out, err = p.parseAssignmentOrExpr()
	}
	if err != nil {
		return nil, err
	}
	if _, err = p.AdvanceIf(SEMICOLON); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseVarDecl: DOLLAR IDENTIFIER FLAG* ( ASSIGN Expression )?
func (p *Parser) ParseVarDecl() (*decl.VarDecl, error) {
	start, err := p.AdvanceIf(DOLLAR)
	if err != nil {
		return nil, err
	}
	name, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	out := &decl.VarDecl{Name: name}

	hasType := false
	for p.PeekToken().Type == FLAG {
		tok := p.PeekToken()
		flags, isType, err := p.flagsFor(tok)
		if err != nil {
			return nil, err
		}
		if isType && hasType {
			return nil, p.Errorf(ErrUnexpectedToken, "declaration of '%s' has more than one type flag", name.Name)
		}
		hasType = hasType || isType
		out.Flags = append(out.Flags, flags...)
		p.Advance()
	}

	if p.PeekToken().Type == ASSIGN {
		p.Advance()
		out.Flags = append(out.Flags, decl.FlagAssign)
		if out.Initializer, err = p.ParseExpression(); err != nil {
			return nil, err
		}
	}
	out.NodeInfo = decl.NewNodeInfo(start.Start, p.previous().End)
	return out, nil
}

// flagsFor maps one flag token to declaration flags.
func (p *Parser) flagsFor(tok Token) (flags decl.Flags, isType bool, err error) {
	if tok.Text == "const" {
		return decl.Flags{decl.FlagConst}, false, nil
	}
	attr, err := decl.ParseTypeAttr(tok.Text)
	if err != nil {
		return nil, false, p.Errorf(ErrUnexpectedToken, "invalid flag <%s>: %v", tok.Text, err)
	}
	flags = decl.Flags{decl.StructuralTypeFlag(attr.Kind)}
	if attr.IsComplex() && attr.Schema != "" {
		flags = append(flags, decl.ComplexSchemaFlag(attr.Schema))
	}
	return flags, true, nil
}

func (p *Parser) parseAssignmentOrExpr() (decl.Stmt, error) {
	target, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if p.PeekToken().Type != ASSIGN {
		return target, nil
	}
	p.Advance()
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &decl.Assignment{
		NodeInfo: decl.NewNodeInfo(target.Pos(), value.End()),
		Target:   target,
		Value:    value,
	}, nil
}

func (p *Parser) ParseIdentifier() (*decl.Identifier, error) {
	tok, err := p.AdvanceIf(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	out := &decl.Identifier{Name: tok.Text}
	out.NodeInfo = decl.NewNodeInfo(tok.Start, tok.End)
	return out, nil
}

// --- Expression Parsing (Recursive Descent with Precedence) ---

// ParseExpression is the entry point for parsing any expression.
func (p *Parser) ParseExpression() (decl.Expr, error) {
	return p.ParseAddExpr()
}

// AddExpr: MulExpr ( (PLUS|MINUS) MulExpr )*
func (p *Parser) ParseAddExpr() (decl.Expr, error) {
	return p.parseBinaryExpr(p.ParseMulExpr, PLUS, MINUS)
}

// MulExpr: UnaryExpr ( (STAR|SLASH|PERCENT) UnaryExpr )*
func (p *Parser) ParseMulExpr() (decl.Expr, error) {
	return p.parseBinaryExpr(p.ParseUnaryExpr, STAR, SLASH, PERCENT)
}

// Generic helper for parsing left-associative binary expressions for a given precedence level.
func (p *Parser) parseBinaryExpr(operand func() (decl.Expr, error), operators ...TokenType) (decl.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		opTok := p.PeekToken()
		found := false
		for _, op := range operators {
			if opTok.Type == op {
				found = true
				break
			}
		}
		if !found {
			return left, nil
		}
		p.Advance()

		right, err := operand()
		if err != nil {
			return nil, err
		}
		bin := &decl.BinaryOp{Left: left, Operator: binaryOperators[opTok.Type], Right: right}
		bin.NodeInfo = decl.NewNodeInfo(left.Pos(), right.End())
		left = bin
	}
}

// UnaryExpr: MINUS UnaryExpr | PostfixExpr
// A negated number literal folds into the literal; any other operand
// becomes `0 - operand`.
func (p *Parser) ParseUnaryExpr() (decl.Expr, error) {
	if p.PeekToken().Type != MINUS {
		return p.ParsePostfixExpr()
	}
	minus := p.Advance()
	operand, err := p.ParseUnaryExpr()
	if err != nil {
		return nil, err
	}
	if num, ok := operand.(*decl.NumericLiteral); ok {
		out := &decl.NumericLiteral{Value: -num.Value}
		out.NodeInfo = decl.NewNodeInfo(minus.Start, num.End())
		return out, nil
	}
	zero := &decl.NumericLiteral{Value: 0}
	zero.NodeInfo = decl.NewNodeInfo(minus.Start, minus.End)
	out := &decl.BinaryOp{Left: zero, Operator: "-", Right: operand}
	out.NodeInfo = decl.NewNodeInfo(minus.Start, operand.End())
	return out, nil
}

// PostfixExpr: PrimaryExpr ( DOT IDENTIFIER | LBRACKET Expression RBRACKET | LPAREN ArgList? RPAREN )*
func (p *Parser) ParsePostfixExpr() (decl.Expr, error) {
	expr, err := p.ParsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch p.PeekToken().Type {
		case DOT:
			p.Advance()
			prop, err := p.ParseIdentifier()
			if err != nil {
				return nil, err
			}
			m := &decl.MemberAccess{Object: expr, Property: prop}
			m.NodeInfo = decl.NewNodeInfo(expr.Pos(), prop.End())
			expr = m
		case LBRACKET:
			p.Advance()
			index, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			closing, err := p.AdvanceIf(RBRACKET)
			if err != nil {
				return nil, err
			}
			ix := &decl.IndexAccess{Array: expr, Index: index}
			ix.NodeInfo = decl.NewNodeInfo(expr.Pos(), closing.End)
			expr = ix
		case LPAREN:
			p.Advance()
			args, err := p.parseExprList(RPAREN)
			if err != nil {
				return nil, err
			}
			call := &decl.Call{Callee: expr, Args: args}
			call.NodeInfo = decl.NewNodeInfo(expr.Pos(), p.previous().End)
			expr = call
		default:
			return expr, nil
		}
	}
}

// parseExprList parses `expr (, expr)* ,?` followed by closing, consuming closing.
func (p *Parser) parseExprList(closing TokenType) ([]decl.Expr, error) {
	out := []decl.Expr{}
	for p.PeekToken().Type != closing {
		e, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.PeekToken().Type != COMMA {
			break
		}
		p.Advance()
	}
	if _, err := p.AdvanceIf(closing); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) ParsePrimaryExpr() (decl.Expr, error) {
	tok := p.PeekToken()
	info := decl.NewNodeInfo(tok.Start, tok.End)
	switch tok.Type {
	case NUMBER:
		p.Advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &ParseError{Kind: ErrUnexpectedToken, Found: tok, Msg: fmt.Sprintf("invalid number: %v", err)}
		}
		out := &decl.NumericLiteral{Value: v}
		out.NodeInfo = info
		return out, nil
	case STRING:
		p.Advance()
		out := &decl.StringLiteral{Value: tok.Text}
		out.NodeInfo = info
		return out, nil
	case TRUE, FALSE:
		p.Advance()
		out := &decl.BooleanLiteral{Value: tok.Type == TRUE}
		out.NodeInfo = info
		return out, nil
	case NIL:
		p.Advance()
		out := &decl.NilLiteral{}
		out.NodeInfo = info
		return out, nil
	case IDENTIFIER:
		return p.ParseIdentifier()
	case LPAREN:
		p.Advance()
		inner, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.AdvanceIf(RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	case LBRACE:
		return p.ParseObjectLiteral()
	case LBRACKET:
		p.Advance()
		elems, err := p.parseExprList(RBRACKET)
		if err != nil {
			return nil, err
		}
		out := &decl.ArrayLiteralExpr{Elements: elems}
		out.NodeInfo = decl.NewNodeInfo(tok.Start, p.previous().End)
		return out, nil
	case AT_OBJECT:
		return p.ParseObjectTypeExpr()
	case AT_ARRAY:
		return p.ParseArrayTypeExpr()
	case AT_FN:
		return p.ParseFunctionTypeExpr()
	case EOF:
		return nil, p.Errorf(ErrMissingToken, "expected an expression, found end of input")
	}
	return nil, p.Errorf(ErrUnexpectedToken, "unexpected token at start of expression: %s", tok)
}

// ObjectLiteral: LBRACE ( IDENTIFIER COLON Expression (SEMICOLON|COMMA) )* RBRACE
// The separator after the last field is optional.
func (p *Parser) ParseObjectLiteral() (*decl.ObjectLiteralExpr, error) {
	start, err := p.AdvanceIf(LBRACE)
	if err != nil {
		return nil, err
	}
	out := &decl.ObjectLiteralExpr{}
	for p.PeekToken().Type != RBRACE {
		name, err := p.ParseIdentifier()
		if err != nil {
			return nil, err
		}
		if _, err := p.AdvanceIf(COLON); err != nil {
			return nil, err
		}
		value, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, decl.FieldInit{Name: name.Name, Value: value})
		if t := p.PeekToken().Type; t == SEMICOLON || t == COMMA {
			p.Advance()
		} else if t != RBRACE {
			_, err := p.Expect(SEMICOLON, RBRACE)
			return nil, err
		}
	}
	end := p.Advance()
	out.NodeInfo = decl.NewNodeInfo(start.Start, end.End)
	return out, nil
}

// parseTypeAttr consumes a FLAG token naming a type attribute.
func (p *Parser) parseTypeAttr() (decl.TypeAttr, error) {
	tok, err := p.Expect(FLAG)
	if err != nil {
		return decl.AnyAttr, err
	}
	attr, err := decl.ParseTypeAttr(tok.Text)
	if err != nil {
		return decl.AnyAttr, p.Errorf(ErrUnexpectedToken, "invalid type <%s>: %v", tok.Text, err)
	}
	p.Advance()
	return attr, nil
}

// parseFieldSpec: IDENTIFIER COLON FLAG
func (p *Parser) parseFieldSpec() (decl.FieldSpec, error) {
	name, err := p.ParseIdentifier()
	if err != nil {
		return decl.FieldSpec{}, err
	}
	if _, err := p.AdvanceIf(COLON); err != nil {
		return decl.FieldSpec{}, err
	}
	attr, err := p.parseTypeAttr()
	if err != nil {
		return decl.FieldSpec{}, err
	}
	return decl.FieldSpec{Name: name.Name, Attr: attr}, nil
}

// ObjectTypeExpr: AT_OBJECT LBRACE ( FieldSpec SEMICOLON )* RBRACE
func (p *Parser) ParseObjectTypeExpr() (*decl.ObjectTypeExpr, error) {
	start, err := p.AdvanceIf(AT_OBJECT)
	if err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(LBRACE); err != nil {
		return nil, err
	}
	out := &decl.ObjectTypeExpr{}
	for p.PeekToken().Type != RBRACE {
		field, err := p.parseFieldSpec()
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, field)
		if t := p.PeekToken().Type; t == SEMICOLON || t == COMMA {
			p.Advance()
		} else if t != RBRACE {
			_, err := p.Expect(SEMICOLON, RBRACE)
			return nil, err
		}
	}
	end := p.Advance()
	out.NodeInfo = decl.NewNodeInfo(start.Start, end.End)
	return out, nil
}

// ArrayTypeExpr: AT_ARRAY LBRACKET FLAG SEMICOLON NUMBER RBRACKET
func (p *Parser) ParseArrayTypeExpr() (*decl.ArrayTypeExpr, error) {
	start, err := p.AdvanceIf(AT_ARRAY)
	if err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(LBRACKET); err != nil {
		return nil, err
	}
	elem, err := p.parseTypeAttr()
	if err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(SEMICOLON); err != nil {
		return nil, err
	}
	lenTok, err := p.Expect(NUMBER)
	if err != nil {
		return nil, err
	}
	length, err := strconv.Atoi(lenTok.Text)
	if err != nil {
		return nil, p.Errorf(ErrUnexpectedToken, "array length must be a whole number, found %s", lenTok.Text)
	}
	p.Advance()
	end, err := p.AdvanceIf(RBRACKET)
	if err != nil {
		return nil, err
	}
	out := &decl.ArrayTypeExpr{Elem: elem, Length: length}
	out.NodeInfo = decl.NewNodeInfo(start.Start, end.End)
	return out, nil
}

// FunctionTypeExpr: AT_FN LPAREN ( FieldSpec ( COMMA FieldSpec )* )? RPAREN ARROW FLAG
func (p *Parser) ParseFunctionTypeExpr() (*decl.FunctionTypeExpr, error) {
	start, err := p.AdvanceIf(AT_FN)
	if err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(LPAREN); err != nil {
		return nil, err
	}
	out := &decl.FunctionTypeExpr{}
	for p.PeekToken().Type != RPAREN {
		param, err := p.parseFieldSpec()
		if err != nil {
			return nil, err
		}
		out.Params = append(out.Params, param)
		if p.PeekToken().Type != COMMA {
			break
		}
		p.Advance()
	}
	if _, err := p.AdvanceIf(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(ARROW); err != nil {
		return nil, err
	}
	if out.Return, err = p.parseTypeAttr(); err != nil {
		return nil, err
	}
	out.NodeInfo = decl.NewNodeInfo(start.Start, p.previous().End)
	return out, nil
}
