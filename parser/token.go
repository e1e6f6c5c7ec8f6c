package parser

import (
	"fmt"

	"github.com/panyam/ion/decl"
)

type TokenType int

const (
	EOF TokenType = iota
	IDENTIFIER
	NUMBER
	STRING
	TRUE
	FALSE
	NIL // !?

	DOLLAR    // $
	ASSIGN    // <asg>
	FLAG      // <const>, <numeric>, <complex:Point> ...
	AT_OBJECT // @object
	AT_ARRAY  // @array
	AT_FN     // @fn

	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	LPAREN
	RPAREN
	SEMICOLON
	COLON
	COMMA
	DOT
	ARROW // ->

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
)

var tokenNames = map[TokenType]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	TRUE:       "true",
	FALSE:      "false",
	NIL:        "!?",
	DOLLAR:     "$",
	ASSIGN:     "<asg>",
	FLAG:       "FLAG",
	AT_OBJECT:  "@object",
	AT_ARRAY:   "@array",
	AT_FN:      "@fn",
	LBRACE:     "{",
	RBRACE:     "}",
	LBRACKET:   "[",
	RBRACKET:   "]",
	LPAREN:     "(",
	RPAREN:     ")",
	SEMICOLON:  ";",
	COLON:      ":",
	COMMA:      ",",
	DOT:        ".",
	ARROW:      "->",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	PERCENT:    "%",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// Token is one lexeme. For STRING, Text is the decoded content; for FLAG it is
// the text between the angle brackets.
type Token struct {
	Type  TokenType
	Text  string
	Start decl.Location
	End   decl.Location
}

func (t Token) String() string {
	switch t.Type {
	case IDENTIFIER, NUMBER, FLAG:
		return fmt.Sprintf("%s(%s)", t.Type, t.Text)
	case STRING:
		return fmt.Sprintf("%s(%q)", t.Type, t.Text)
	}
	return t.Type.String()
}

// binaryOperators maps operator tokens to the operator text stored in the tree.
var binaryOperators = map[TokenType]string{
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
}
