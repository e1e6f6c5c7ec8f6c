package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenTypes lexes input and returns just the token types, EOF included.
func tokenTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	tokens, err := Tokenize(input)
	require.NoError(t, err, "Input:\n%s", input)
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestLexer_Declarations(t *testing.T) {
	got := tokenTypes(t, `$x <const> <numeric> <asg> 5;`)
	want := []TokenType{DOLLAR, IDENTIFIER, FLAG, FLAG, ASSIGN, NUMBER, SEMICOLON, EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_SchemasAndLiterals(t *testing.T) {
	input := `@object { x: <numeric>; } @array [<complex:Point>; 2] @fn (a: <string>) -> <bool> {a: 1.5; b: "s"} [true, false, !?]`
	got := tokenTypes(t, input)
	want := []TokenType{
		AT_OBJECT, LBRACE, IDENTIFIER, COLON, FLAG, SEMICOLON, RBRACE,
		AT_ARRAY, LBRACKET, FLAG, SEMICOLON, NUMBER, RBRACKET,
		AT_FN, LPAREN, IDENTIFIER, COLON, FLAG, RPAREN, ARROW, FLAG,
		LBRACE, IDENTIFIER, COLON, NUMBER, SEMICOLON, IDENTIFIER, COLON, STRING, RBRACE,
		LBRACKET, TRUE, COMMA, FALSE, COMMA, NIL, RBRACKET,
		EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Operators(t *testing.T) {
	got := tokenTypes(t, `a.b[0] + f(1) - 2 * 3 / 4 % 5 -> x`)
	want := []TokenType{
		IDENTIFIER, DOT, IDENTIFIER, LBRACKET, NUMBER, RBRACKET, PLUS,
		IDENTIFIER, LPAREN, NUMBER, RPAREN, MINUS, NUMBER, STAR, NUMBER,
		SLASH, NUMBER, PERCENT, NUMBER, ARROW, IDENTIFIER, EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_TokenText(t *testing.T) {
	tokens, err := Tokenize(`<complex:Point> "a\n\"b\"" 3.25 foo_1`)
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, "complex:Point", tokens[0].Text)
	assert.Equal(t, "a\n\"b\"", tokens[1].Text)
	assert.Equal(t, "3.25", tokens[2].Text)
	assert.Equal(t, "foo_1", tokens[3].Text)
	assert.Equal(t, EOF, tokens[4].Type)
}

func TestLexer_Comments(t *testing.T) {
	got := tokenTypes(t, "// line comment\n$x; /* block\n comment */ x;")
	want := []TokenType{DOLLAR, IDENTIFIER, SEMICOLON, IDENTIFIER, SEMICOLON, EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens, err := Tokenize("$a;\n  b <asg> 1;")
	require.NoError(t, err)

	assert.Equal(t, 1, tokens[0].Start.Line)
	assert.Equal(t, 1, tokens[0].Start.Col)
	assert.Equal(t, 2, tokens[1].Start.Col)

	b := tokens[3]
	assert.Equal(t, IDENTIFIER, b.Type)
	assert.Equal(t, 2, b.Start.Line)
	assert.Equal(t, 3, b.Start.Col)
	assert.Equal(t, 6, b.Start.Pos)
	assert.Equal(t, 7, b.End.Pos)

	asg := tokens[4]
	assert.Equal(t, ASSIGN, asg.Type)
	assert.Equal(t, 5, asg.Start.Col)
	assert.Equal(t, 10, asg.End.Col)
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown character", "$x <asg> #;"},
		{"bang without question", "!x"},
		{"unterminated string", `"abc`},
		{"bad escape", `"a\qb"`},
		{"unterminated flag", "$x <numeric"},
		{"empty flag", "$x <>;"},
		{"unknown schema keyword", "@thing {}"},
		{"unterminated block comment", "/* never closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrLex), "expected a lex error, got %v", err)
			var lexErr *LexError
			require.True(t, errors.As(err, &lexErr))
			assert.Equal(t, 1, lexErr.Loc.Line)
		})
	}
}
