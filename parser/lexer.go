package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/panyam/ion/decl"
)

const eof = 0

var ErrLex = errors.New("lex error")

// LexError reports an unrecognized character or malformed token.
type LexError struct {
	Loc decl.Location
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("Error at Line %d, Col %d: %s", e.Loc.Line, e.Loc.Col, e.Msg)
}

func (e *LexError) Unwrap() error { return ErrLex }

// Lexer turns source text into tokens.
type Lexer struct {
	lookaheadRunes  []rune
	lookaheadWidths []int
	reader          *bufio.Reader
	buf             strings.Builder

	// Current position in the input
	pos  int
	line int
	col  int

	// Start of the token being scanned
	tokenStart decl.Location
}

func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		line:   1,
		col:    1,
	}
}

// Tokenize lexes the whole of src. The result always ends with an EOF token.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(strings.NewReader(src)).All()
}

// All lexes until end of input.
func (l *Lexer) All() (out []Token, err error) {
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Type == EOF {
			return out, nil
		}
	}
}

func (l *Lexer) location() decl.Location {
	return decl.Location{Pos: l.pos, Line: l.line, Col: l.col}
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &LexError{Loc: l.tokenStart, Msg: fmt.Sprintf(format, args...)}
}

// --- Rune Reading Helpers (with line/col tracking) ---

func (l *Lexer) read() rune {
	if l.peek() == eof {
		return eof
	}
	r, width := l.lookaheadRunes[0], l.lookaheadWidths[0]
	l.lookaheadRunes, l.lookaheadWidths = l.lookaheadRunes[1:], l.lookaheadWidths[1:]
	l.pos += width
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune {
	return l.peekN(0)
}

func (l *Lexer) peekN(n int) rune {
	l.ensureLookAhead(n + 1)
	if n >= len(l.lookaheadRunes) {
		return eof
	}
	return l.lookaheadRunes[n]
}

func (l *Lexer) ensureLookAhead(numchars int) int {
	for len(l.lookaheadRunes) < numchars {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			break
		}
		l.lookaheadRunes = append(l.lookaheadRunes, r)
		l.lookaheadWidths = append(l.lookaheadWidths, width)
	}
	return len(l.lookaheadRunes)
}

// hasPrefix reports whether the upcoming runes spell prefix, consuming them
// if consume is set and they match.
func (l *Lexer) hasPrefix(prefix string, consume bool) bool {
	runes := []rune(prefix)
	if l.ensureLookAhead(len(runes)) < len(runes) {
		return false
	}
	for i, r := range runes {
		if l.lookaheadRunes[i] != r {
			return false
		}
	}
	if consume {
		for range runes {
			l.read()
		}
	}
	return true
}

func (l *Lexer) readTill(stop rune) {
	for r := l.peek(); r != eof && r != stop; r = l.peek() {
		l.read()
	}
}

// --- Scanning Functions ---

func (l *Lexer) skipWhitespace() error {
	for {
		r := l.peek()
		switch {
		case r == eof:
			return nil
		case unicode.IsSpace(r):
			l.read()
		case l.hasPrefix("//", true):
			l.readTill('\n')
		case l.hasPrefix("/*", false):
			l.tokenStart = l.location()
			l.read()
			l.read()
			for !l.hasPrefix("*/", true) {
				if l.read() == eof {
					return l.errorf("unterminated block comment")
				}
			}
		default:
			return nil
		}
	}
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentPart(r rune) bool  { return isIdentStart(r) || unicode.IsDigit(r) }

func (l *Lexer) scanIdentifier() string {
	l.buf.Reset()
	for r := l.peek(); r != eof && isIdentPart(r); r = l.peek() {
		l.buf.WriteRune(l.read())
	}
	return l.buf.String()
}

func (l *Lexer) scanNumber() string {
	l.buf.Reset()
	hasDecimal := false
	for r := l.peek(); r != eof; r = l.peek() {
		if unicode.IsDigit(r) {
			l.buf.WriteRune(l.read())
		} else if r == '.' && !hasDecimal && unicode.IsDigit(l.peekN(1)) {
			hasDecimal = true
			l.buf.WriteRune(l.read())
		} else {
			break
		}
	}
	return l.buf.String()
}

func (l *Lexer) scanString() (string, error) {
	l.buf.Reset()
	l.read() // opening quote
	for {
		r := l.read()
		switch r {
		case eof:
			return "", l.errorf("unterminated string literal")
		case '"':
			return l.buf.String(), nil
		case '\\':
			esc := l.read()
			switch esc {
			case 'n':
				l.buf.WriteRune('\n')
			case 't':
				l.buf.WriteRune('\t')
			case 'r':
				l.buf.WriteRune('\r')
			case '\\':
				l.buf.WriteRune('\\')
			case '"':
				l.buf.WriteRune('"')
			case eof:
				return "", l.errorf("unterminated string literal after escape")
			default:
				return "", l.errorf("invalid escape sequence \\%c", esc)
			}
		default:
			l.buf.WriteRune(r)
		}
	}
}

// scanFlag reads `<name>` or `<name:Schema>` and returns the text between
// the brackets.
func (l *Lexer) scanFlag() (string, error) {
	l.read() // '<'
	l.buf.Reset()
	for r := l.peek(); r != '>'; r = l.peek() {
		if r == eof || !(isIdentPart(r) || r == ':') {
			return "", l.errorf("unterminated flag '<%s'", l.buf.String())
		}
		l.buf.WriteRune(l.read())
	}
	l.read() // '>'
	if l.buf.Len() == 0 {
		return "", l.errorf("empty flag '<>'")
	}
	return l.buf.String(), nil
}

var punctuation = map[rune]TokenType{
	'$': DOLLAR,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACKET,
	']': RBRACKET,
	'(': LPAREN,
	')': RPAREN,
	';': SEMICOLON,
	':': COLON,
	',': COMMA,
	'.': DOT,
	'+': PLUS,
	'*': STAR,
	'/': SLASH,
	'%': PERCENT,
}

var schemaKeywords = map[string]TokenType{
	"object": AT_OBJECT,
	"array":  AT_ARRAY,
	"fn":     AT_FN,
}

// Next returns the next token, or an EOF token at end of input.
func (l *Lexer) Next() (tok Token, err error) {
	if err = l.skipWhitespace(); err != nil {
		return
	}
	l.tokenStart = l.location()
	tok.Start = l.tokenStart
	defer func() { tok.End = l.location() }()

	r := l.peek()
	switch {
	case r == eof:
		tok.Type = EOF
	case isIdentStart(r):
		tok.Text = l.scanIdentifier()
		switch tok.Text {
		case "true":
			tok.Type = TRUE
		case "false":
			tok.Type = FALSE
		default:
			tok.Type = IDENTIFIER
		}
	case unicode.IsDigit(r):
		tok.Type, tok.Text = NUMBER, l.scanNumber()
	case r == '"':
		tok.Type = STRING
		tok.Text, err = l.scanString()
	case r == '<':
		var text string
		if text, err = l.scanFlag(); err == nil {
			tok.Text = text
			if text == "asg" {
				tok.Type = ASSIGN
			} else {
				tok.Type = FLAG
			}
		}
	case r == '@':
		l.read()
		word := l.scanIdentifier()
		t, ok := schemaKeywords[word]
		if !ok {
			err = l.errorf("unknown schema keyword '@%s'", word)
			break
		}
		tok.Type, tok.Text = t, "@"+word
	case l.hasPrefix("!?", true):
		tok.Type, tok.Text = NIL, "!?"
	case l.hasPrefix("->", true):
		tok.Type, tok.Text = ARROW, "->"
	case r == '-':
		l.read()
		tok.Type, tok.Text = MINUS, "-"
	default:
		t, ok := punctuation[r]
		if !ok {
			err = l.errorf("unexpected character %q", r)
			break
		}
		l.read()
		tok.Type, tok.Text = t, string(r)
	}
	return
}
