package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/panyam/ion/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printWithLineNumbers(t *testing.T, input string) {
	t.Log("============================")
	for i, line := range strings.Split(input, "\n") {
		if len(line) > 0 {
			t.Logf("%03d: %s", i+1, line)
		}
	}
	t.Log("============================")
}

func parseString(t *testing.T, input string) *decl.Program {
	t.Helper()
	printWithLineNumbers(t, input)
	prog, err := Parse(input)
	require.NoError(t, err, "Input:\n%s", input)
	require.NotNil(t, prog)
	return prog
}

func parseStringWithError(t *testing.T, input string) error {
	t.Helper()
	_, err := Parse(input)
	require.Error(t, err, "Expected parsing to fail for Input:\n%s", input)
	return err
}

// statements renders each statement of a program on its own line.
func statements(prog *decl.Program) []string {
	out := make([]string, len(prog.Body))
	for i, s := range prog.Body {
		out[i] = s.String()
	}
	return out
}

func TestParse_VarDecl(t *testing.T) {
	prog := parseString(t, `$x <const> <numeric> <asg> 5;`)
	require.Len(t, prog.Body, 1)

	vd, ok := prog.Body[0].(*decl.VarDecl)
	require.True(t, ok, "expected *decl.VarDecl, got %T", prog.Body[0])
	assert.Equal(t, "x", vd.Name.Name)
	assert.True(t, vd.Flags.Has(decl.FlagConst))
	assert.True(t, vd.Flags.Has(decl.FlagAssign))
	kind, err := vd.Flags.StructuralType()
	require.NoError(t, err)
	assert.Equal(t, decl.AttrNumeric, kind)

	lit, ok := vd.Initializer.(*decl.NumericLiteral)
	require.True(t, ok)
	assert.Equal(t, 5.0, lit.Value)
}

func TestParse_VarDeclWithoutInitializer(t *testing.T) {
	prog := parseString(t, `$x <string>;`)
	vd := prog.Body[0].(*decl.VarDecl)
	assert.Nil(t, vd.Initializer)
	assert.False(t, vd.Flags.Has(decl.FlagAssign))
}

func TestParse_ComplexFlag(t *testing.T) {
	prog := parseString(t, `$p <complex:Point> <asg> {x: 1; y: 2;};`)
	vd := prog.Body[0].(*decl.VarDecl)

	want := decl.Flags{
		decl.StructuralTypeFlag(decl.AttrComplex),
		decl.ComplexSchemaFlag("Point"),
		decl.FlagAssign,
	}
	if diff := cmp.Diff(want, vd.Flags); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	schema, ok := vd.Flags.ComplexSchema()
	assert.True(t, ok)
	assert.Equal(t, "Point", schema)

	obj, ok := vd.Initializer.(*decl.ObjectLiteralExpr)
	require.True(t, ok)
	require.Len(t, obj.Fields, 2)
	assert.Equal(t, "x", obj.Fields[0].Name)
	assert.Equal(t, "y", obj.Fields[1].Name)
}

func TestParse_Precedence(t *testing.T) {
	prog := parseString(t, `1 + 2 * 3 - 4 % 2; (1 + 2) * 3; -5; -x; a.b.c; a[1 + 1]; f(); g(1, x, "s");`)
	want := []string{
		"((1 + (2 * 3)) - (4 % 2))",
		"((1 + 2) * 3)",
		"-5",
		"(0 - x)",
		"a.b.c",
		"a[(1 + 1)]",
		"f()",
		`g(1, x, "s")`,
	}
	if diff := cmp.Diff(want, statements(prog)); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Assignment(t *testing.T) {
	prog := parseString(t, "x <asg> 10;\np.inner.x <asg> y;")
	require.Len(t, prog.Body, 2)

	a, ok := prog.Body[0].(*decl.Assignment)
	require.True(t, ok)
	assert.IsType(t, &decl.Identifier{}, a.Target)

	b, ok := prog.Body[1].(*decl.Assignment)
	require.True(t, ok)
	m, ok := b.Target.(*decl.MemberAccess)
	require.True(t, ok)
	assert.Equal(t, "x", m.Property.Name)
	assert.Equal(t, "p.inner", m.Object.String())
	assert.Equal(t, 2, b.Pos().Line)
}

func TestParse_Schemas(t *testing.T) {
	prog := parseString(t, `
$Point <asg> @object { x: <numeric>; y: <numeric>; };
$Line <asg> @array [ <complex:Point>; 2 ];
$F <asg> @fn (a: <numeric>, b: <string>) -> <bool>;
$G <asg> @fn () -> <numeric>;
`)
	require.Len(t, prog.Body, 4)

	obj := prog.Body[0].(*decl.VarDecl).Initializer.(*decl.ObjectTypeExpr)
	want := []decl.FieldSpec{{Name: "x", Attr: decl.NumericAttr}, {Name: "y", Attr: decl.NumericAttr}}
	if diff := cmp.Diff(want, obj.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	arr := prog.Body[1].(*decl.VarDecl).Initializer.(*decl.ArrayTypeExpr)
	assert.Equal(t, decl.Complex("Point"), arr.Elem)
	assert.Equal(t, 2, arr.Length)

	fn := prog.Body[2].(*decl.VarDecl).Initializer.(*decl.FunctionTypeExpr)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, decl.StringAttr, fn.Params[1].Attr)
	assert.Equal(t, decl.BoolAttr, fn.Return)

	g := prog.Body[3].(*decl.VarDecl).Initializer.(*decl.FunctionTypeExpr)
	assert.Empty(t, g.Params)
}

func TestParse_Literals(t *testing.T) {
	prog := parseString(t, `"hi"; true; false; !?; 2.5; [1, 2, 3,]; {}; [];`)
	want := []string{`"hi"`, "true", "false", "!?", "2.5", "[1, 2, 3]", "{  }", "[]"}
	if diff := cmp.Diff(want, statements(prog)); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EmptyStatementsSkipped(t *testing.T) {
	prog := parseString(t, ";;$x;;")
	assert.Len(t, prog.Body, 1)
}

func TestParse_RoundTrip(t *testing.T) {
	input := `$p <const> <complex:Point> <asg> {x: 1; y: -2.5;}; p.x <asg> 3;`
	prog := parseString(t, input)

	again, err := Parse(prog.String())
	require.NoError(t, err, "reparsing:\n%s", prog.String())
	assert.Equal(t, prog.String(), again.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
	}{
		{"missing semicolon", "$x <asg> 5", ErrMissingToken},
		{"missing close paren", "(1 + 2;", ErrMissingToken},
		{"missing identifier after dollar", "$ <asg> 5;", ErrMissingToken},
		{"missing expression", "$x <asg> ;", ErrUnexpectedToken},
		{"expression at eof", "$x <asg>", ErrMissingToken},
		{"unknown flag", "$x <weird>;", ErrUnexpectedToken},
		{"two type flags", "$x <numeric> <string>;", ErrUnexpectedToken},
		{"schema on non complex", "$x <numeric:Foo>;", ErrUnexpectedToken},
		{"fractional array length", "@array [<numeric>; 2.5];", ErrUnexpectedToken},
		{"object literal missing colon", "{x 1};", ErrMissingToken},
		{"fn without arrow", "@fn (a: <numeric>) <bool>;", ErrMissingToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseStringWithError(t, tt.input)
			assert.True(t, errors.Is(err, tt.kind), "expected %v, got %v", tt.kind, err)
			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestParse_LexErrorPropagates(t *testing.T) {
	err := parseStringWithError(t, "$x <asg> #;")
	assert.True(t, errors.Is(err, ErrLex))
}
