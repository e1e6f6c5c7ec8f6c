package runtime

import (
	"errors"
	"testing"

	"github.com/panyam/ion/decl"
	"github.com/panyam/ion/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithHost(t *testing.T, host *Host, src string) (decl.EvalResult, *decl.Scope, error) {
	t.Helper()
	defer QuietTest(t)()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	scope := NewRootScope(host)
	result, err := Evaluate(prog, scope)
	return result, scope, err
}

func TestNewRootScope(t *testing.T) {
	scope := NewRootScope(nil)
	for _, name := range []string{"log", "input", "typeof", "len"} {
		entry, err := scope.Entry(name)
		require.NoError(t, err, name)
		assert.True(t, entry.Const, name)
		assert.Equal(t, decl.FunctionAttr, entry.Type, name)
	}
	assert.Nil(t, scope.Parent())
}

func TestNative_Log(t *testing.T) {
	host, out := testHost("")
	_, _, err := runWithHost(t, host, `
$x <asg> 5;
$o <asg> {a: x; b: "s";};
log("value", x, o, [1, 2.5], !?);
log();
`)
	require.NoError(t, err)
	assert.Equal(t, "value 5 { a: 5, b: s } [1, 2.5] nil\n\n", out.String())
}

func TestNative_LogDanglingAlias(t *testing.T) {
	host, _ := testHost("")
	_, _, err := runWithHost(t, host, `log(missing);`)
	assert.True(t, errors.Is(err, ErrUnboundName))
}

func TestNative_Input(t *testing.T) {
	host, out := testHost("alice\nbob")
	_, scope, err := runWithHost(t, host, `
$a <asg> input("name? ");
$b <asg> input();
$c <asg> input();
`)
	require.NoError(t, err)
	assert.Equal(t, "name? ", out.String())
	assert.Equal(t, "alice", valueOf(t, scope, "a"))
	assert.Equal(t, "bob", valueOf(t, scope, "b"))
	assert.Equal(t, "nil", valueOf(t, scope, "c"))

	_, _, err = runWithHost(t, host, `input("a", "b");`)
	assert.True(t, errors.Is(err, ErrInvalidOperands))
}

func TestNative_TypeofAndLen(t *testing.T) {
	host, _ := testHost("")
	_, scope, err := runWithHost(t, host, `
$x <asg> 1.5;
$t <asg> typeof(x);
$f <asg> typeof(log);
$ls <asg> len("héllo");
$la <asg> len([1, 2, 3]);
$lo <asg> len({a: 1; b: 2;});
`)
	require.NoError(t, err)
	assert.Equal(t, "F32", valueOf(t, scope, "t"))
	assert.Equal(t, "NativeFunction", valueOf(t, scope, "f"))
	assert.Equal(t, "5", valueOf(t, scope, "ls"))
	assert.Equal(t, "3", valueOf(t, scope, "la"))
	assert.Equal(t, "2", valueOf(t, scope, "lo"))

	_, _, err = runWithHost(t, host, `len(1);`)
	assert.True(t, errors.Is(err, ErrInvalidOperands))

	_, _, err = runWithHost(t, host, `typeof();`)
	assert.True(t, errors.Is(err, ErrInvalidOperands))
}

func TestDisplay(t *testing.T) {
	_, scope := mustRun(t, `
$x <asg> 5;
$o <asg> {a: x; inner: {b: [x, "s"];};};
$e <asg> {};
`)
	assert.Equal(t, "{ a: 5, inner: { b: [5, s] } }", valueOf(t, scope, "o"))
	assert.Equal(t, "{}", valueOf(t, scope, "e"))

	// String renders without a scope, so aliases stay symbolic
	v, err := scope.ResolveValue("o")
	require.NoError(t, err)
	assert.Equal(t, "{ a: &x, inner: { b: [&x, s] } }", v.String())
}

func TestDisplay_SelfReferenceIsBounded(t *testing.T) {
	_, scope := mustRun(t, `$o <asg> {self: 1;}; o.self <asg> o;`)
	s, err := Display(decl.Alias{Name: "o"}, scope)
	require.NoError(t, err)
	assert.Contains(t, s, "...")
}

func TestNative_CallsAreLogged(t *testing.T) {
	buffer, cleanup := CaptureLog(t, LogLevelDebug)
	defer cleanup()

	prog, err := parser.Parse(`$x <asg> typeof(1);`)
	require.NoError(t, err)
	_, err = Evaluate(prog, NewRootScope(nil))
	require.NoError(t, err)

	logs := buffer.String()
	assert.Contains(t, logs, "calling native typeof with 1 args")
	assert.Contains(t, logs, "declared x")
}
