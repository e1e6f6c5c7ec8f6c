package runtime

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/panyam/ion/decl"
	"github.com/panyam/ion/parser"
	"github.com/stretchr/testify/require"
)

// testHost captures native output and feeds input from a string.
func testHost(input string) (*Host, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Host{Stdout: out, Stdin: bufio.NewReader(strings.NewReader(input))}, out
}

// runSource parses and evaluates src in a fresh root scope.
func runSource(t *testing.T, src string) (decl.EvalResult, *decl.Scope, error) {
	t.Helper()
	defer QuietTest(t)()
	prog, err := parser.Parse(src)
	require.NoError(t, err, "Input:\n%s", src)
	host, _ := testHost("")
	scope := NewRootScope(host)
	result, err := Evaluate(prog, scope)
	return result, scope, err
}

// mustRun is runSource that requires success.
func mustRun(t *testing.T, src string) (decl.EvalResult, *decl.Scope) {
	t.Helper()
	result, scope, err := runSource(t, src)
	require.NoError(t, err, "Input:\n%s", src)
	return result, scope
}

// valueOf resolves name in scope to its display string.
func valueOf(t *testing.T, scope *decl.Scope, name string) string {
	t.Helper()
	s, err := Display(decl.Alias{Name: name}, scope)
	require.NoError(t, err)
	return s
}
