package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panyam/ion/decl"
	"github.com/panyam/ion/parser"
	"github.com/panyam/ion/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func memLoader(files map[string]string) *Loader {
	mfs := NewMemoryFS()
	mfs.PreloadFiles(files)
	return NewLoader(mfs)
}

func TestLoad(t *testing.T) {
	defer runtime.QuietTest(t)()
	l := memLoader(map[string]string{
		"prog/ok.io":  `$x <numeric> <asg> 1 + 2;`,
		"prog/bad.io": "$x <asg> 1;\n$y <asg> ;",
	})

	src, err := l.Load("prog/ok.io")
	require.NoError(t, err)
	assert.Equal(t, "prog/ok.io", src.Path)
	assert.Len(t, src.Program.Body, 1)

	_, err = l.Load("prog/bad.io")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrUnexpectedToken))
	var d *Diagnostic
	require.True(t, errors.As(err, &d))
	assert.True(t, d.HasPos)
	assert.Equal(t, 2, d.Pos.Line)
	assert.Contains(t, err.Error(), "prog/bad.io:2:")

	_, err = l.Load("prog/missing.io")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseSource_LexError(t *testing.T) {
	_, err := ParseSource("<stdin>", "$x <asg> #;")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrLex))
	pos, ok := ErrorPos(err)
	assert.True(t, ok)
	assert.Equal(t, 1, pos.Line)
}

func TestExpandAndCheck(t *testing.T) {
	defer runtime.QuietTest(t)()
	l := memLoader(map[string]string{
		"dir/a.io":        `$a <asg> 1;`,
		"dir/b.io":        `$b <asg> ;`,
		"dir/c.io":        `$c <asg> "x";`,
		"dir/notes.txt":   `not source`,
		"dir/sub/deep.io": `$d <asg> 1;`,
		"single.io":       `$s <asg> ;`,
	})

	files, err := l.Expand("dir", "single.io")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/a.io", "dir/b.io", "dir/c.io", "single.io"}, files)

	_, err = l.Expand("nowhere")
	assert.Error(t, err)

	sources, errs := l.Check("dir", "single.io")
	assert.Len(t, sources, 2)
	require.Len(t, errs.Errors, 2)
	assert.Contains(t, errs.Errors[0].Error(), "dir/b.io")
	assert.Contains(t, errs.Errors[1].Error(), "single.io")

	l.MaxErrors = 1
	_, errs = l.Check("dir", "single.io")
	assert.Len(t, errs.Errors, 1)
	assert.Equal(t, 1, errs.Dropped())
	assert.True(t, errors.Is(errs.Err(), ErrTooManyErrors))
}

func TestRun(t *testing.T) {
	defer runtime.QuietTest(t)()
	l := memLoader(map[string]string{
		"main.io": "$x <numeric> <asg> 2;\nx <asg> \"two\";",
		"ok.io":   "$y <asg> 6 * 7;",
	})
	var out bytes.Buffer
	scope := runtime.NewRootScope(&runtime.Host{Stdout: &out})

	_, err := l.Run("ok.io", scope, nil)
	require.NoError(t, err)
	v, err := scope.ResolveValue("y")
	require.NoError(t, err)
	assert.Equal(t, "42", v.String())

	_, err = l.Run("main.io", scope, runtime.NewSimpleEval())
	require.Error(t, err)
	assert.True(t, errors.Is(err, runtime.ErrTypeMismatch))
	assert.True(t, strings.HasPrefix(err.Error(), "main.io:2:1: "), err.Error())
}

func TestErrorCollector(t *testing.T) {
	c := &ErrorCollector{MaxErrors: 2}
	assert.False(t, c.HasErrors())
	assert.NoError(t, c.Err())

	assert.True(t, c.AddErrors(errors.New("one"), nil))
	assert.False(t, c.Errorf("f.io", decl.Location{}, "two %d", 2))
	assert.False(t, c.AddErrors(errors.New("three")))
	assert.Equal(t, 1, c.Dropped())
	assert.True(t, c.Full())

	var buf bytes.Buffer
	c.PrintErrors(&buf)
	assert.Equal(t, "one\nf.io:0:0: two 2\n... and 1 more errors\n", buf.String())
}

func TestLocalFS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.io"), []byte(`$b <asg> 2;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.io"), []byte(`$a <asg> 1;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte(`#`), 0o644))

	lfs := NewLocalFS(dir)
	assert.True(t, lfs.IsDir("."))
	assert.True(t, lfs.Exists("a.io"))
	assert.False(t, lfs.Exists("c.io"))

	files, err := lfs.ListFiles(".")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.io", "b.io"}, files)

	sources, errs := NewLoader(lfs).Check(".")
	assert.False(t, errs.HasErrors())
	assert.Len(t, sources, 2)
}

// TestExamples runs every script under examples/ and compares what it logs
// against testdata/<name>.golden. Regenerate with `go test ./loader -update`.
func TestExamples(t *testing.T) {
	defer runtime.QuietTest(t)()
	l := NewLoader(NewLocalFS("../examples"))
	sources, errs := l.Check(".")
	require.NoError(t, errs.Err())
	require.NotEmpty(t, sources)

	for _, src := range sources {
		t.Run(src.Path, func(t *testing.T) {
			var out bytes.Buffer
			scope := runtime.NewRootScope(&runtime.Host{Stdout: &out})
			_, err := Exec(src, scope, nil)
			require.NoError(t, err)
			golden.Assert(t, out.String(), strings.TrimSuffix(src.Path, SourceExt)+".golden")
		})
	}
}
