package loader

import (
	"fmt"

	"github.com/panyam/ion/decl"
	"github.com/panyam/ion/parser"
	"github.com/panyam/ion/runtime"
)

// Source is one loaded and parsed file.
type Source struct {
	Path    string
	Text    string
	Program *decl.Program
}

// Loader reads source files through a FileSystem and parses them.
type Loader struct {
	fs FileSystem

	// MaxErrors caps the diagnostics gathered by Check. 0 => no limit.
	MaxErrors int
}

func NewLoader(fs FileSystem) *Loader {
	if fs == nil {
		fs = NewLocalFS("")
	}
	return &Loader{fs: fs}
}

func (l *Loader) FS() FileSystem { return l.fs }

// Load reads and parses a single file. Failures come back as a *Diagnostic.
func (l *Loader) Load(path string) (*Source, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, &Diagnostic{Path: path, Err: err}
	}
	return ParseSource(path, string(data))
}

// ParseSource parses text that came from somewhere other than a FileSystem.
func ParseSource(name, text string) (*Source, error) {
	prog, err := parser.Parse(text)
	if err != nil {
		return nil, NewDiagnostic(name, err)
	}
	runtime.Debug("parsed %s: %d statements", name, len(prog.Body))
	return &Source{Path: name, Text: text, Program: prog}, nil
}

// Expand replaces every directory in paths with the source files it contains.
func (l *Loader) Expand(paths ...string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if !l.fs.Exists(p) {
			return nil, &Diagnostic{Path: p, Err: fmt.Errorf("no such file or directory")}
		}
		if !l.fs.IsDir(p) {
			out = append(out, p)
			continue
		}
		files, err := l.fs.ListFiles(p)
		if err != nil {
			return nil, &Diagnostic{Path: p, Err: err}
		}
		out = append(out, files...)
	}
	return out, nil
}

// Check parses every file (directories are expanded) without evaluating.
// Parsing stops at the first error in a file; the collector gathers one
// diagnostic per failing file up to MaxErrors.
func (l *Loader) Check(paths ...string) ([]*Source, *ErrorCollector) {
	errs := &ErrorCollector{MaxErrors: l.MaxErrors}
	files, err := l.Expand(paths...)
	if err != nil {
		errs.AddErrors(err)
		return nil, errs
	}
	var sources []*Source
	for _, f := range files {
		src, err := l.Load(f)
		if err != nil {
			errs.AddErrors(err)
			continue
		}
		sources = append(sources, src)
	}
	return sources, errs
}

// Run loads path and evaluates it in scope.
func (l *Loader) Run(path string, scope *decl.Scope, eval *runtime.SimpleEval) (decl.EvalResult, error) {
	src, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	return Exec(src, scope, eval)
}

// Exec evaluates an already parsed source in scope.
func Exec(src *Source, scope *decl.Scope, eval *runtime.SimpleEval) (decl.EvalResult, error) {
	if eval == nil {
		eval = runtime.NewSimpleEval()
	}
	result, err := eval.Eval(src.Program, scope)
	if err != nil {
		return nil, NewDiagnostic(src.Path, err)
	}
	return result, nil
}
