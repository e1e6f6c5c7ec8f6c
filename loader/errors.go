package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/panyam/ion/decl"
	"github.com/panyam/ion/parser"
	"github.com/panyam/ion/runtime"
)

var ErrTooManyErrors = errors.New("too many errors")

// Diagnostic is an error tied to a source file and, when known, a position in it.
type Diagnostic struct {
	Path   string
	Pos    decl.Location
	HasPos bool
	Err    error
}

func (d *Diagnostic) Error() string {
	if d.HasPos {
		return fmt.Sprintf("%s:%s: %v", d.Path, d.Pos.LineColStr(), d.Err)
	}
	return fmt.Sprintf("%s: %v", d.Path, d.Err)
}

func (d *Diagnostic) Unwrap() error { return d.Err }

// NewDiagnostic extracts the position carried by lexer, parser and evaluator errors.
func NewDiagnostic(path string, err error) *Diagnostic {
	d := &Diagnostic{Path: path, Err: err}
	d.Pos, d.HasPos = ErrorPos(err)
	var evalErr *runtime.EvalError
	if errors.As(err, &evalErr) {
		// the position moves to the diagnostic
		d.Err = evalErr.Err
	}
	return d
}

// ErrorPos returns the source location an error refers to, if any.
func ErrorPos(err error) (decl.Location, bool) {
	var lexErr *parser.LexError
	if errors.As(err, &lexErr) {
		return lexErr.Loc, true
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Found.Start, true
	}
	var evalErr *runtime.EvalError
	if errors.As(err, &evalErr) {
		return evalErr.Pos, true
	}
	return decl.Location{}, false
}

type ErrorCollector struct {
	// Errors gathered so far
	Errors []error

	// Max errors kept before further ones are dropped
	// 0 => no limit
	MaxErrors int

	dropped int
}

func (c *ErrorCollector) HasErrors() bool {
	return len(c.Errors) > 0
}

// Full reports whether the collector has reached MaxErrors.
func (c *ErrorCollector) Full() bool {
	return c.MaxErrors > 0 && len(c.Errors) >= c.MaxErrors
}

// Dropped is the number of errors discarded after the cap was hit.
func (c *ErrorCollector) Dropped() int {
	return c.dropped
}

// AddErrors records errs and returns false once the cap has been reached.
func (c *ErrorCollector) AddErrors(errs ...error) bool {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if c.Full() {
			c.dropped++
			continue
		}
		c.Errors = append(c.Errors, err)
	}
	return !c.Full()
}

func (c *ErrorCollector) Errorf(path string, pos decl.Location, format string, args ...any) bool {
	return c.AddErrors(&Diagnostic{Path: path, Pos: pos, HasPos: true, Err: fmt.Errorf(format, args...)})
}

// Err folds the collected errors into one, or nil if there are none.
func (c *ErrorCollector) Err() error {
	if !c.HasErrors() {
		return nil
	}
	if c.dropped > 0 {
		return errors.Join(append(c.Errors, fmt.Errorf("%w: %d more not shown", ErrTooManyErrors, c.dropped))...)
	}
	return errors.Join(c.Errors...)
}

func (c *ErrorCollector) PrintErrors(w io.Writer) {
	for _, err := range c.Errors {
		fmt.Fprintln(w, err)
	}
	if c.dropped > 0 {
		fmt.Fprintf(w, "... and %d more errors\n", c.dropped)
	}
}
