package runtime

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/panyam/ion/decl"
)

// Host is the outside world native functions talk to.
type Host struct {
	Stdout io.Writer
	Stdin  *bufio.Reader
}

// DefaultHost uses the process's standard streams.
func DefaultHost() *Host {
	return &Host{Stdout: os.Stdout, Stdin: bufio.NewReader(os.Stdin)}
}

// NewRootScope returns a global scope seeded with the native bindings.
// Every native binding is const.
func NewRootScope(host *Host) *decl.Scope {
	if host == nil {
		host = DefaultHost()
	}
	scope := decl.NewScope(nil)
	natives := []*decl.NativeFunction{
		{Name: "log", Fn: host.log},
		{Name: "input", Fn: host.input},
		{Name: "typeof", Fn: nativeTypeof},
		{Name: "len", Fn: nativeLen},
	}
	for _, fn := range natives {
		// the scope is fresh so Declare cannot fail
		_ = scope.Declare(fn.Name, decl.Own(fn), decl.FunctionAttr, true)
	}
	return scope
}

// log writes its resolved arguments separated by spaces.
func (h *Host) log(args []decl.EvalResult, scope *decl.Scope) (decl.EvalResult, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		s, err := Display(a, scope)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	if _, err := fmt.Fprintln(h.Stdout, strings.Join(parts, " ")); err != nil {
		return nil, err
	}
	return decl.Own(decl.Nil{}), nil
}

// input reads one line. At end of input it returns Nil.
func (h *Host) input(args []decl.EvalResult, scope *decl.Scope) (decl.EvalResult, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("%w: input takes at most one argument, got %d", ErrInvalidOperands, len(args))
	}
	if len(args) == 1 {
		prompt, err := Display(args[0], scope)
		if err != nil {
			return nil, err
		}
		fmt.Fprint(h.Stdout, prompt)
	}
	line, err := h.Stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if errors.Is(err, io.EOF) && line == "" {
		return decl.Own(decl.Nil{}), nil
	}
	return decl.Own(decl.String(strings.TrimRight(line, "\r\n"))), nil
}

func nativeTypeof(args []decl.EvalResult, scope *decl.Scope) (decl.EvalResult, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: typeof takes one argument, got %d", ErrInvalidOperands, len(args))
	}
	value, err := scope.Deref(args[0])
	if err != nil {
		return nil, err
	}
	return decl.Own(decl.String(value.Kind().String())), nil
}

func nativeLen(args []decl.EvalResult, scope *decl.Scope) (decl.EvalResult, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: len takes one argument, got %d", ErrInvalidOperands, len(args))
	}
	value, err := scope.Deref(args[0])
	if err != nil {
		return nil, err
	}
	var n int
	switch v := value.(type) {
	case decl.String:
		n = utf8.RuneCountInString(string(v))
	case *decl.ArrayLiteral:
		n = len(v.Entries)
	case *decl.ObjectLiteral:
		n = len(v.Order)
	default:
		return nil, fmt.Errorf("%w: len of %s", ErrInvalidOperands, value.Kind())
	}
	return decl.Own(Minimize(float64(n))), nil
}
