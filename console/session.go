package console

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/panyam/ion/config"
	"github.com/panyam/ion/decl"
	"github.com/panyam/ion/loader"
	"github.com/panyam/ion/parser"
	"github.com/panyam/ion/runtime"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrExit           = errors.New("exit requested")
)

// Session is one interactive run: a root scope that lives across lines,
// plus any partially typed statement waiting for more input.
type Session struct {
	cfg    *config.Config
	host   *runtime.Host
	loader *loader.Loader
	eval   *runtime.SimpleEval

	Scope *decl.Scope
	Out   io.Writer

	pending []string
	lineNo  int
}

// Result is what one line of input produced.
type Result struct {
	// Output is the rendered value of the last expression statement, if any.
	Output string

	// Tree is the parsed program when ShowTree is on.
	Tree string

	// More means the input so far is an incomplete statement.
	More bool
}

type commandInfo struct {
	Name        string
	Usage       string
	Description string
}

var commands = []commandInfo{
	{Name: ".help", Usage: ".help", Description: "Show this help message"},
	{Name: ".vars", Usage: ".vars", Description: "List bindings with their current values"},
	{Name: ".type", Usage: ".type <name>", Description: "Show the declared type and value kind of a binding"},
	{Name: ".load", Usage: ".load <file.io>", Description: "Evaluate a source file into the session"},
	{Name: ".tree", Usage: ".tree on|off", Description: "Print the parsed tree of every input"},
	{Name: ".reset", Usage: ".reset", Description: "Discard all bindings and start over"},
	{Name: ".cancel", Usage: ".cancel", Description: "Drop a partially typed statement"},
	{Name: ".exit", Usage: ".exit", Description: "Leave the console"},
}

func NewSession(cfg *config.Config, host *runtime.Host, fs loader.FileSystem) *Session {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if host == nil {
		host = runtime.DefaultHost()
	}
	s := &Session{
		cfg:    cfg,
		host:   host,
		loader: loader.NewLoader(fs),
		eval:   cfg.NewEvaluator(),
		Out:    host.Stdout,
	}
	s.Reset()
	return s
}

// Reset drops every user binding.
func (s *Session) Reset() {
	s.Scope = s.cfg.NewRootScope(s.host)
	s.pending = nil
	s.lineNo = 0
}

// Pending reports whether a statement is waiting for more lines.
func (s *Session) Pending() bool { return len(s.pending) > 0 }

// Prompt is the prefix to show for the next line.
func (s *Session) Prompt() string {
	if s.Pending() {
		return strings.Repeat(".", max(len(s.cfg.Prompt)-2, 3)) + "> "
	}
	return s.cfg.Prompt
}

// Exec handles one line: either a dot-command or source text.
// Source that ends mid-statement is buffered until a later line completes it.
func (s *Session) Exec(line string) (Result, error) {
	s.lineNo++
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ".") && (!s.Pending() || trimmed == ".cancel") {
		return s.command(trimmed)
	}
	if trimmed == "" && !s.Pending() {
		return Result{}, nil
	}

	s.pending = append(s.pending, line)
	text := strings.Join(s.pending, "\n")
	src, err := loader.ParseSource(fmt.Sprintf("<repl:%d>", s.lineNo), text)
	if err != nil {
		if incomplete(err) {
			// a trailing ';' is optional for a single expression
			if src2, err2 := loader.ParseSource(fmt.Sprintf("<repl:%d>", s.lineNo), text+";"); err2 == nil {
				src, err = src2, nil
			} else {
				return Result{More: true}, nil
			}
		} else {
			s.pending = nil
			return Result{}, err
		}
	}
	s.pending = nil
	return s.run(src)
}

func (s *Session) run(src *loader.Source) (Result, error) {
	var res Result
	if s.cfg.ShowTree {
		res.Tree = strings.TrimRight(decl.Sprint(src.Program), "\n")
	}
	result, err := loader.Exec(src, s.Scope, s.eval)
	if err != nil {
		return res, err
	}
	if decl.IsStatement(result) {
		return res, nil
	}
	out, err := runtime.Display(result, s.Scope)
	if err != nil {
		return res, err
	}
	res.Output = out
	return res, nil
}

// incomplete reports whether a parse failed only because input ran out.
func incomplete(err error) bool {
	var pe *parser.ParseError
	return errors.As(err, &pe) && pe.Found.Type == parser.EOF
}

func (s *Session) command(line string) (Result, error) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	switch name {
	case ".help":
		return Result{Output: Help()}, nil
	case ".exit", ".quit":
		return Result{}, ErrExit
	case ".reset":
		s.Reset()
		return Result{Output: "scope reset"}, nil
	case ".cancel":
		s.pending = nil
		return Result{}, nil
	case ".vars":
		return s.vars()
	case ".type":
		if len(args) != 1 {
			return Result{}, fmt.Errorf("usage: .type <name>")
		}
		return s.describe(args[0])
	case ".load":
		if len(args) != 1 {
			return Result{}, fmt.Errorf("usage: .load <file.io>")
		}
		if _, err := s.loader.Run(args[0], s.Scope, s.eval); err != nil {
			return Result{}, err
		}
		return Result{Output: "loaded " + args[0]}, nil
	case ".tree":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return Result{}, fmt.Errorf("usage: .tree on|off")
		}
		s.cfg.ShowTree = args[0] == "on"
		return Result{}, nil
	}
	return Result{}, fmt.Errorf("%w: %s (type .help for available commands)", ErrUnknownCommand, name)
}

// vars lists the user's bindings, natives excluded.
func (s *Session) vars() (Result, error) {
	var lines []string
	for _, name := range s.Scope.Keys() {
		entry, err := s.Scope.Entry(name)
		if err != nil {
			return Result{}, err
		}
		if owned, ok := entry.Value.(decl.Owned); ok {
			if _, native := owned.Value.(*decl.NativeFunction); native {
				continue
			}
		}
		shown, err := runtime.Display(entry.Value, s.Scope)
		if err != nil {
			shown = "<" + err.Error() + ">"
		}
		lines = append(lines, fmt.Sprintf("%s %s = %s", name, entry.Type.Syntax(), shown))
	}
	return Result{Output: strings.Join(lines, "\n")}, nil
}

func (s *Session) describe(name string) (Result, error) {
	entry, err := s.Scope.Entry(name)
	if err != nil {
		return Result{}, err
	}
	value, err := s.Scope.Deref(entry.Value)
	if err != nil {
		return Result{}, err
	}
	out := fmt.Sprintf("%s: declared %s, holds %s", name, entry.Type.Syntax(), value.Kind())
	if alias, ok := entry.Value.(decl.Alias); ok {
		out += fmt.Sprintf(" (alias of %s)", alias.Name)
	}
	if entry.Const {
		out += ", const"
	}
	return Result{Output: out}, nil
}

// Completion is one completion candidate.
type Completion struct {
	Text        string
	Description string
}

// Completions returns candidates for the word being typed: dot-commands when
// it starts with '.', otherwise visible bindings.
func (s *Session) Completions(word string) []Completion {
	var out []Completion
	if strings.HasPrefix(word, ".") {
		for _, c := range commands {
			if strings.HasPrefix(c.Name, word) {
				out = append(out, Completion{Text: c.Name, Description: c.Description})
			}
		}
		return out
	}
	word = strings.TrimPrefix(word, "$")
	for _, name := range s.Scope.VisibleKeys() {
		if !strings.HasPrefix(name, word) {
			continue
		}
		desc := ""
		if v, err := s.Scope.ResolveValue(name); err == nil {
			desc = v.Kind().String()
		}
		out = append(out, Completion{Text: name, Description: desc})
	}
	return out
}

func Help() string {
	var sb strings.Builder
	sb.WriteString("Enter statements such as `$x <numeric> <asg> 1 + 2;` or expressions such as `x * 2`.\n")
	sb.WriteString("A statement may span several lines; it runs once it is complete.\n\nCommands:\n")
	width := slices.MaxFunc(commands, func(a, b commandInfo) int { return len(a.Usage) - len(b.Usage) })
	for _, c := range commands {
		fmt.Fprintf(&sb, "  %-*s  %s\n", len(width.Usage), c.Usage, c.Description)
	}
	return sb.String()
}
