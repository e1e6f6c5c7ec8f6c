package decl

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	ErrUnboundName      = errors.New("unbound name")
	ErrDuplicateBinding = errors.New("duplicate binding")
	ErrConstViolation   = errors.New("cannot reassign const binding")
	ErrAliasCycle       = errors.New("alias cycle")
)

// DefaultMaxAliasDepth bounds how many alias hops a resolution may take.
const DefaultMaxAliasDepth = 64

// VariableEntry is a single binding owned by exactly one Scope.
type VariableEntry struct {
	Value EvalResult
	Type  TypeAttr
	Const bool

	// busy brackets a value replacement. Evaluation is single threaded so the
	// flag never observes contention; it is not a lock.
	busy bool
}

// Scope holds named bindings and links to its enclosing scope.
// A scope owns its bindings map; the parent link is non-owning.
type Scope struct {
	bindings      map[string]*VariableEntry
	parent        *Scope
	maxAliasDepth int
}

// NewScope creates a new scope nested within parent.
// If parent is nil then returns a fresh root scope.
func NewScope(parent *Scope) *Scope {
	depth := DefaultMaxAliasDepth
	if parent != nil {
		depth = parent.maxAliasDepth
	}
	return &Scope{bindings: map[string]*VariableEntry{}, parent: parent, maxAliasDepth: depth}
}

// Push creates a child scope.
func (s *Scope) Push() *Scope {
	return NewScope(s)
}

func (s *Scope) Parent() *Scope { return s.parent }

// SetMaxAliasDepth changes the alias resolution bound for this scope and
// scopes pushed from it afterwards.
func (s *Scope) SetMaxAliasDepth(n int) {
	if n <= 0 {
		n = DefaultMaxAliasDepth
	}
	s.maxAliasDepth = n
}

func (s *Scope) MaxAliasDepth() int { return s.maxAliasDepth }

// Declare creates a binding in this scope. Shadowing an ancestor's binding
// is allowed, redeclaring in the same scope is not.
// The value is stored as given: an Alias stays an Alias.
func (s *Scope) Declare(name string, value EvalResult, declared TypeAttr, isConst bool) error {
	if _, exists := s.bindings[name]; exists {
		return fmt.Errorf("%w: '%s' is already declared in this scope", ErrDuplicateBinding, name)
	}
	if value == nil {
		value = Own(Nil{})
	}
	s.bindings[name] = &VariableEntry{Value: value, Type: declared, Const: isConst}
	return nil
}

// owner returns the nearest scope declaring name, or nil.
func (s *Scope) owner(name string) *Scope {
	for curr := s; curr != nil; curr = curr.parent {
		if _, ok := curr.bindings[name]; ok {
			return curr
		}
	}
	return nil
}

// Resolve returns the scope that declares name. If the binding holds an
// Alias the chain is followed to make sure it ends in a live binding.
func (s *Scope) Resolve(name string) (*Scope, error) {
	owner := s.owner(name)
	if owner == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrUnboundName, name)
	}
	if alias, ok := owner.bindings[name].Value.(Alias); ok {
		if _, err := s.follow(alias.Name, name); err != nil {
			return nil, err
		}
	}
	return owner, nil
}

// Entry returns the binding for name without following aliases.
func (s *Scope) Entry(name string) (*VariableEntry, error) {
	owner := s.owner(name)
	if owner == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrUnboundName, name)
	}
	return owner.bindings[name], nil
}

// Lookup returns the stored result, which may itself be an Alias.
func (s *Scope) Lookup(name string) (EvalResult, error) {
	entry, err := s.Entry(name)
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// LookupType returns the declared type attribute of name.
func (s *Scope) LookupType(name string) (TypeAttr, error) {
	entry, err := s.Entry(name)
	if err != nil {
		return AnyAttr, err
	}
	return entry.Type, nil
}

// Assign replaces the value of an existing binding wholesale.
func (s *Scope) Assign(name string, value EvalResult) error {
	entry, err := s.Entry(name)
	if err != nil {
		return err
	}
	if entry.Const {
		return fmt.Errorf("%w: '%s'", ErrConstViolation, name)
	}
	if alias, ok := value.(Alias); ok {
		if err := s.checkAliasTarget(name, alias.Name); err != nil {
			return err
		}
	}
	entry.busy = true
	entry.Value = value
	entry.busy = false
	return nil
}

// checkAliasTarget rejects storing Alias(target) into name when target's
// chain already leads back to name.
func (s *Scope) checkAliasTarget(name, target string) error {
	next := target
	for hops := 0; hops <= s.maxAliasDepth; hops++ {
		if next == name {
			return fmt.Errorf("%w: assigning '%s' to '%s' would make '%s' refer to itself", ErrAliasCycle, target, name, name)
		}
		entry, err := s.Entry(next)
		if err != nil {
			return err
		}
		alias, ok := entry.Value.(Alias)
		if !ok {
			return nil
		}
		next = alias.Name
	}
	return fmt.Errorf("%w: alias chain from '%s' exceeds %d hops", ErrAliasCycle, target, s.maxAliasDepth)
}

// Deref resolves an evaluation result to a value, following aliases
// transitively through this scope chain.
func (s *Scope) Deref(r EvalResult) (Value, error) {
	switch r := r.(type) {
	case Owned:
		if r.Value == nil {
			return Nil{}, nil
		}
		return r.Value, nil
	case Alias:
		return s.follow(r.Name, "")
	case nil:
		return Nil{}, nil
	default:
		return nil, fmt.Errorf("unknown evaluation result %T", r)
	}
}

// ResolveValue resolves the value bound to name.
func (s *Scope) ResolveValue(name string) (Value, error) {
	return s.follow(name, "")
}

// follow walks Alias links starting at name until an Owned value is found.
// from is the binding that referred to name, used only in messages.
func (s *Scope) follow(name, from string) (Value, error) {
	_, entry, err := s.terminal(name, from)
	if err != nil {
		return nil, err
	}
	if v, ok := entry.Value.(Owned); ok && v.Value != nil {
		return v.Value, nil
	}
	return Nil{}, nil
}

// Target returns the name of the binding at the end of name's alias chain,
// the one actually holding a value. A name that holds a value is its own target.
func (s *Scope) Target(name string) (string, error) {
	target, _, err := s.terminal(name, "")
	return target, err
}

func (s *Scope) terminal(name, from string) (string, *VariableEntry, error) {
	visited := map[string]bool{}
	chain := []string{}
	if from != "" {
		visited[from] = true
		chain = append(chain, from)
	}
	next := name
	for hops := 0; ; hops++ {
		if visited[next] {
			return "", nil, fmt.Errorf("%w: %v -> %s", ErrAliasCycle, chain, next)
		}
		if hops > s.maxAliasDepth {
			return "", nil, fmt.Errorf("%w: chain %v exceeds %d hops", ErrAliasCycle, chain, s.maxAliasDepth)
		}
		visited[next] = true
		chain = append(chain, next)
		entry, err := s.Entry(next)
		if err != nil {
			if from != "" || len(chain) > 1 {
				return "", nil, fmt.Errorf("%w: '%s' (dangling alias via %v)", ErrUnboundName, next, chain[:len(chain)-1])
			}
			return "", nil, err
		}
		alias, ok := entry.Value.(Alias)
		if !ok {
			return next, entry, nil
		}
		next = alias.Name
	}
}

// Has reports whether name is visible from this scope.
func (s *Scope) Has(name string) bool {
	return s.owner(name) != nil
}

// Keys returns all names declared in this scope (not including outer scopes).
func (s *Scope) Keys() []string {
	keys := make([]string, 0, len(s.bindings))
	for k := range s.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// VisibleKeys returns every name visible from this scope, sorted.
func (s *Scope) VisibleKeys() []string {
	seen := map[string]bool{}
	var out []string
	for curr := s; curr != nil; curr = curr.parent {
		for k := range curr.bindings {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	slices.Sort(out)
	return out
}

// String representation for debugging
func (s *Scope) String() string {
	return fmt.Sprintf("Scope{bindings: %v, parent: %v}", s.Keys(), s.parent != nil)
}
