package rules

import (
	"fmt"
	"sort"

	"github.com/lakesift/lakesift/internal/common"
)

// Set is an immutable collection of compiled rules.
type Set struct {
	byName map[string]*Rule
	names  []string
}

// NewSet compiles the built-in rules merged with custom definitions.
// Every definition is self-checked; a custom rule reusing an existing
// name is a DefinitionError.
func NewSet(custom []Definition) (*Set, error) {
	defs := Builtins()
	defs = append(defs, custom...)

	s := &Set{byName: make(map[string]*Rule, len(defs))}
	for _, def := range defs {
		rule, err := Compile(def)
		if err != nil {
			return nil, err
		}
		if _, exists := s.byName[rule.Name]; exists {
			return nil, &DefinitionError{Rule: rule.Name, Reason: "duplicate rule name"}
		}
		s.byName[rule.Name] = rule
		s.names = append(s.names, rule.Name)
	}
	sort.Strings(s.names)

	return s, nil
}

// Get returns the rule with the given name.
func (s *Set) Get(name string) (*Rule, error) {
	rule, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: rule %q", common.ErrNotFound, name)
	}
	return rule, nil
}

// All returns every rule sorted by name.
func (s *Set) All() []*Rule {
	all := make([]*Rule, 0, len(s.names))
	for _, name := range s.names {
		all = append(all, s.byName[name])
	}
	return all
}

// Len returns the number of rules in the set.
func (s *Set) Len() int {
	return len(s.names)
}
