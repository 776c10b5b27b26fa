// Package rules defines the classification rules applied to sampled
// column values and the registry that holds them.
package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind selects the matching strategy of a rule. Exactly one strategy
// applies per rule.
type Kind string

// Rule kinds.
const (
	// KindRegex matches values against a regular expression.
	KindRegex Kind = "regex"
	// KindTyped matches values by parsing them as a well-known type.
	KindTyped Kind = "typed"
	// KindPredicate matches values with a caller-supplied function.
	KindPredicate Kind = "predicate"
)

// Rule names and tag overrides share one alphabet: tags derive from
// rule names.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// IsValidName reports whether s is usable as a rule name or tag.
func IsValidName(s string) bool {
	return namePattern.MatchString(s)
}

// DefinitionError reports a rule definition that failed compilation or
// whose examples contradict its pattern.
type DefinitionError struct {
	Rule   string
	Reason string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("rule %q: %s", e.Rule, e.Reason)
}

// Definition declares a classification rule before compilation.
type Definition struct {
	Name        string `yaml:"name"`
	Kind        Kind   `yaml:"kind"`
	Description string `yaml:"description"`
	// Pattern is the regular expression for regex rules, or the typed
	// matcher name for typed rules. Unused by predicate rules.
	Pattern string `yaml:"pattern"`
	// Tag overrides the derived tag. When empty the effective tag is
	// <prefix>_<name>.
	Tag string `yaml:"tag,omitempty"`
	// MatchExamples must all match the rule; NoMatchExamples must all
	// fail to match. Both are verified at compilation.
	MatchExamples   []string `yaml:"match_examples,omitempty"`
	NoMatchExamples []string `yaml:"nomatch_examples,omitempty"`

	predicate func(string) bool
}

// NewPredicate declares a rule backed by a Go function. Predicate rules
// can only be registered programmatically, never from YAML. The
// function must be total: it is applied to arbitrary sampled values.
func NewPredicate(name, description string, fn func(string) bool) Definition {
	return Definition{
		Name:        name,
		Kind:        KindPredicate,
		Description: description,
		predicate:   fn,
	}
}

// Rule is a compiled classification rule.
type Rule struct {
	Name            string
	Kind            Kind
	Description     string
	Pattern         string
	Tag             string
	MatchExamples   []string
	NoMatchExamples []string

	match func(string) bool
}

// Match reports whether the value matches the rule. It never errors:
// values that fail to parse or match simply report false.
func (r *Rule) Match(value string) bool {
	return r.match(value)
}

// EffectiveTag returns the tag this rule emits: the explicit override
// when set, otherwise the prefixed rule name.
func (r *Rule) EffectiveTag(prefix string) string {
	if r.Tag != "" {
		return r.Tag
	}
	if prefix == "" {
		return r.Name
	}
	return prefix + "_" + r.Name
}

// Compile validates a definition and resolves its matcher. An empty
// kind compiles as a regex rule. Every example is checked against the
// resolved matcher; a contradiction is a DefinitionError.
func Compile(def Definition) (*Rule, error) {
	name := strings.TrimSpace(def.Name)
	if !namePattern.MatchString(name) {
		return nil, &DefinitionError{Rule: def.Name, Reason: "name must match [a-z][a-z0-9_]*"}
	}
	if def.Tag != "" && !namePattern.MatchString(def.Tag) {
		return nil, &DefinitionError{Rule: name, Reason: fmt.Sprintf("tag %q must match [a-z][a-z0-9_]*", def.Tag)}
	}

	kind := def.Kind
	if kind == "" {
		kind = KindRegex
	}

	var match func(string) bool
	switch kind {
	case KindRegex:
		if def.Pattern == "" {
			return nil, &DefinitionError{Rule: name, Reason: "regex rule requires a pattern"}
		}
		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			return nil, &DefinitionError{Rule: name, Reason: fmt.Sprintf("invalid pattern: %v", err)}
		}
		match = re.MatchString
	case KindTyped:
		fn, ok := typedMatchers[def.Pattern]
		if !ok {
			return nil, &DefinitionError{Rule: name, Reason: fmt.Sprintf("unknown typed pattern %q", def.Pattern)}
		}
		match = fn
	case KindPredicate:
		if def.predicate == nil {
			return nil, &DefinitionError{Rule: name, Reason: "predicate rule requires a function"}
		}
		match = def.predicate
	default:
		return nil, &DefinitionError{Rule: name, Reason: fmt.Sprintf("unknown kind %q", def.Kind)}
	}

	for _, example := range def.MatchExamples {
		if !match(example) {
			return nil, &DefinitionError{Rule: name, Reason: fmt.Sprintf("match example %q does not match", example)}
		}
	}
	for _, example := range def.NoMatchExamples {
		if match(example) {
			return nil, &DefinitionError{Rule: name, Reason: fmt.Sprintf("no-match example %q matches", example)}
		}
	}

	return &Rule{
		Name:            name,
		Kind:            kind,
		Description:     def.Description,
		Pattern:         def.Pattern,
		Tag:             def.Tag,
		MatchExamples:   def.MatchExamples,
		NoMatchExamples: def.NoMatchExamples,
		match:           match,
	}, nil
}
