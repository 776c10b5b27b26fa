// Package catalog resolves wildcard table patterns against the
// attached data sources.
package catalog

import (
	"fmt"
	"strings"

	"github.com/lakesift/lakesift/internal/common"
)

// Filter matches names at a single catalog level. A filter is compiled
// once from a pattern string: "*" matches everything, a literal name
// matches itself, and a comma-separated list matches any member.
// Matching is case-insensitive.
type Filter struct {
	names    map[string]struct{}
	raw      string
	matchAll bool
}

// CompileFilter validates and compiles a level pattern. The wildcard
// only stands alone: a "*" embedded in a name is not supported.
func CompileFilter(pattern string) (Filter, error) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return Filter{}, fmt.Errorf("%w: empty filter pattern", common.ErrInvalidConfig)
	}
	if trimmed == "*" {
		return Filter{matchAll: true, raw: trimmed}, nil
	}

	names := make(map[string]struct{})
	for _, part := range strings.Split(trimmed, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			return Filter{}, fmt.Errorf("%w: empty name in filter %q", common.ErrInvalidConfig, pattern)
		}
		if strings.Contains(name, "*") {
			return Filter{}, fmt.Errorf("%w: wildcard must stand alone, got %q", common.ErrInvalidConfig, pattern)
		}
		names[strings.ToLower(name)] = struct{}{}
	}

	return Filter{names: names, raw: trimmed}, nil
}

// Match reports whether the filter accepts the name.
func (f Filter) Match(name string) bool {
	if f.matchAll {
		return true
	}
	_, ok := f.names[strings.ToLower(name)]
	return ok
}

// String returns the pattern the filter was compiled from.
func (f Filter) String() string {
	return f.raw
}

// Pattern addresses tables across the three catalog levels.
type Pattern struct {
	Catalogs  string
	Databases string
	Tables    string
}

// All returns the pattern matching every table in every catalog.
func All() Pattern {
	return Pattern{Catalogs: "*", Databases: "*", Tables: "*"}
}

func (p Pattern) String() string {
	return fmt.Sprintf("%s.%s.%s", p.Catalogs, p.Databases, p.Tables)
}

// compiledPattern holds the per-level filters of a Pattern.
type compiledPattern struct {
	catalogs  Filter
	databases Filter
	tables    Filter
}

func compilePattern(p Pattern) (compiledPattern, error) {
	catalogs, err := CompileFilter(p.Catalogs)
	if err != nil {
		return compiledPattern{}, fmt.Errorf("catalogs: %w", err)
	}
	databases, err := CompileFilter(p.Databases)
	if err != nil {
		return compiledPattern{}, fmt.Errorf("databases: %w", err)
	}
	tables, err := CompileFilter(p.Tables)
	if err != nil {
		return compiledPattern{}, fmt.Errorf("tables: %w", err)
	}
	return compiledPattern{catalogs: catalogs, databases: databases, tables: tables}, nil
}
