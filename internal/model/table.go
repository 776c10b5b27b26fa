// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// TableReference identifies a table by its three-level address.
type TableReference struct {
	Catalog  string
	Database string
	Table    string
}

// String renders the fully qualified table name.
func (t TableReference) String() string {
	return fmt.Sprintf("%s.%s.%s", t.Catalog, t.Database, t.Table)
}

// Less orders references lexicographically by catalog, database, table.
func (t TableReference) Less(other TableReference) bool {
	if t.Catalog != other.Catalog {
		return t.Catalog < other.Catalog
	}
	if t.Database != other.Database {
		return t.Database < other.Database
	}
	return t.Table < other.Table
}

// ColumnInfo describes a single column of a table.
type ColumnInfo struct {
	Name string
	Type string // storage type as reported by the catalog
}

// IsStringLike reports whether the column holds text values that rules
// can be applied to. Numeric, binary and temporal columns are excluded
// from sampling.
func (c ColumnInfo) IsStringLike() bool {
	t := strings.ToLower(c.Type)
	if t == "uuid" {
		return true
	}
	for _, kind := range []string{"char", "text", "string", "clob"} {
		if strings.Contains(t, kind) {
			return true
		}
	}
	return false
}

// TableInfo is a table reference together with its column metadata.
type TableInfo struct {
	TableReference
	Columns []ColumnInfo
}

// StringColumns returns the columns eligible for sampling.
func (t TableInfo) StringColumns() []ColumnInfo {
	cols := make([]ColumnInfo, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.IsStringLike() {
			cols = append(cols, c)
		}
	}
	return cols
}
