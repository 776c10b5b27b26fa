// Package service defines the interfaces for all external collaborators.
package service

import (
	"context"
	"time"

	"github.com/lakesift/lakesift/internal/model"
)

// Catalog enumerates the structure of the attached data sources.
type Catalog interface {
	ListCatalogs(ctx context.Context) ([]string, error)
	ListDatabases(ctx context.Context, catalog string) ([]string, error)
	ListTables(ctx context.Context, catalog, database string) ([]model.TableInfo, error)
}

// Dialect renders identifiers and literals for a specific SQL engine.
// Statements built through a dialect are executable on the warehouse
// that provided it.
type Dialect interface {
	// QuoteIdent quotes a column or table identifier.
	QuoteIdent(name string) string
	// QuoteLiteral renders a string value as a SQL literal.
	QuoteLiteral(value string) string
	// TableName renders a fully qualified table name.
	TableName(table model.TableReference) string
	// LimitClause renders the row cap suffix for sampling reads.
	LimitClause(n int) string
}

// Warehouse reads rows from tables and executes generated statements.
type Warehouse interface {
	// ReadSample returns up to limit rows of the table's string-like
	// columns. A limit <= 0 reads the whole table.
	ReadSample(ctx context.Context, table model.TableInfo, limit int) (model.RowSample, error)
	// Query executes a SELECT statement and returns its rows.
	Query(ctx context.Context, statement string) (*model.ResultSet, error)
	// Exec executes a mutating statement and returns affected rows.
	Exec(ctx context.Context, statement string) (int64, error)
	// Dialect reports how statements for this warehouse are rendered.
	Dialect() Dialect
}

// StatsProvider reports maintenance statistics for tables. Warehouses
// implement it when their engine exposes such metadata.
type StatsProvider interface {
	TableStats(ctx context.Context, table model.TableReference) (model.TableStats, error)
}

// TagStore persists published column tags.
type TagStore interface {
	// Put inserts a tag entry. Re-publishing an existing entry is not an
	// error; inserted reports whether the row was actually created.
	Put(ctx context.Context, entry model.TagEntry) (inserted bool, err error)
	// GetTags returns all tags published for a column.
	GetTags(ctx context.Context, table model.TableReference, column string) ([]string, error)
	// ListByTag returns all entries carrying the given tag.
	ListByTag(ctx context.Context, tag string) ([]model.TagEntry, error)
	// ListAll returns every published entry.
	ListAll(ctx context.Context) ([]model.TagEntry, error)
	// Migrate brings the store schema up to date.
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
