// Package warehouse provides reference warehouse adapters over
// database/sql drivers, plus an in-memory fixture for tests and demos.
package warehouse

import (
	"fmt"
	"strings"

	"github.com/lakesift/lakesift/internal/model"
)

// ansiQuoter supplies double-quoted identifiers and single-quoted
// literals shared by the sqlite and postgres dialects.
type ansiQuoter struct{}

func (ansiQuoter) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (ansiQuoter) QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func (ansiQuoter) LimitClause(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", n)
}

// sqliteDialect qualifies tables by schema name only: the catalog
// level names the store, not a part of the statement.
type sqliteDialect struct{ ansiQuoter }

func (d sqliteDialect) TableName(t model.TableReference) string {
	return d.QuoteIdent(t.Database) + "." + d.QuoteIdent(t.Table)
}

// postgresDialect qualifies tables by schema: the catalog level is the
// connected database.
type postgresDialect struct{ ansiQuoter }

func (d postgresDialect) TableName(t model.TableReference) string {
	return d.QuoteIdent(t.Database) + "." + d.QuoteIdent(t.Table)
}

// mysqlDialect uses backtick quoting. Backslashes are escape
// characters in MySQL string literals, so they are doubled too.
type mysqlDialect struct{}

func (mysqlDialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (mysqlDialect) QuoteLiteral(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", "''")
	return "'" + escaped + "'"
}

func (mysqlDialect) LimitClause(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", n)
}

func (d mysqlDialect) TableName(t model.TableReference) string {
	return d.QuoteIdent(t.Database) + "." + d.QuoteIdent(t.Table)
}

// memoryDialect renders fully qualified three-part names. Statements
// built with it are inspected by tests, never parsed.
type memoryDialect struct{ ansiQuoter }

func (d memoryDialect) TableName(t model.TableReference) string {
	return d.QuoteIdent(t.Catalog) + "." + d.QuoteIdent(t.Database) + "." + d.QuoteIdent(t.Table)
}
