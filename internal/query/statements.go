// Package query builds tag-driven SQL statements and executes them
// against warehouses.
package query

import (
	"fmt"
	"strings"

	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/service"
)

// BuildSample renders the read used to sample a table's string-like
// columns. A limit <= 0 reads every row. The same statement text is
// returned by dry runs and executed by scans.
func BuildSample(d service.Dialect, table model.TableInfo, limit int) string {
	cols := table.StringColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = d.QuoteIdent(c.Name)
	}
	return fmt.Sprintf("SELECT %s FROM %s%s",
		strings.Join(names, ", "), d.TableName(table.TableReference), d.LimitClause(limit))
}

// BuildSearch renders the full-row search for a value across the
// tagged columns of one table. Columns are combined with OR: a row
// qualifies when any tagged column holds the value.
func BuildSearch(d service.Dialect, table model.TableReference, columns []string, value string) string {
	conds := make([]string, len(columns))
	for i, c := range columns {
		conds[i] = fmt.Sprintf("%s = %s", d.QuoteIdent(c), d.QuoteLiteral(value))
	}
	return fmt.Sprintf("SELECT * FROM %s WHERE %s",
		d.TableName(table), strings.Join(conds, " OR "))
}

// BuildSelect renders the projection of tagged columns from one table.
func BuildSelect(d service.Dialect, table model.TableReference, columns []string) string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = d.QuoteIdent(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(names, ", "), d.TableName(table))
}

// BuildDelete renders the delete of rows whose tagged columns hold any
// of the given values.
func BuildDelete(d service.Dialect, table model.TableReference, columns []string, values []string) string {
	lits := make([]string, len(values))
	for i, v := range values {
		lits[i] = d.QuoteLiteral(v)
	}
	in := strings.Join(lits, ", ")

	conds := make([]string, len(columns))
	for i, c := range columns {
		conds[i] = fmt.Sprintf("%s IN (%s)", d.QuoteIdent(c), in)
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s",
		d.TableName(table), strings.Join(conds, " OR "))
}
