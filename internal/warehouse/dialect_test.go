package warehouse

import (
	"testing"

	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/service"
)

func TestDialect_TableName(t *testing.T) {
	ref := model.TableReference{Catalog: "prod", Database: "crm", Table: "contacts"}

	tests := []struct {
		dialect service.Dialect
		name    string
		want    string
	}{
		{name: "sqlite", dialect: sqliteDialect{}, want: `"crm"."contacts"`},
		{name: "postgres", dialect: postgresDialect{}, want: `"crm"."contacts"`},
		{name: "mysql", dialect: mysqlDialect{}, want: "`crm`.`contacts`"},
		{name: "memory", dialect: memoryDialect{}, want: `"prod"."crm"."contacts"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.TableName(ref); got != tt.want {
				t.Errorf("TableName() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDialect_QuoteIdent(t *testing.T) {
	tests := []struct {
		dialect service.Dialect
		name    string
		ident   string
		want    string
	}{
		{name: "sqlite plain", dialect: sqliteDialect{}, ident: "email", want: `"email"`},
		{name: "sqlite embedded quote", dialect: sqliteDialect{}, ident: `we"ird`, want: `"we""ird"`},
		{name: "mysql plain", dialect: mysqlDialect{}, ident: "email", want: "`email`"},
		{name: "mysql embedded backtick", dialect: mysqlDialect{}, ident: "we`ird", want: "`we``ird`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.QuoteIdent(tt.ident); got != tt.want {
				t.Errorf("QuoteIdent(%q) = %s, want %s", tt.ident, got, tt.want)
			}
		})
	}
}

func TestDialect_QuoteLiteral(t *testing.T) {
	tests := []struct {
		dialect service.Dialect
		name    string
		value   string
		want    string
	}{
		{name: "ansi plain", dialect: sqliteDialect{}, value: "alice@example.com", want: "'alice@example.com'"},
		{name: "ansi embedded quote", dialect: sqliteDialect{}, value: "o'brien", want: "'o''brien'"},
		{name: "mysql embedded quote", dialect: mysqlDialect{}, value: "o'brien", want: "'o''brien'"},
		{name: "mysql backslash", dialect: mysqlDialect{}, value: `c:\temp`, want: `'c:\\temp'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.QuoteLiteral(tt.value); got != tt.want {
				t.Errorf("QuoteLiteral(%q) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestDialect_LimitClause(t *testing.T) {
	tests := []struct {
		dialect service.Dialect
		name    string
		n       int
		want    string
	}{
		{name: "positive", dialect: sqliteDialect{}, n: 100, want: " LIMIT 100"},
		{name: "zero means unbounded", dialect: sqliteDialect{}, n: 0, want: ""},
		{name: "negative means unbounded", dialect: mysqlDialect{}, n: -1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.LimitClause(tt.n); got != tt.want {
				t.Errorf("LimitClause(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}
