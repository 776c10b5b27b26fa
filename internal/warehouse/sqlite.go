package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/query"
	"github.com/lakesift/lakesift/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultSQLiteCatalog names the catalog level of a SQLite store when
// the configuration does not.
const DefaultSQLiteCatalog = "sqlite"

// SQLite serves catalog metadata, sample reads, and generated
// statements from a SQLite database file. The configured catalog name
// is the only catalog; the main database plus any ATTACHed databases
// form the database level.
type SQLite struct {
	db      *sql.DB
	catalog string
}

// NewSQLite opens a SQLite warehouse over the given database file.
func NewSQLite(dbPath, catalogName string) (*SQLite, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("%w: database path", common.ErrMissingConfig)
	}
	if catalogName == "" {
		catalogName = DefaultSQLiteCatalog
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLite{db: db, catalog: catalogName}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Attach mounts another database file under a logical database name.
func (s *SQLite) Attach(ctx context.Context, name, path string) error {
	d := s.Dialect()
	statement := fmt.Sprintf("ATTACH DATABASE %s AS %s", d.QuoteLiteral(path), d.QuoteIdent(name))
	if _, err := s.db.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("failed to attach database %s: %w", name, err)
	}
	return nil
}

// ListCatalogs implements service.Catalog.
func (s *SQLite) ListCatalogs(_ context.Context) ([]string, error) {
	return []string{s.catalog}, nil
}

// ListDatabases implements service.Catalog. The main database and any
// attached databases are reported; temp is not.
func (s *SQLite) ListDatabases(ctx context.Context, catalogName string) ([]string, error) {
	if !strings.EqualFold(catalogName, s.catalog) {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var databases []string
	for rows.Next() {
		var seq int
		var name string
		var file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, fmt.Errorf("failed to scan database entry: %w", err)
		}
		if name == "temp" {
			continue
		}
		databases = append(databases, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate databases: %w", err)
	}

	sort.Strings(databases)
	return databases, nil
}

// ListTables implements service.Catalog.
func (s *SQLite) ListTables(ctx context.Context, catalogName, database string) ([]model.TableInfo, error) {
	if !strings.EqualFold(catalogName, s.catalog) {
		return nil, nil
	}

	d := s.Dialect()
	statement := fmt.Sprintf(
		"SELECT name FROM %s.sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%%' ORDER BY name",
		d.QuoteIdent(database))

	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in %s: %w", database, err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables: %w", err)
	}

	infos := make([]model.TableInfo, 0, len(names))
	for _, name := range names {
		columns, err := s.tableColumns(ctx, database, name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, model.TableInfo{
			TableReference: model.TableReference{Catalog: s.catalog, Database: database, Table: name},
			Columns:        columns,
		})
	}
	return infos, nil
}

// tableColumns reads column metadata via PRAGMA table_info.
func (s *SQLite) tableColumns(ctx context.Context, database, table string) ([]model.ColumnInfo, error) {
	d := s.Dialect()
	statement := fmt.Sprintf("PRAGMA %s.table_info(%s)", d.QuoteIdent(database), d.QuoteIdent(table))

	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []model.ColumnInfo
	for rows.Next() {
		var cid, notNull, pk int
		var name, columnType string
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &name, &columnType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		columns = append(columns, model.ColumnInfo{Name: name, Type: strings.ToLower(columnType)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate columns of %s: %w", table, err)
	}
	return columns, nil
}

// ReadSample implements service.Warehouse.
func (s *SQLite) ReadSample(ctx context.Context, table model.TableInfo, limit int) (model.RowSample, error) {
	columns := table.StringColumns()
	if len(columns) == 0 {
		return model.RowSample{Table: table.TableReference}, nil
	}

	statement := query.BuildSample(s.Dialect(), table, limit)
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return model.RowSample{}, fmt.Errorf("failed to sample table: %w", err)
	}
	defer func() { _ = rows.Close() }()

	data, err := scanStrings(rows, len(columns))
	if err != nil {
		return model.RowSample{}, err
	}

	return model.RowSample{
		Table:     table.TableReference,
		Columns:   columns,
		Rows:      data,
		Truncated: limit > 0 && len(data) == limit,
	}, nil
}

// Query implements service.Warehouse.
func (s *SQLite) Query(ctx context.Context, statement string) (*model.ResultSet, error) {
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectResultSet(rows)
}

// Exec implements service.Warehouse.
func (s *SQLite) Exec(ctx context.Context, statement string) (int64, error) {
	res, err := s.db.ExecContext(ctx, statement)
	if err != nil {
		return 0, fmt.Errorf("failed to execute statement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected, nil
}

// Dialect implements service.Warehouse.
func (s *SQLite) Dialect() service.Dialect {
	return sqliteDialect{}
}

// TableStats implements service.StatsProvider. SQLite exposes no
// per-table size or maintenance metadata, so only counts are filled.
func (s *SQLite) TableStats(ctx context.Context, ref model.TableReference) (model.TableStats, error) {
	d := s.Dialect()

	var rowCount int64
	statement := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.TableName(ref))
	if err := s.db.QueryRowContext(ctx, statement).Scan(&rowCount); err != nil {
		return model.TableStats{}, fmt.Errorf("failed to count rows of %s: %w", ref, err)
	}

	columns, err := s.tableColumns(ctx, ref.Database, ref.Table)
	if err != nil {
		return model.TableStats{}, err
	}

	return model.TableStats{
		Table:       ref,
		RowCount:    rowCount,
		ColumnCount: len(columns),
	}, nil
}
