package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/query"
	"github.com/lakesift/lakesift/internal/service"
)

// DefaultMySQLCatalog is the catalog name MySQL itself reports in
// information_schema.
const DefaultMySQLCatalog = "def"

// MySQL serves catalog metadata and reads from a MySQL connection.
// MySQL has no catalog level of its own, so the configured name (or
// "def", matching information_schema) stands in; schemas form the
// database level.
type MySQL struct {
	db      *sql.DB
	catalog string
}

// NewMySQL opens a MySQL warehouse over the given DSN. Time parsing is
// forced on so maintenance timestamps scan cleanly.
func NewMySQL(dsn, catalogName string) (*MySQL, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: connection string", common.ErrMissingConfig)
	}
	if catalogName == "" {
		catalogName = DefaultMySQLCatalog
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQL{db: db, catalog: catalogName}, nil
}

// Close closes the database connection.
func (m *MySQL) Close() error {
	return m.db.Close()
}

// ListCatalogs implements service.Catalog.
func (m *MySQL) ListCatalogs(_ context.Context) ([]string, error) {
	return []string{m.catalog}, nil
}

// ListDatabases implements service.Catalog. System schemas are not
// reported.
func (m *MySQL) ListDatabases(ctx context.Context, catalogName string) ([]string, error) {
	if !strings.EqualFold(catalogName, m.catalog) {
		return nil, nil
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT schema_name FROM information_schema.schemata
		WHERE schema_name NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')
		ORDER BY schema_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var databases []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan schema name: %w", err)
		}
		databases = append(databases, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schemas: %w", err)
	}
	return databases, nil
}

// ListTables implements service.Catalog.
func (m *MySQL) ListTables(ctx context.Context, catalogName, database string) ([]model.TableInfo, error) {
	if !strings.EqualFold(catalogName, m.catalog) {
		return nil, nil
	}

	tables, err := m.baseTables(ctx, database)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = ?
		ORDER BY table_name, ordinal_position`, database)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", database, err)
	}
	defer func() { _ = rows.Close() }()

	columnsByTable := make(map[string][]model.ColumnInfo)
	for rows.Next() {
		var table, column, dataType string
		if err := rows.Scan(&table, &column, &dataType); err != nil {
			return nil, fmt.Errorf("failed to scan column entry: %w", err)
		}
		columnsByTable[table] = append(columnsByTable[table], model.ColumnInfo{
			Name: column,
			Type: strings.ToLower(dataType),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate columns: %w", err)
	}

	infos := make([]model.TableInfo, 0, len(tables))
	for _, table := range tables {
		infos = append(infos, model.TableInfo{
			TableReference: model.TableReference{Catalog: m.catalog, Database: database, Table: table},
			Columns:        columnsByTable[table],
		})
	}
	return infos, nil
}

func (m *MySQL) baseTables(ctx context.Context, database string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name`, database)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in %s: %w", database, err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables: %w", err)
	}
	return tables, nil
}

// ReadSample implements service.Warehouse.
func (m *MySQL) ReadSample(ctx context.Context, table model.TableInfo, limit int) (model.RowSample, error) {
	columns := table.StringColumns()
	if len(columns) == 0 {
		return model.RowSample{Table: table.TableReference}, nil
	}

	statement := query.BuildSample(m.Dialect(), table, limit)
	rows, err := m.db.QueryContext(ctx, statement)
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
func (m *MySQL) Query(ctx context.Context, statement string) (*model.ResultSet, error) {
	rows, err := m.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectResultSet(rows)
}

// Exec implements service.Warehouse.
func (m *MySQL) Exec(ctx context.Context, statement string) (int64, error) {
	res, err := m.db.ExecContext(ctx, statement)
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
func (m *MySQL) Dialect() service.Dialect {
	return mysqlDialect{}
}

// TableStats implements service.StatsProvider from
// information_schema.TABLES. InnoDB row counts are estimates.
func (m *MySQL) TableStats(ctx context.Context, ref model.TableReference) (model.TableStats, error) {
	var rowCount sql.NullInt64
	var sizeBytes sql.NullInt64
	var updateTime sql.NullTime
	var columnCount int

	err := m.db.QueryRowContext(ctx, `
		SELECT t.table_rows,
		       t.data_length + t.index_length,
		       t.update_time,
		       (SELECT COUNT(*) FROM information_schema.columns c
		        WHERE c.table_schema = t.table_schema AND c.table_name = t.table_name)
		FROM information_schema.tables t
		WHERE t.table_schema = ? AND t.table_name = ?`,
		ref.Database, ref.Table).Scan(&rowCount, &sizeBytes, &updateTime, &columnCount)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TableStats{}, fmt.Errorf("%w: table %s", common.ErrNotFound, ref)
	}
	if err != nil {
		return model.TableStats{}, fmt.Errorf("failed to read stats of %s: %w", ref, err)
	}

	stats := model.TableStats{
		Table:       ref,
		RowCount:    rowCount.Int64,
		SizeBytes:   sizeBytes.Int64,
		ColumnCount: columnCount,
	}
	if updateTime.Valid {
		t := updateTime.Time
		stats.LastMaintained = &t
	}
	return stats, nil
}
