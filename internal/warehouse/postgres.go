package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/query"
	"github.com/lakesift/lakesift/internal/service"

	_ "github.com/lib/pq" // Postgres driver
)

// Postgres serves catalog metadata and reads from a PostgreSQL
// connection. The connected database is the catalog level; its schemas
// form the database level.
type Postgres struct {
	db      *sql.DB
	catalog string
}

// NewPostgres opens a Postgres warehouse over the given connection
// string.
func NewPostgres(dsn string) (*Postgres, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: connection string", common.ErrMissingConfig)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var catalogName string
	if err := db.QueryRow("SELECT current_database()").Scan(&catalogName); err != nil {
		return nil, fmt.Errorf("failed to read current database: %w", err)
	}

	return &Postgres{db: db, catalog: catalogName}, nil
}

// Close closes the database connection.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// ListCatalogs implements service.Catalog.
func (p *Postgres) ListCatalogs(_ context.Context) ([]string, error) {
	return []string{p.catalog}, nil
}

// ListDatabases implements service.Catalog. System schemas are not
// reported.
func (p *Postgres) ListDatabases(ctx context.Context, catalogName string) ([]string, error) {
	if !strings.EqualFold(catalogName, p.catalog) {
		return nil, nil
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT schema_name FROM information_schema.schemata
		WHERE schema_name NOT IN ('information_schema')
		  AND schema_name NOT LIKE 'pg_%'
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

// ListTables implements service.Catalog. Base tables and their columns
// are read from information_schema in two queries.
func (p *Postgres) ListTables(ctx context.Context, catalogName, database string) ([]model.TableInfo, error) {
	if !strings.EqualFold(catalogName, p.catalog) {
		return nil, nil
	}

	tables, err := p.baseTables(ctx, database)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT table_name, column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1
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
			TableReference: model.TableReference{Catalog: p.catalog, Database: database, Table: table},
			Columns:        columnsByTable[table],
		})
	}
	return infos, nil
}

func (p *Postgres) baseTables(ctx context.Context, database string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
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
func (p *Postgres) ReadSample(ctx context.Context, table model.TableInfo, limit int) (model.RowSample, error) {
	columns := table.StringColumns()
	if len(columns) == 0 {
		return model.RowSample{Table: table.TableReference}, nil
	}

	statement := query.BuildSample(p.Dialect(), table, limit)
	rows, err := p.db.QueryContext(ctx, statement)
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
func (p *Postgres) Query(ctx context.Context, statement string) (*model.ResultSet, error) {
	rows, err := p.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectResultSet(rows)
}

// Exec implements service.Warehouse.
func (p *Postgres) Exec(ctx context.Context, statement string) (int64, error) {
	res, err := p.db.ExecContext(ctx, statement)
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
func (p *Postgres) Dialect() service.Dialect {
	return postgresDialect{}
}

// TableStats implements service.StatsProvider using the statistics
// collector. The maintenance time is the most recent vacuum or analyze
// of either kind, when one has happened.
func (p *Postgres) TableStats(ctx context.Context, ref model.TableReference) (model.TableStats, error) {
	var rowCount int64
	var sizeBytes int64
	var lastMaintained sql.NullTime

	err := p.db.QueryRowContext(ctx, `
		SELECT COALESCE(s.n_live_tup, 0),
		       pg_total_relation_size(s.relid),
		       GREATEST(s.last_vacuum, s.last_autovacuum, s.last_analyze, s.last_autoanalyze)
		FROM pg_stat_user_tables s
		WHERE s.schemaname = $1 AND s.relname = $2`,
		ref.Database, ref.Table).Scan(&rowCount, &sizeBytes, &lastMaintained)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TableStats{}, fmt.Errorf("%w: table %s", common.ErrNotFound, ref)
	}
	if err != nil {
		return model.TableStats{}, fmt.Errorf("failed to read stats of %s: %w", ref, err)
	}

	var columnCount int
	err = p.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2`,
		ref.Database, ref.Table).Scan(&columnCount)
	if err != nil {
		return model.TableStats{}, fmt.Errorf("failed to count columns of %s: %w", ref, err)
	}

	stats := model.TableStats{
		Table:       ref,
		RowCount:    rowCount,
		SizeBytes:   sizeBytes,
		ColumnCount: columnCount,
	}
	if lastMaintained.Valid {
		t := lastMaintained.Time
		stats.LastMaintained = &t
	}
	return stats, nil
}
