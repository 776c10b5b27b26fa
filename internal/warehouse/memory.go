package warehouse

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/service"
)

// Memory is a deterministic in-memory catalog and warehouse. It backs
// unit tests and demos the way a recorded double would: reads serve
// seeded rows, generated statements are captured for inspection, and
// failures or delays can be injected per table.
type Memory struct {
	tables     map[string]*memoryTable
	queryFn    func(statement string) (*model.ResultSet, error)
	execFn     func(statement string) (int64, error)
	statements []string
	mu         sync.RWMutex
}

type memoryTable struct {
	info      model.TableInfo
	rows      [][]string
	stats     *model.TableStats
	readErr   error
	readDelay time.Duration
}

// NewMemory creates an empty in-memory warehouse.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]*memoryTable)}
}

// AddTable registers a table and its rows. Cells follow the column
// order of info; NULLs are represented as empty strings.
func (m *Memory) AddTable(info model.TableInfo, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[info.TableReference.String()] = &memoryTable{info: info, rows: rows}
}

// SetStats overrides the derived statistics of a table.
func (m *Memory) SetStats(ref model.TableReference, stats model.TableStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[ref.String()]; ok {
		t.stats = &stats
	}
}

// FailReads makes every sample read of the table return err.
func (m *Memory) FailReads(ref model.TableReference, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[ref.String()]; ok {
		t.readErr = err
	}
}

// DelayReads makes every sample read of the table block for d, or
// until the caller's context expires.
func (m *Memory) DelayReads(ref model.TableReference, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[ref.String()]; ok {
		t.readDelay = d
	}
}

// OnQuery installs the handler invoked for executed SELECT statements.
func (m *Memory) OnQuery(fn func(statement string) (*model.ResultSet, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryFn = fn
}

// OnExec installs the handler invoked for executed mutations.
func (m *Memory) OnExec(fn func(statement string) (int64, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.execFn = fn
}

// Statements returns every statement executed through Query or Exec.
func (m *Memory) Statements() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.statements))
	copy(out, m.statements)
	return out
}

// ListCatalogs implements service.Catalog.
func (m *Memory) ListCatalogs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var catalogs []string
	for _, t := range m.tables {
		if _, ok := seen[t.info.Catalog]; !ok {
			seen[t.info.Catalog] = struct{}{}
			catalogs = append(catalogs, t.info.Catalog)
		}
	}
	sort.Strings(catalogs)
	return catalogs, nil
}

// ListDatabases implements service.Catalog.
func (m *Memory) ListDatabases(_ context.Context, catalog string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var databases []string
	for _, t := range m.tables {
		if t.info.Catalog != catalog {
			continue
		}
		if _, ok := seen[t.info.Database]; !ok {
			seen[t.info.Database] = struct{}{}
			databases = append(databases, t.info.Database)
		}
	}
	sort.Strings(databases)
	return databases, nil
}

// ListTables implements service.Catalog.
func (m *Memory) ListTables(_ context.Context, catalog, database string) ([]model.TableInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var infos []model.TableInfo
	for _, t := range m.tables {
		if t.info.Catalog == catalog && t.info.Database == database {
			infos = append(infos, t.info)
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].TableReference.Less(infos[j].TableReference)
	})
	return infos, nil
}

// ReadSample implements service.Warehouse.
func (m *Memory) ReadSample(ctx context.Context, table model.TableInfo, limit int) (model.RowSample, error) {
	m.mu.RLock()
	t, ok := m.tables[table.TableReference.String()]
	if !ok {
		m.mu.RUnlock()
		return model.RowSample{}, fmt.Errorf("%w: table %s", common.ErrNotFound, table.TableReference)
	}
	info := t.info
	rows := t.rows
	readErr := t.readErr
	readDelay := t.readDelay
	m.mu.RUnlock()

	if readDelay > 0 {
		select {
		case <-ctx.Done():
			return model.RowSample{}, ctx.Err()
		case <-time.After(readDelay):
		}
	}
	if readErr != nil {
		return model.RowSample{}, readErr
	}

	// Project the string-like columns by their registered positions.
	var indexes []int
	var columns []model.ColumnInfo
	for i, c := range info.Columns {
		if c.IsStringLike() {
			indexes = append(indexes, i)
			columns = append(columns, c)
		}
	}

	truncated := false
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
		truncated = true
	}

	sampled := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(indexes))
		for i, idx := range indexes {
			if idx < len(row) {
				cells[i] = row[idx]
			}
		}
		sampled = append(sampled, cells)
	}

	return model.RowSample{
		Table:     info.TableReference,
		Columns:   columns,
		Rows:      sampled,
		Truncated: truncated,
	}, nil
}

// Query implements service.Warehouse.
func (m *Memory) Query(_ context.Context, statement string) (*model.ResultSet, error) {
	m.mu.Lock()
	m.statements = append(m.statements, statement)
	fn := m.queryFn
	m.mu.Unlock()

	if fn != nil {
		return fn(statement)
	}
	return &model.ResultSet{}, nil
}

// Exec implements service.Warehouse.
func (m *Memory) Exec(_ context.Context, statement string) (int64, error) {
	m.mu.Lock()
	m.statements = append(m.statements, statement)
	fn := m.execFn
	m.mu.Unlock()

	if fn != nil {
		return fn(statement)
	}
	return 0, nil
}

// Dialect implements service.Warehouse.
func (m *Memory) Dialect() service.Dialect {
	return memoryDialect{}
}

// TableStats implements service.StatsProvider. Without an explicit
// override the stats derive from the seeded rows.
func (m *Memory) TableStats(_ context.Context, ref model.TableReference) (model.TableStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[ref.String()]
	if !ok {
		return model.TableStats{}, fmt.Errorf("%w: table %s", common.ErrNotFound, ref)
	}
	if t.stats != nil {
		return *t.stats, nil
	}
	return model.TableStats{
		Table:       ref,
		RowCount:    int64(len(t.rows)),
		ColumnCount: len(t.info.Columns),
	}, nil
}
