package scan

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakesift/lakesift/internal/catalog"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/service"
	"github.com/lakesift/lakesift/internal/warehouse"
)

func seedWarehouse() *warehouse.Memory {
	mem := warehouse.NewMemory()

	mem.AddTable(model.TableInfo{
		TableReference: model.TableReference{Catalog: "prod", Database: "crm", Table: "contacts"},
		Columns: []model.ColumnInfo{
			{Name: "id", Type: "integer"},
			{Name: "email", Type: "text"},
		},
	}, [][]string{
		{"1", "a@b.c"},
		{"2", "jane@corp.example.com"},
		{"3", "ops@internal.io"},
		{"4", "not-an-email"},
	})

	mem.AddTable(model.TableInfo{
		TableReference: model.TableReference{Catalog: "prod", Database: "net", Table: "servers"},
		Columns: []model.ColumnInfo{
			{Name: "address", Type: "varchar(64)"},
		},
	}, [][]string{
		{"10.0.0.1"},
		{"10.0.0.2"},
	})

	return mem
}

func newOrchestrator(mem *warehouse.Memory, opts Options) *Orchestrator {
	resolver := catalog.NewResolver(mem)
	sampler := NewSampler(mem, service.RetryOptions{MaxAttempts: 1, InitialDelay: time.Millisecond})
	return NewOrchestrator(resolver, sampler, opts)
}

func TestOrchestrator_Run(t *testing.T) {
	mem := seedWarehouse()
	orch := newOrchestrator(mem, Options{Workers: 2, SampleSize: 100, TagPrefix: "dx"})

	result, err := orch.Run(context.Background(), Request{
		Pattern: catalog.All(),
		Rules:   rulesByName(t, "email", "ip_v4"),
	})
	require.NoError(t, err)

	_, err = uuid.Parse(result.RunID)
	require.NoError(t, err, "run IDs are UUIDs")
	assert.False(t, result.StartedAt.IsZero())

	require.Len(t, result.Tables, 2)
	assert.Empty(t, result.Skipped)

	// Sorted by reference regardless of completion order.
	assert.Equal(t, "contacts", result.Tables[0].Table.Table)
	assert.Equal(t, "servers", result.Tables[1].Table.Table)

	byKey := make(map[string]model.ScanRecord)
	for _, rec := range result.Records() {
		byKey[rec.Table.Table+"/"+rec.Column+"/"+rec.Rule] = rec
	}

	email := byKey["contacts/email/email"]
	assert.Equal(t, 3, email.MatchedCount)
	assert.Equal(t, 4, email.SampledCount)
	assert.Equal(t, "dx_email", email.Tag)

	addr := byKey["servers/address/ip_v4"]
	assert.Equal(t, 2, addr.MatchedCount)
	assert.InDelta(t, 1.0, addr.Frequency(), 1e-9)
}

func TestOrchestrator_Run_DryRun(t *testing.T) {
	mem := seedWarehouse()
	// A dry run must never read table data: poison every table.
	mem.FailReads(model.TableReference{Catalog: "prod", Database: "crm", Table: "contacts"}, errors.New("touched"))
	mem.FailReads(model.TableReference{Catalog: "prod", Database: "net", Table: "servers"}, errors.New("touched"))

	orch := newOrchestrator(mem, Options{Workers: 2, SampleSize: 50})

	result, err := orch.Run(context.Background(), Request{
		Pattern: catalog.All(),
		Rules:   rulesByName(t, "email"),
		DryRun:  true,
	})
	require.NoError(t, err)

	require.Len(t, result.Statements, 2)
	assert.Equal(t, `SELECT "email" FROM "prod"."crm"."contacts" LIMIT 50`, result.Statements[0])
	assert.Equal(t, `SELECT "address" FROM "prod"."net"."servers" LIMIT 50`, result.Statements[1])
	assert.Empty(t, result.Tables)
	assert.Empty(t, result.Skipped)
	assert.Empty(t, mem.Statements(), "dry run must not execute anything")
}

func TestOrchestrator_Run_SkipsFailingTable(t *testing.T) {
	mem := seedWarehouse()
	failing := model.TableReference{Catalog: "prod", Database: "crm", Table: "contacts"}
	mem.FailReads(failing, errors.New("storage offline"))

	orch := newOrchestrator(mem, Options{Workers: 2, SampleSize: 100})

	result, err := orch.Run(context.Background(), Request{
		Pattern: catalog.All(),
		Rules:   rulesByName(t, "email"),
	})
	require.NoError(t, err, "per-table failures must not fail the batch")

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, failing, result.Skipped[0].Table)
	assert.Contains(t, result.Skipped[0].Reason, "storage offline")

	require.Len(t, result.Tables, 1)
	assert.Equal(t, "servers", result.Tables[0].Table.Table)
}

func TestOrchestrator_Run_TimeoutBecomesSkip(t *testing.T) {
	mem := seedWarehouse()
	slow := model.TableReference{Catalog: "prod", Database: "crm", Table: "contacts"}
	mem.DelayReads(slow, 200*time.Millisecond)

	orch := newOrchestrator(mem, Options{Workers: 2, SampleSize: 100, TableTimeout: 20 * time.Millisecond})

	result, err := orch.Run(context.Background(), Request{
		Pattern: catalog.All(),
		Rules:   rulesByName(t, "email"),
	})
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, slow, result.Skipped[0].Table)
	assert.Equal(t, model.SkipReasonTimeout, result.Skipped[0].Reason)

	require.Len(t, result.Tables, 1, "other tables finish while one times out")
}

func TestOrchestrator_Run_SkipsTablesWithoutStringColumns(t *testing.T) {
	mem := seedWarehouse()
	mem.AddTable(model.TableInfo{
		TableReference: model.TableReference{Catalog: "prod", Database: "metrics", Table: "counters"},
		Columns: []model.ColumnInfo{
			{Name: "ts", Type: "timestamp"},
			{Name: "value", Type: "bigint"},
		},
	}, [][]string{{"2024-01-01T00:00:00Z", "42"}})

	orch := newOrchestrator(mem, Options{Workers: 2, SampleSize: 100})

	result, err := orch.Run(context.Background(), Request{
		Pattern: catalog.Pattern{Catalogs: "prod", Databases: "metrics", Tables: "*"},
		Rules:   rulesByName(t, "email"),
	})
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, model.SkipReasonNoStringColumns, result.Skipped[0].Reason)
	assert.Empty(t, result.Tables)
}

func TestOrchestrator_Run_EmptyResolution(t *testing.T) {
	orch := newOrchestrator(seedWarehouse(), Options{Workers: 2})

	result, err := orch.Run(context.Background(), Request{
		Pattern: catalog.Pattern{Catalogs: "staging", Databases: "*", Tables: "*"},
		Rules:   rulesByName(t, "email"),
	})
	require.NoError(t, err, "a pattern matching nothing is a valid scan")
	assert.Empty(t, result.Tables)
	assert.Empty(t, result.Skipped)
}

func TestOrchestrator_Run_Progress(t *testing.T) {
	var mu sync.Mutex
	var dones []int
	var tables []string

	orch := newOrchestrator(seedWarehouse(), Options{
		Workers:    2,
		SampleSize: 100,
		Progress: func(done, total int, table string) {
			mu.Lock()
			defer mu.Unlock()
			dones = append(dones, done)
			tables = append(tables, table)
			assert.Equal(t, 2, total)
		},
	})

	_, err := orch.Run(context.Background(), Request{
		Pattern: catalog.All(),
		Rules:   rulesByName(t, "email"),
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, dones)

	sort.Strings(tables)
	assert.True(t, strings.HasSuffix(tables[0], "contacts"))
	assert.True(t, strings.HasSuffix(tables[1], "servers"))
}

func TestOrchestrator_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := newOrchestrator(seedWarehouse(), Options{Workers: 2, SampleSize: 100})

	result, err := orch.Run(ctx, Request{
		Pattern: catalog.All(),
		Rules:   rulesByName(t, "email"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, result, "partial results accompany the cancellation")
	assert.Empty(t, result.Tables)
}
