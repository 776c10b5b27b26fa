package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/service"
	"github.com/lakesift/lakesift/internal/warehouse"
)

// flakyWarehouse fails the first few sample reads before delegating.
type flakyWarehouse struct {
	*warehouse.Memory
	failErr   error
	mu        sync.Mutex
	remaining int
	attempts  int
}

func (f *flakyWarehouse) ReadSample(ctx context.Context, table model.TableInfo, limit int) (model.RowSample, error) {
	f.mu.Lock()
	f.attempts++
	fail := f.remaining > 0
	if fail {
		f.remaining--
	}
	f.mu.Unlock()

	if fail {
		return model.RowSample{}, f.failErr
	}
	return f.Memory.ReadSample(ctx, table, limit)
}

func (f *flakyWarehouse) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func usersTable() model.TableInfo {
	return model.TableInfo{
		TableReference: model.TableReference{Catalog: "prod", Database: "crm", Table: "users"},
		Columns: []model.ColumnInfo{
			{Name: "id", Type: "integer"},
			{Name: "email", Type: "text"},
		},
	}
}

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestSampler_Sample_RetriesTransientFailures(t *testing.T) {
	mem := warehouse.NewMemory()
	table := usersTable()
	mem.AddTable(table, [][]string{{"1", "a@b.c"}, {"2", "x@y.z"}})

	flaky := &flakyWarehouse{
		Memory:    mem,
		remaining: 2,
		failErr:   &common.RetryableError{Err: errors.New("connection reset"), Retryable: true},
	}

	sampler := NewSampler(flaky, fastRetry(3))
	sample, err := sampler.Sample(context.Background(), table, 10)
	require.NoError(t, err)

	assert.Equal(t, 3, flaky.Attempts())
	assert.Len(t, sample.Rows, 2)
	require.Len(t, sample.Columns, 1, "only string-like columns are sampled")
	assert.Equal(t, "email", sample.Columns[0].Name)
}

func TestSampler_Sample_NonRetryableFailsFast(t *testing.T) {
	mem := warehouse.NewMemory()
	table := usersTable()
	mem.AddTable(table, nil)

	flaky := &flakyWarehouse{
		Memory:    mem,
		remaining: 100,
		failErr:   &common.RetryableError{Err: errors.New("permission denied"), Retryable: false},
	}

	sampler := NewSampler(flaky, fastRetry(5))
	_, err := sampler.Sample(context.Background(), table, 10)
	require.Error(t, err)

	assert.Equal(t, 1, flaky.Attempts(), "non-retryable errors must not be retried")
	assert.Contains(t, err.Error(), "prod.crm.users")
}

func TestSampler_Sample_ExhaustsRetries(t *testing.T) {
	mem := warehouse.NewMemory()
	table := usersTable()
	mem.AddTable(table, nil)

	flaky := &flakyWarehouse{
		Memory:    mem,
		remaining: 100,
		failErr:   errors.New("boom"),
	}

	sampler := NewSampler(flaky, fastRetry(3))
	_, err := sampler.Sample(context.Background(), table, 10)
	require.Error(t, err)

	assert.Equal(t, 3, flaky.Attempts())
	assert.True(t, errors.Is(err, common.ErrMaxRetries))
}

func TestSampler_ReadStatement(t *testing.T) {
	mem := warehouse.NewMemory()
	table := usersTable()
	mem.AddTable(table, [][]string{{"1", "a@b.c"}})

	sampler := NewSampler(mem, fastRetry(1))

	got := sampler.ReadStatement(table, 100)
	assert.Equal(t, `SELECT "email" FROM "prod"."crm"."users" LIMIT 100`, got)

	unbounded := sampler.ReadStatement(table, 0)
	assert.Equal(t, `SELECT "email" FROM "prod"."crm"."users"`, unbounded)
}

func TestSampler_Sample_Truncation(t *testing.T) {
	mem := warehouse.NewMemory()
	table := usersTable()
	mem.AddTable(table, [][]string{{"1", "a@b.c"}, {"2", "b@c.d"}, {"3", "c@d.e"}})

	sampler := NewSampler(mem, fastRetry(1))

	sample, err := sampler.Sample(context.Background(), table, 2)
	require.NoError(t, err)
	assert.Len(t, sample.Rows, 2)
	assert.True(t, sample.Truncated)

	full, err := sampler.Sample(context.Background(), table, 0)
	require.NoError(t, err)
	assert.Len(t, full.Rows, 3)
	assert.False(t, full.Truncated)
}
