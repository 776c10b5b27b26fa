// Package scan samples tables and applies classification rules over a
// bounded worker pool.
package scan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/query"
	"github.com/lakesift/lakesift/internal/service"
)

// Sampler reads bounded samples of string-like columns from the
// warehouse, retrying transient failures before giving a table up.
type Sampler struct {
	warehouse service.Warehouse
	retry     service.RetryOptions
}

// NewSampler creates a sampler over the warehouse.
func NewSampler(warehouse service.Warehouse, retry service.RetryOptions) *Sampler {
	return &Sampler{warehouse: warehouse, retry: retry}
}

// ReadStatement returns the statement a sample of the table would
// execute. Building the statement touches no data; dry runs report it
// verbatim.
func (s *Sampler) ReadStatement(table model.TableInfo, limit int) string {
	return query.BuildSample(s.warehouse.Dialect(), table, limit)
}

// Sample reads up to limit rows of the table's string-like columns.
// A limit <= 0 reads the whole table.
func (s *Sampler) Sample(ctx context.Context, table model.TableInfo, limit int) (model.RowSample, error) {
	var sample model.RowSample
	err := common.WithRetry(ctx, func() error {
		var readErr error
		sample, readErr = s.warehouse.ReadSample(ctx, table, limit)
		return readErr
	}, s.retry)
	if err != nil {
		return model.RowSample{}, fmt.Errorf("failed to sample %s: %w", table.TableReference, err)
	}

	slog.Debug("Sampled table",
		"table", table.TableReference.String(),
		"rows", len(sample.Rows),
		"columns", len(sample.Columns),
		"truncated", sample.Truncated)

	return sample, nil
}
