// Package housekeeping collects table maintenance statistics across a
// resolved table pattern.
package housekeeping

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/lakesift/lakesift/internal/catalog"
	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/service"
)

// DefaultWorkers bounds concurrent stats collection.
const DefaultWorkers = 4

// Result holds the collected statistics and the per-table failures.
// A failing table never fails the run.
type Result struct {
	Errors map[model.TableReference]error
	Stats  []model.TableStats
}

// Runner fans stats collection out over a bounded worker pool.
type Runner struct {
	resolver *catalog.Resolver
	provider service.StatsProvider
	workers  int
}

// NewRunner creates a runner. The warehouse is probed for stats
// support once, up front.
func NewRunner(resolver *catalog.Resolver, warehouse service.Warehouse, workers int) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	provider, _ := warehouse.(service.StatsProvider)
	return &Runner{
		resolver: resolver,
		provider: provider,
		workers:  workers,
	}
}

// statsOutcome carries one worker's result back to the collector.
type statsOutcome struct {
	err   error
	table model.TableReference
	stats model.TableStats
}

// Run resolves the pattern and collects statistics for every matched
// table. Tables the warehouse cannot report on land in Errors. On
// caller cancellation the partial result is returned together with the
// context error.
func (r *Runner) Run(ctx context.Context, pattern catalog.Pattern) (*Result, error) {
	tables, err := r.resolver.Resolve(ctx, pattern)
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: make(map[model.TableReference]error)}

	if r.provider == nil {
		for _, table := range tables {
			result.Errors[table.TableReference] = common.ErrStatsUnsupported
		}
		return result, nil
	}

	slog.Info("Starting housekeeping",
		"pattern", pattern.String(),
		"tables", len(tables),
		"workers", r.workers)

	workChan := make(chan model.TableReference, len(tables))
	for _, table := range tables {
		workChan <- table.TableReference
	}
	close(workChan)

	resultsChan := make(chan statsOutcome, len(tables))

	var wg sync.WaitGroup
	wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go func() {
			defer wg.Done()
			for ref := range workChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				stats, err := r.provider.TableStats(ctx, ref)
				if err != nil {
					err = fmt.Errorf("failed to collect stats for %s: %w", ref, err)
				}
				resultsChan <- statsOutcome{table: ref, stats: stats, err: err}
			}
		}()
	}

	// Wait for workers and close results
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for outcome := range resultsChan {
		if outcome.err != nil {
			slog.Warn("Stats collection failed",
				"table", outcome.table.String(),
				"error", outcome.err)
			result.Errors[outcome.table] = outcome.err
			continue
		}
		result.Stats = append(result.Stats, outcome.stats)
	}

	sort.Slice(result.Stats, func(i, j int) bool {
		return result.Stats[i].Table.Less(result.Stats[j].Table)
	})

	slog.Info("Housekeeping complete",
		"collected", len(result.Stats),
		"failed", len(result.Errors))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
