package scan

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lakesift/lakesift/internal/catalog"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/rules"
)

// Orchestration defaults.
const (
	DefaultWorkers      = 4
	DefaultTableTimeout = 2 * time.Minute
	DefaultSampleSize   = 100
)

// Options configure scan runs.
type Options struct {
	// Progress, when set, is invoked after each table completes.
	Progress func(done, total int, table string)
	// TagPrefix is prepended to derived tags.
	TagPrefix string
	// Workers bounds concurrent table scans.
	Workers int
	// SampleSize caps rows read per table; <= 0 reads whole tables.
	SampleSize int
	// TableTimeout bounds the wall time spent on a single table.
	TableTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.TableTimeout <= 0 {
		o.TableTimeout = DefaultTableTimeout
	}
	return o
}

// Request describes a single scan run.
type Request struct {
	Pattern catalog.Pattern
	Rules   []*rules.Rule
	DryRun  bool
}

// Orchestrator resolves a table pattern and fans the per-table work
// out over a bounded worker pool.
type Orchestrator struct {
	resolver *catalog.Resolver
	sampler  *Sampler
	opts     Options
}

// NewOrchestrator creates an orchestrator with the given options.
func NewOrchestrator(resolver *catalog.Resolver, sampler *Sampler, opts Options) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		sampler:  sampler,
		opts:     opts.withDefaults(),
	}
}

// tableOutcome carries one worker's result back to the collector.
type tableOutcome struct {
	skip  *model.ScanSkip
	table model.TableReference
	scan  model.TableScan
}

// Run resolves the request pattern and scans every matched table. Dry
// runs return the read statements without touching any table data.
// Per-table read failures and timeouts become skips; the rest of the
// batch always completes. On caller cancellation the partial result is
// returned together with the context error.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*model.ScanResult, error) {
	started := time.Now()
	result := &model.ScanResult{
		RunID:     uuid.New().String(),
		StartedAt: started,
	}

	tables, err := o.resolver.Resolve(ctx, req.Pattern)
	if err != nil {
		return nil, err
	}

	if req.DryRun {
		statements := make([]string, 0, len(tables))
		for _, table := range tables {
			// Tables a real run would skip produce no statement.
			if len(table.StringColumns()) == 0 {
				continue
			}
			statements = append(statements, o.sampler.ReadStatement(table, o.opts.SampleSize))
		}
		result.Statements = statements
		result.Elapsed = time.Since(started)
		return result, nil
	}

	slog.Info("Starting scan",
		"run_id", result.RunID,
		"pattern", req.Pattern.String(),
		"tables", len(tables),
		"rules", len(req.Rules),
		"workers", o.opts.Workers)

	scanner := NewScanner(req.Rules, o.opts.TagPrefix)

	// Fill and close the work channel up front; workers drain it.
	workChan := make(chan model.TableInfo, len(tables))
	for _, table := range tables {
		workChan <- table
	}
	close(workChan)

	resultsChan := make(chan tableOutcome, len(tables))

	var wg sync.WaitGroup
	wg.Add(o.opts.Workers)
	for i := 0; i < o.opts.Workers; i++ {
		go func(workerID int) {
			defer wg.Done()
			o.scanWorker(ctx, workerID, scanner, workChan, resultsChan)
		}(i)
	}

	// Wait for workers and close results
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	done := 0
	for outcome := range resultsChan {
		done++
		if outcome.skip != nil {
			result.Skipped = append(result.Skipped, *outcome.skip)
		} else {
			result.Tables = append(result.Tables, outcome.scan)
		}
		if o.opts.Progress != nil {
			o.opts.Progress(done, len(tables), outcome.table.String())
		}
	}

	result.Sort()
	result.Elapsed = time.Since(started)

	slog.Info("Scan complete",
		"run_id", result.RunID,
		"tables", len(result.Tables),
		"skipped", len(result.Skipped),
		"records", result.RecordCount(),
		"elapsed", result.Elapsed)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// scanWorker processes tables from the work channel. Cancellation is
// honored between tables; the table in flight finishes.
func (o *Orchestrator) scanWorker(
	ctx context.Context,
	workerID int,
	scanner *Scanner,
	workChan <-chan model.TableInfo,
	resultsChan chan<- tableOutcome,
) {
	for table := range workChan {
		select {
		case <-ctx.Done():
			return
		default:
		}

		slog.Debug("Scanning table",
			"worker_id", workerID,
			"table", table.TableReference.String())

		resultsChan <- o.scanTable(ctx, scanner, table)
	}
}

// scanTable samples one table under the per-table timeout and applies
// the rules to the sample.
func (o *Orchestrator) scanTable(ctx context.Context, scanner *Scanner, table model.TableInfo) tableOutcome {
	ref := table.TableReference

	if len(table.StringColumns()) == 0 {
		return tableOutcome{
			table: ref,
			skip:  &model.ScanSkip{Table: ref, Reason: model.SkipReasonNoStringColumns},
		}
	}

	tableCtx, cancel := context.WithTimeout(ctx, o.opts.TableTimeout)
	defer cancel()

	sample, err := o.sampler.Sample(tableCtx, table, o.opts.SampleSize)
	if err != nil {
		reason := err.Error()
		// Retry wrapping can flatten the deadline error, so consult the
		// table context as well. A canceled parent is not a timeout.
		if ctx.Err() == nil &&
			(errors.Is(err, context.DeadlineExceeded) || errors.Is(tableCtx.Err(), context.DeadlineExceeded)) {
			reason = model.SkipReasonTimeout
		}
		slog.Warn("Skipping table",
			"table", ref.String(),
			"reason", reason)
		return tableOutcome{
			table: ref,
			skip:  &model.ScanSkip{Table: ref, Reason: reason},
		}
	}

	return tableOutcome{
		table: ref,
		scan:  model.TableScan{Table: ref, Records: scanner.Scan(sample)},
	}
}
