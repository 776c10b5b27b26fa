// Package engine wires rules, catalog resolution, scanning, and the
// tag store into a single configured entry point.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/lakesift/lakesift/internal/catalog"
	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/housekeeping"
	"github.com/lakesift/lakesift/internal/inspect"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/query"
	"github.com/lakesift/lakesift/internal/rules"
	"github.com/lakesift/lakesift/internal/scan"
	"github.com/lakesift/lakesift/internal/service"
)

// Engine is the configured facade over scan, inspection, publishing,
// and tag-driven querying. It holds no package-level state: two
// engines in one process never interfere.
type Engine struct {
	cfg      Config
	rules    *rules.Set
	resolver *catalog.Resolver
	sampler  *scan.Sampler
	compiler *query.Compiler
	keeper   *housekeeping.Runner
	store    service.TagStore
}

// ScanRequest describes one scan invocation.
type ScanRequest struct {
	// Progress, when set, is invoked after each table completes.
	Progress func(done, total int, table string)
	// Pattern selects the tables to scan.
	Pattern catalog.Pattern
	// Rules filters the rule set by name: "*", a name, or a comma
	// list. Empty means all rules.
	Rules string
	// DryRun returns the read statements without touching table data.
	DryRun bool
}

// New creates an engine with the default configuration.
func New(cat service.Catalog, warehouse service.Warehouse, store service.TagStore) (*Engine, error) {
	return NewWithConfig(DefaultConfig(), cat, warehouse, store)
}

// NewWithConfig creates an engine with custom configuration. The rule
// set is compiled here: a bad custom rule fails construction, not the
// scan that would have used it.
func NewWithConfig(cfg Config, cat service.Catalog, warehouse service.Warehouse, store service.TagStore) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	set, err := rules.NewSet(cfg.CustomRules)
	if err != nil {
		return nil, err
	}

	resolver := catalog.NewResolver(cat)
	return &Engine{
		cfg:      cfg,
		rules:    set,
		resolver: resolver,
		sampler:  scan.NewSampler(warehouse, cfg.Retry),
		compiler: query.NewCompiler(resolver, store, warehouse),
		keeper:   housekeeping.NewRunner(resolver, warehouse, cfg.Workers),
		store:    store,
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Rules returns the rules matching the name filter, sorted by name.
// An empty filter matches everything.
func (e *Engine) Rules(filter string) ([]*rules.Rule, error) {
	if strings.TrimSpace(filter) == "" {
		filter = "*"
	}
	f, err := catalog.CompileFilter(filter)
	if err != nil {
		return nil, err
	}

	var matched []*rules.Rule
	for _, r := range e.rules.All() {
		if f.Match(r.Name) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// scanRules resolves the rule filter for a scan. A filter matching
// nothing aborts the scan: it is a misconfiguration, not an empty run.
func (e *Engine) scanRules(filter string) ([]*rules.Rule, error) {
	matched, err := e.Rules(filter)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: no rules match filter %q", common.ErrInvalidConfig, filter)
	}
	return matched, nil
}

// Scan samples every table matching the request pattern and applies
// the selected rules to the sampled values.
func (e *Engine) Scan(ctx context.Context, req ScanRequest) (*model.ScanResult, error) {
	matched, err := e.scanRules(req.Rules)
	if err != nil {
		return nil, err
	}

	orch := scan.NewOrchestrator(e.resolver, e.sampler, scan.Options{
		Progress:     req.Progress,
		TagPrefix:    e.cfg.TagPrefix,
		Workers:      e.cfg.Workers,
		SampleSize:   e.cfg.SampleSize,
		TableTimeout: e.cfg.TableTimeout,
	})
	return orch.Run(ctx, scan.Request{
		Pattern: req.Pattern,
		Rules:   matched,
		DryRun:  req.DryRun,
	})
}

// Inspect turns a scan result into an editable session holding the
// columns whose match frequency reached the configured threshold.
func (e *Engine) Inspect(result *model.ScanResult) *inspect.Session {
	return inspect.NewSession(inspect.Propose(result, e.cfg.Threshold))
}

// Publish writes the session's accepted proposals to the tag store.
func (e *Engine) Publish(ctx context.Context, session *inspect.Session) (model.PublishResult, error) {
	return inspect.Publish(ctx, e.store, session)
}

// Search finds rows holding value in any column tagged with one of
// byTags, across the tables matching the pattern.
func (e *Engine) Search(ctx context.Context, value string, pattern catalog.Pattern, byTags []string) ([]model.ResultRow, error) {
	return e.compiler.Search(ctx, value, pattern, byTags)
}

// SelectByTags projects the tagged columns of the tables matching the
// pattern, one result row per source row.
func (e *Engine) SelectByTags(ctx context.Context, pattern catalog.Pattern, byTags []string) ([]model.ResultRow, error) {
	return e.compiler.SelectByTags(ctx, pattern, byTags)
}

// DeleteByTag deletes rows whose column tagged byTag holds one of
// values. Without confirm only the plan is returned.
func (e *Engine) DeleteByTag(ctx context.Context, pattern catalog.Pattern, byTag string, values []string, confirm bool) (*model.DeleteResult, error) {
	return e.compiler.DeleteByTag(ctx, pattern, byTag, values, confirm)
}

// Housekeeping collects maintenance statistics for the tables matching
// the pattern.
func (e *Engine) Housekeeping(ctx context.Context, pattern catalog.Pattern) (*housekeeping.Result, error) {
	return e.keeper.Run(ctx, pattern)
}

// Tags returns every published tag entry.
func (e *Engine) Tags(ctx context.Context) ([]model.TagEntry, error) {
	return e.store.ListAll(ctx)
}
