package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lakesift/lakesift/internal/catalog"
	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/service"
)

// Compiler turns published tags into executable statements and runs
// them against the warehouse. Its operations are terminal: failures
// surface to the caller instead of being retried.
type Compiler struct {
	resolver  *catalog.Resolver
	store     service.TagStore
	warehouse service.Warehouse
}

// NewCompiler creates a compiler over the given resolver, tag store,
// and warehouse.
func NewCompiler(resolver *catalog.Resolver, store service.TagStore, warehouse service.Warehouse) *Compiler {
	return &Compiler{
		resolver:  resolver,
		store:     store,
		warehouse: warehouse,
	}
}

// taggedTable pairs a resolved table with its live tagged columns.
type taggedTable struct {
	columnsByTag map[string][]string
	info         model.TableInfo
}

// allColumns returns the union of tagged columns, sorted.
func (t taggedTable) allColumns() []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, cols := range t.columnsByTag {
		for _, col := range cols {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// tagIndex gathers the published entries for the requested tags,
// grouped by table and tag.
func (c *Compiler) tagIndex(ctx context.Context, tags []string) (map[model.TableReference]map[string][]string, error) {
	seen := make(map[string]struct{}, len(tags))
	index := make(map[model.TableReference]map[string][]string)
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}

		entries, err := c.store.ListByTag(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries for tag %s: %w", tag, err)
		}
		for _, entry := range entries {
			byTag := index[entry.Table]
			if byTag == nil {
				byTag = make(map[string][]string)
				index[entry.Table] = byTag
			}
			byTag[entry.Tag] = append(byTag[entry.Tag], entry.Column)
		}
	}
	return index, nil
}

// taggedTables resolves the pattern and intersects it with the tables
// holding at least one live column tagged with any requested tag.
// Columns published for a tag but since dropped from the table are
// ignored. No intersection is a normal outcome, not an error.
func (c *Compiler) taggedTables(ctx context.Context, pattern catalog.Pattern, tags []string) ([]taggedTable, error) {
	tables, err := c.resolver.Resolve(ctx, pattern)
	if err != nil {
		return nil, err
	}

	index, err := c.tagIndex(ctx, tags)
	if err != nil {
		return nil, err
	}

	var out []taggedTable
	for _, info := range tables {
		byTag, ok := index[info.TableReference]
		if !ok {
			continue
		}

		live := make(map[string]struct{}, len(info.Columns))
		for _, col := range info.Columns {
			live[col.Name] = struct{}{}
		}

		filtered := make(map[string][]string)
		for tag, cols := range byTag {
			var keep []string
			for _, col := range cols {
				if _, ok := live[col]; ok {
					keep = append(keep, col)
				}
			}
			if len(keep) > 0 {
				sort.Strings(keep)
				filtered[tag] = keep
			}
		}
		if len(filtered) == 0 {
			continue
		}
		out = append(out, taggedTable{info: info, columnsByTag: filtered})
	}
	return out, nil
}

// Search finds rows holding value in any column tagged with one of
// byTags, across every resolved table. Each returned row carries its
// source table as provenance. An empty value is searched verbatim;
// adapters surface NULL cells as empty strings.
func (c *Compiler) Search(ctx context.Context, value string, pattern catalog.Pattern, byTags []string) ([]model.ResultRow, error) {
	tables, err := c.taggedTables(ctx, pattern, byTags)
	if err != nil {
		return nil, err
	}

	d := c.warehouse.Dialect()
	var rows []model.ResultRow
	for _, t := range tables {
		ref := t.info.TableReference
		statement := BuildSearch(d, ref, t.allColumns(), value)

		rs, err := c.warehouse.Query(ctx, statement)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", ref, err)
		}

		for _, r := range rs.Rows {
			rows = append(rows, model.ResultRow{Table: ref, Columns: rs.Columns, Values: r})
		}
		slog.Debug("Searched table", "table", ref.String(), "hits", len(rs.Rows))
	}
	return rows, nil
}

// SelectByTags projects the tagged columns of every resolved table,
// one result row per source row. Tagged groups the projected values by
// tag; a tag covering several columns carries them all, sorted by
// column.
func (c *Compiler) SelectByTags(ctx context.Context, pattern catalog.Pattern, byTags []string) ([]model.ResultRow, error) {
	tables, err := c.taggedTables(ctx, pattern, byTags)
	if err != nil {
		return nil, err
	}

	d := c.warehouse.Dialect()
	var rows []model.ResultRow
	for _, t := range tables {
		ref := t.info.TableReference
		statement := BuildSelect(d, ref, t.allColumns())

		rs, err := c.warehouse.Query(ctx, statement)
		if err != nil {
			return nil, fmt.Errorf("failed to select from %s: %w", ref, err)
		}

		pos := make(map[string]int, len(rs.Columns))
		for i, name := range rs.Columns {
			pos[name] = i
		}

		for _, r := range rs.Rows {
			row := model.ResultRow{
				Table:   ref,
				Columns: rs.Columns,
				Values:  r,
				Tagged:  make(map[string][]model.TaggedColumn, len(t.columnsByTag)),
			}
			for tag, cols := range t.columnsByTag {
				for _, col := range cols {
					if i, ok := pos[col]; ok && i < len(r) {
						row.Tagged[tag] = append(row.Tagged[tag], model.TaggedColumn{Column: col, Value: r[i]})
					}
				}
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// DeleteByTag builds one delete statement per resolved table holding
// columns tagged byTag, removing rows whose tagged column value is in
// values. Without confirm the plan is returned unexecuted; repeated
// previews have no side effects. With confirm each statement runs
// independently: a failing table never stops the rest.
func (c *Compiler) DeleteByTag(ctx context.Context, pattern catalog.Pattern, byTag string, values []string, confirm bool) (*model.DeleteResult, error) {
	if strings.TrimSpace(byTag) == "" {
		return nil, fmt.Errorf("%w: delete tag", common.ErrMissingConfig)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: delete requires at least one value", common.ErrInvalidConfig)
	}

	tables, err := c.taggedTables(ctx, pattern, []string{byTag})
	if err != nil {
		return nil, err
	}

	d := c.warehouse.Dialect()
	plan := model.DeletePlan{Tag: byTag, Values: values}
	for _, t := range tables {
		ref := t.info.TableReference
		plan.Statements = append(plan.Statements, model.DeleteStatement{
			Table: ref,
			SQL:   BuildDelete(d, ref, t.columnsByTag[byTag], values),
		})
	}

	result := &model.DeleteResult{Plan: plan}
	if !confirm {
		return result, nil
	}

	for _, st := range plan.Statements {
		affected, err := c.warehouse.Exec(ctx, st.SQL)
		result.Tables = append(result.Tables, model.TableDeleteResult{
			Table:       st.Table,
			RowsDeleted: affected,
			Err:         err,
		})
		if err != nil {
			slog.Warn("Delete failed",
				"table", st.Table.String(),
				"tag", byTag,
				"error", err)
			continue
		}
		slog.Info("Deleted rows",
			"table", st.Table.String(),
			"tag", byTag,
			"rows", affected)
	}
	return result, nil
}
