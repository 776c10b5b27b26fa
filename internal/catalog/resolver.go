package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/service"
)

// AccessError reports a catalog enumeration failure. Resolution cannot
// tell a missing level apart from a broken connection, so the whole
// resolve call fails rather than returning a silently narrowed set.
type AccessError struct {
	Err   error
	Level string
	Scope string
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("failed to list %s in %s: %v", e.Level, e.Scope, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// Resolver expands wildcard patterns into the concrete tables present
// in the catalog at resolution time.
type Resolver struct {
	catalog service.Catalog
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog service.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve walks catalogs, databases and tables, applying the pattern's
// filter at each level. The result contains only tables that actually
// exist and is sorted by table reference. An empty result is valid: the
// pattern simply matched nothing.
func (r *Resolver) Resolve(ctx context.Context, pattern Pattern) ([]model.TableInfo, error) {
	compiled, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	catalogs, err := r.catalog.ListCatalogs(ctx)
	if err != nil {
		return nil, &AccessError{Level: "catalogs", Scope: "warehouse", Err: err}
	}

	var tables []model.TableInfo
	for _, cat := range catalogs {
		if !compiled.catalogs.Match(cat) {
			continue
		}
		databases, err := r.catalog.ListDatabases(ctx, cat)
		if err != nil {
			return nil, &AccessError{Level: "databases", Scope: cat, Err: err}
		}
		for _, db := range databases {
			if !compiled.databases.Match(db) {
				continue
			}
			infos, err := r.catalog.ListTables(ctx, cat, db)
			if err != nil {
				return nil, &AccessError{Level: "tables", Scope: cat + "." + db, Err: err}
			}
			for _, info := range infos {
				if compiled.tables.Match(info.Table) {
					tables = append(tables, info)
				}
			}
		}
	}

	sort.Slice(tables, func(i, j int) bool {
		return tables[i].TableReference.Less(tables[j].TableReference)
	})

	slog.Debug("Resolved table pattern",
		"pattern", pattern.String(),
		"tables", len(tables))

	return tables, nil
}
