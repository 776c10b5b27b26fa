// Package testutil provides shared helpers for tests that need a real
// tag store.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lakesift/lakesift/internal/storage"
)

// NewTagStore creates a migrated SQLite tag store under the test's
// temporary directory. Cleanup closes it.
func NewTagStore(t *testing.T) *storage.SQLiteTagStore {
	t.Helper()

	store, err := storage.NewSQLiteTagStore(filepath.Join(t.TempDir(), "tags.db"))
	if err != nil {
		t.Fatalf("failed to create test tag store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test tag store: %v", err)
		}
	})
	return store
}
