package storage

import (
	"context"
	"testing"
)

func TestMigrate_ReachesExpectedVersion(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()

	var version int
	if err := store.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", ExpectedSchemaVersion, version)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.Put(ctx, testEntry("contacts", "email", "dx_email")); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}

	// A second migration run applies nothing and keeps the data.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Re-running migrations failed: %v", err)
	}

	entries, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 entry to survive re-migration, got %d", len(entries))
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()

	for _, index := range []string{"idx_tags_column", "idx_tags_tag"} {
		var count int
		err := store.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='index' AND name=?
		`, index).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check index %s: %v", index, err)
		}
		if count != 1 {
			t.Errorf("Index %s was not created", index)
		}
	}
}

func TestMigrate_NilContext(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()

	//nolint:staticcheck // nil context is the case under test
	if err := store.Migrate(nil); err == nil {
		t.Error("Expected error for nil context")
	}
}
