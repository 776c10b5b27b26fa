package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lakesift/lakesift/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteTagStore implements the TagStore interface using SQLite.
type SQLiteTagStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteTagStore creates a new SQLite tag store instance.
func NewSQLiteTagStore(dbPath string) (*SQLiteTagStore, error) {
	// Validate input
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteTagStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteTagStore) Close() error {
	return s.db.Close()
}

// Put inserts a tag entry. Publishing an entry that already exists is
// not a conflict: the unique index absorbs the duplicate and inserted
// reports false. The publish timestamp is assigned by the store.
func (s *SQLiteTagStore) Put(ctx context.Context, entry model.TagEntry) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateTagEntry(entry); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (catalog, database_name, table_name, column_name, tag)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(catalog, database_name, table_name, column_name, tag) DO NOTHING`,
		entry.Table.Catalog, entry.Table.Database, entry.Table.Table, entry.Column, entry.Tag)
	if err != nil {
		return false, fmt.Errorf("failed to put tag entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// GetTags returns the tags published for a column, sorted by tag.
func (s *SQLiteTagStore) GetTags(ctx context.Context, table model.TableReference, column string) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(column, "column"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tag FROM tags
		WHERE catalog = ? AND database_name = ? AND table_name = ? AND column_name = ?
		ORDER BY tag`,
		table.Catalog, table.Database, table.Table, column)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// ListByTag returns every entry carrying the tag, sorted by table and
// column.
func (s *SQLiteTagStore) ListByTag(ctx context.Context, tag string) ([]model.TagEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tag, "tag"); err != nil {
		return nil, err
	}

	return s.queryEntries(ctx, `
		SELECT catalog, database_name, table_name, column_name, tag, published_at
		FROM tags
		WHERE tag = ?
		ORDER BY catalog, database_name, table_name, column_name`, tag)
}

// ListAll returns every published entry, sorted by table, column, tag.
func (s *SQLiteTagStore) ListAll(ctx context.Context) ([]model.TagEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return s.queryEntries(ctx, `
		SELECT catalog, database_name, table_name, column_name, tag, published_at
		FROM tags
		ORDER BY catalog, database_name, table_name, column_name, tag`)
}

func (s *SQLiteTagStore) queryEntries(ctx context.Context, query string, args ...any) ([]model.TagEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.TagEntry
	for rows.Next() {
		var entry model.TagEntry
		if err := rows.Scan(
			&entry.Table.Catalog,
			&entry.Table.Database,
			&entry.Table.Table,
			&entry.Column,
			&entry.Tag,
			&entry.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tag entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tag entries: %w", err)
	}
	return entries, nil
}
