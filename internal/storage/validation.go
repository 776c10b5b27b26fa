// Package storage provides the tag persistence layer for lakesift.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lakesift/lakesift/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidEntry   = errors.New("invalid tag entry")
	ErrInvalidTagName = errors.New("invalid tag name")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTagEntry validates a tag entry before it is persisted.
func validateTagEntry(entry model.TagEntry) error {
	if strings.TrimSpace(entry.Table.Catalog) == "" {
		return fmt.Errorf("%w: missing catalog", ErrInvalidEntry)
	}
	if strings.TrimSpace(entry.Table.Database) == "" {
		return fmt.Errorf("%w: missing database", ErrInvalidEntry)
	}
	if strings.TrimSpace(entry.Table.Table) == "" {
		return fmt.Errorf("%w: missing table", ErrInvalidEntry)
	}
	if strings.TrimSpace(entry.Column) == "" {
		return fmt.Errorf("%w: missing column", ErrInvalidEntry)
	}
	if strings.TrimSpace(entry.Tag) == "" {
		return fmt.Errorf("%w: missing tag", ErrInvalidEntry)
	}
	return nil
}
