package model

import (
	"fmt"
	"time"
)

// TagEntry is a published (table, column, tag) association.
type TagEntry struct {
	Table       TableReference
	Column      string
	Tag         string
	PublishedAt time.Time
}

// Key uniquely identifies the entry independent of publish time.
func (e TagEntry) Key() string {
	return fmt.Sprintf("%s.%s:%s", e.Table, e.Column, e.Tag)
}

// PublishResult summarizes a publish operation. Skipped counts entries
// that were already present, so re-publishing is observable but never
// an error.
type PublishResult struct {
	Inserted int
	Skipped  int
}
