package model

import "time"

// TableStats holds maintenance statistics for a table, as far as the
// owning warehouse exposes them.
type TableStats struct {
	Table          TableReference
	RowCount       int64
	SizeBytes      int64
	ColumnCount    int
	LastMaintained *time.Time
}
