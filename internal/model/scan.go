package model

import (
	"sort"
	"time"
)

// Skip reasons recorded for tables a scan could not classify.
const (
	SkipReasonTimeout         = "timeout"
	SkipReasonNoStringColumns = "no string-like columns"
)

// ScanRecord is the classification outcome for one (column, rule) pair.
type ScanRecord struct {
	Table        TableReference
	Column       string
	Rule         string
	Tag          string
	MatchedCount int
	SampledCount int
}

// Frequency returns the fraction of sampled values the rule matched.
// A column with no sampled values has frequency zero.
func (r ScanRecord) Frequency() float64 {
	if r.SampledCount == 0 {
		return 0
	}
	return float64(r.MatchedCount) / float64(r.SampledCount)
}

// ScanSkip records a table the scan could not process. Skips are data,
// not errors: the rest of the batch proceeds.
type ScanSkip struct {
	Table  TableReference
	Reason string
}

// TableScan aggregates the records produced for a single table.
type TableScan struct {
	Table   TableReference
	Records []ScanRecord
}

// ScanResult is the aggregated outcome of a scan run. Tables are sorted
// by reference, so results are identical regardless of the order in
// which workers finished.
type ScanResult struct {
	RunID      string
	StartedAt  time.Time
	Elapsed    time.Duration
	Tables     []TableScan
	Skipped    []ScanSkip
	Statements []string // populated by dry runs only
}

// Sort orders tables, their records, and skips deterministically.
func (r *ScanResult) Sort() {
	sort.Slice(r.Tables, func(i, j int) bool {
		return r.Tables[i].Table.Less(r.Tables[j].Table)
	})
	for i := range r.Tables {
		records := r.Tables[i].Records
		sort.Slice(records, func(a, b int) bool {
			if records[a].Column != records[b].Column {
				return records[a].Column < records[b].Column
			}
			return records[a].Rule < records[b].Rule
		})
	}
	sort.Slice(r.Skipped, func(i, j int) bool {
		return r.Skipped[i].Table.Less(r.Skipped[j].Table)
	})
}

// Records returns all records across tables in sorted order.
func (r *ScanResult) Records() []ScanRecord {
	var records []ScanRecord
	for _, t := range r.Tables {
		records = append(records, t.Records...)
	}
	return records
}

// RecordCount returns the total number of (column, rule) records.
func (r *ScanResult) RecordCount() int {
	n := 0
	for _, t := range r.Tables {
		n += len(t.Records)
	}
	return n
}
