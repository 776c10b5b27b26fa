package model

import "testing"

func TestScanRecord_Frequency(t *testing.T) {
	tests := []struct {
		name    string
		matched int
		sampled int
		want    float64
	}{
		{name: "full match", matched: 100, sampled: 100, want: 1.0},
		{name: "partial match", matched: 95, sampled: 100, want: 0.95},
		{name: "no match", matched: 0, sampled: 100, want: 0},
		{name: "empty sample never divides by zero", matched: 0, sampled: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ScanRecord{MatchedCount: tt.matched, SampledCount: tt.sampled}
			if got := rec.Frequency(); got != tt.want {
				t.Errorf("Frequency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScanResult_Sort(t *testing.T) {
	refA := TableReference{Catalog: "prod", Database: "crm", Table: "accounts"}
	refB := TableReference{Catalog: "prod", Database: "crm", Table: "contacts"}

	// Built in reverse completion order on purpose.
	result := &ScanResult{
		Tables: []TableScan{
			{Table: refB, Records: []ScanRecord{
				{Table: refB, Column: "email", Rule: "email"},
				{Table: refB, Column: "address", Rule: "email"},
			}},
			{Table: refA, Records: []ScanRecord{
				{Table: refA, Column: "owner_email", Rule: "email"},
			}},
		},
		Skipped: []ScanSkip{
			{Table: refB, Reason: SkipReasonTimeout},
			{Table: refA, Reason: SkipReasonNoStringColumns},
		},
	}
	result.Sort()

	if result.Tables[0].Table != refA {
		t.Errorf("first table = %v, want %v", result.Tables[0].Table, refA)
	}
	if result.Tables[1].Records[0].Column != "address" {
		t.Errorf("records not sorted by column: got %q first", result.Tables[1].Records[0].Column)
	}
	if result.Skipped[0].Table != refA {
		t.Errorf("skips not sorted: got %v first", result.Skipped[0].Table)
	}
}

func TestScanResult_Records(t *testing.T) {
	refA := TableReference{Catalog: "c", Database: "d", Table: "a"}
	refB := TableReference{Catalog: "c", Database: "d", Table: "b"}

	result := &ScanResult{
		Tables: []TableScan{
			{Table: refA, Records: []ScanRecord{{Table: refA, Column: "x", Rule: "email"}}},
			{Table: refB, Records: []ScanRecord{
				{Table: refB, Column: "y", Rule: "email"},
				{Table: refB, Column: "y", Rule: "ip_v4"},
			}},
		},
	}

	if got := result.RecordCount(); got != 3 {
		t.Errorf("RecordCount() = %d, want 3", got)
	}
	if got := len(result.Records()); got != 3 {
		t.Errorf("len(Records()) = %d, want 3", got)
	}
}
