package scan

import (
	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/rules"
)

// Scanner applies a rule set to sampled column values.
type Scanner struct {
	rules     []*rules.Rule
	tagPrefix string
}

// NewScanner creates a scanner for the given rules. Record tags derive
// from rule names with the configured prefix.
func NewScanner(ruleSet []*rules.Rule, tagPrefix string) *Scanner {
	return &Scanner{rules: ruleSet, tagPrefix: tagPrefix}
}

// Scan produces one record per (column, rule) pair. Every sampled
// column yields a record for every rule, including frequency zero:
// thresholds are applied downstream, not here. An empty sample keeps
// its columns and reports zero counts.
func (s *Scanner) Scan(sample model.RowSample) []model.ScanRecord {
	records := make([]model.ScanRecord, 0, len(sample.Columns)*len(s.rules))

	for i, col := range sample.Columns {
		values := sample.ColumnValues(i)
		for _, rule := range s.rules {
			matched := 0
			for _, value := range values {
				if rule.Match(value) {
					matched++
				}
			}
			records = append(records, model.ScanRecord{
				Table:        sample.Table,
				Column:       col.Name,
				Rule:         rule.Name,
				Tag:          rule.EffectiveTag(s.tagPrefix),
				MatchedCount: matched,
				SampledCount: len(values),
			})
		}
	}

	return records
}
