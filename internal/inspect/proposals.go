// Package inspect turns scan results into reviewable tag proposals and
// publishes the accepted ones.
package inspect

import (
	"sort"

	"github.com/lakesift/lakesift/internal/model"
)

// Propose extracts tag proposals from a scan result: one per record
// whose match frequency reaches the threshold. Several rules may
// propose distinct tags for the same column; nothing is deduplicated
// here. The returned slice is sorted by table, column, tag.
func Propose(result *model.ScanResult, threshold float64) []model.Proposal {
	var proposals []model.Proposal
	for _, rec := range result.Records() {
		if rec.Frequency() < threshold {
			continue
		}
		proposals = append(proposals, model.Proposal{
			Table:     rec.Table,
			Column:    rec.Column,
			Rule:      rec.Rule,
			Tag:       rec.Tag,
			Frequency: rec.Frequency(),
			Status:    model.ProposalProposed,
		})
	}

	sort.Slice(proposals, func(i, j int) bool {
		a, b := proposals[i], proposals[j]
		if a.Table != b.Table {
			return a.Table.Less(b.Table)
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Tag < b.Tag
	})

	return proposals
}
