package model

// ProposalStatus tracks a proposal through the inspection lifecycle.
type ProposalStatus string

// Proposal status constants.
const (
	ProposalProposed ProposalStatus = "PROPOSED"
	ProposalAccepted ProposalStatus = "ACCEPTED"
	ProposalRejected ProposalStatus = "REJECTED"
)

// Proposal is a tag suggestion for a column whose match frequency
// cleared the classification threshold.
type Proposal struct {
	Table     TableReference
	Column    string
	Rule      string
	Tag       string
	Frequency float64
	Status    ProposalStatus
}
