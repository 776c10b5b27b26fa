package inspect

import (
	"fmt"

	"github.com/lakesift/lakesift/internal/model"
	"github.com/lakesift/lakesift/internal/rules"
)

// Session owns one batch of proposals under review. Decisions stay
// local until the session is published; starting a new scan simply
// replaces the session. Sessions are a single-reviewer workflow and
// are not safe for concurrent use.
type Session struct {
	proposals []model.Proposal
}

// NewSession starts a review over a copy of the proposals.
func NewSession(proposals []model.Proposal) *Session {
	owned := make([]model.Proposal, len(proposals))
	copy(owned, proposals)
	return &Session{proposals: owned}
}

// Proposals returns a copy of the current batch.
func (s *Session) Proposals() []model.Proposal {
	out := make([]model.Proposal, len(s.proposals))
	copy(out, s.proposals)
	return out
}

// Len returns the number of proposals in the batch.
func (s *Session) Len() int {
	return len(s.proposals)
}

// Accept marks the proposal at index i as accepted.
func (s *Session) Accept(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.proposals[i].Status = model.ProposalAccepted
	return nil
}

// Reject marks the proposal at index i as rejected.
func (s *Session) Reject(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.proposals[i].Status = model.ProposalRejected
	return nil
}

// AcceptAll accepts every proposal in the batch.
func (s *Session) AcceptAll() {
	for i := range s.proposals {
		s.proposals[i].Status = model.ProposalAccepted
	}
}

// OverrideTag replaces the tag of the proposal at index i. The status
// is untouched: an overridden proposal still needs accepting.
func (s *Session) OverrideTag(i int, tag string) error {
	if err := s.check(i); err != nil {
		return err
	}
	if !rules.IsValidName(tag) {
		return fmt.Errorf("invalid tag %q: must match [a-z][a-z0-9_]*", tag)
	}
	s.proposals[i].Tag = tag
	return nil
}

// Accepted returns the accepted proposals.
func (s *Session) Accepted() []model.Proposal {
	var accepted []model.Proposal
	for _, p := range s.proposals {
		if p.Status == model.ProposalAccepted {
			accepted = append(accepted, p)
		}
	}
	return accepted
}

func (s *Session) check(i int) error {
	if i < 0 || i >= len(s.proposals) {
		return fmt.Errorf("proposal index %d out of range [0,%d)", i, len(s.proposals))
	}
	return nil
}
