package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakesift/lakesift/internal/inspect"
	"github.com/lakesift/lakesift/internal/model"
)

func reviewSession(tags ...string) *inspect.Session {
	proposals := make([]model.Proposal, len(tags))
	for i, tag := range tags {
		proposals[i] = model.Proposal{
			Table:     model.TableReference{Catalog: "prod", Database: "crm", Table: "contacts"},
			Column:    "col" + tag,
			Rule:      "email",
			Tag:       tag,
			Frequency: 1.0,
			Status:    model.ProposalProposed,
		}
	}
	return inspect.NewSession(proposals)
}

func runReview(t *testing.T, session *inspect.Session, input string) string {
	t.Helper()
	output := &bytes.Buffer{}
	prompter := NewReviewPrompter(strings.NewReader(input), output)

	err := prompter.Review(context.Background(), session)
	require.NoError(t, err)
	return output.String()
}

func TestReviewPrompter_AcceptAndReject(t *testing.T) {
	session := reviewSession("dx_email", "dx_fqdn")

	out := runReview(t, session, "a\nr\n")

	proposals := session.Proposals()
	assert.Equal(t, model.ProposalAccepted, proposals[0].Status)
	assert.Equal(t, model.ProposalRejected, proposals[1].Status)
	assert.Contains(t, out, "1 accepted, 1 rejected")
}

func TestReviewPrompter_Retag(t *testing.T) {
	session := reviewSession("dx_email")

	// The first replacement tag is invalid and re-prompted.
	out := runReview(t, session, "t\nBad Tag!\nwork_email\n")

	accepted := session.Accepted()
	require.Len(t, accepted, 1)
	assert.Equal(t, "work_email", accepted[0].Tag)
	assert.Contains(t, out, "invalid tag")
}

func TestReviewPrompter_AcceptEverything(t *testing.T) {
	session := reviewSession("dx_email", "dx_fqdn", "dx_uuid")

	out := runReview(t, session, "e\n")

	assert.Len(t, session.Accepted(), 3)
	assert.Contains(t, out, "3 accepted, 0 rejected")
}

func TestReviewPrompter_QuitLeavesRestUndecided(t *testing.T) {
	session := reviewSession("dx_email", "dx_fqdn")

	out := runReview(t, session, "a\nq\n")

	assert.Len(t, session.Accepted(), 1)
	assert.Contains(t, out, "1 undecided")
}

func TestReviewPrompter_InvalidChoiceReprompts(t *testing.T) {
	session := reviewSession("dx_email")

	out := runReview(t, session, "x\na\n")

	assert.Len(t, session.Accepted(), 1)
	assert.Contains(t, out, "Invalid choice")
}

func TestReviewPrompter_EmptySession(t *testing.T) {
	out := runReview(t, reviewSession(), "")

	assert.Contains(t, out, "no proposals to review")
}

func TestReviewPrompter_CanceledContext(t *testing.T) {
	session := reviewSession("dx_email")
	prompter := NewReviewPrompter(strings.NewReader(""), &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := prompter.Review(ctx, session)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, session.Accepted())
}

func TestReviewPrompter_TruncatedInput(t *testing.T) {
	session := reviewSession("dx_email", "dx_fqdn")
	prompter := NewReviewPrompter(strings.NewReader("a\n"), &bytes.Buffer{})

	err := prompter.Review(context.Background(), session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input terminated")
	assert.Len(t, session.Accepted(), 1, "decisions before the EOF survive")
}
