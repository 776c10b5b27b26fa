package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lakesift/lakesift/internal/inspect"
	"github.com/lakesift/lakesift/internal/model"
)

// ReviewPrompter walks the user through a session's tag proposals,
// one decision per proposal. Decisions mutate the session; the caller
// publishes the accepted ones afterwards.
type ReviewPrompter struct {
	reader *LineReader
	writer io.Writer
}

// NewReviewPrompter creates a review prompter over the given streams.
func NewReviewPrompter(reader io.Reader, writer io.Writer) *ReviewPrompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &ReviewPrompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// Review prompts for a decision on every proposal in the session and
// prints a summary. Quitting early leaves the remaining proposals
// undecided, which keeps them out of the publish.
func (p *ReviewPrompter) Review(ctx context.Context, session *inspect.Session) error {
	proposals := session.Proposals()
	if len(proposals) == 0 {
		_, err := fmt.Fprintln(p.writer, FormatInfo("Nothing cleared the threshold; no proposals to review."))
		return err
	}

	for i, proposal := range proposals {
		content := p.formatProposal(proposal, i+1, len(proposals))
		if _, err := fmt.Fprintln(p.writer, RenderBox("Proposal Review", content)); err != nil {
			return fmt.Errorf("failed to write proposal box: %w", err)
		}

		options := "  [A] Accept tag\n" +
			"  [R] Reject\n" +
			"  [T] Accept with a different tag\n" +
			"  [E] Accept everything remaining\n" +
			"  [Q] Stop reviewing\n"
		if _, err := fmt.Fprintln(p.writer, options); err != nil {
			return fmt.Errorf("failed to write options: %w", err)
		}

		choice, err := p.promptChoice(ctx, "Choice [A/R/T/E/Q]", []string{"a", "r", "t", "e", "q"})
		if err != nil {
			return err
		}

		switch choice {
		case "a":
			if err := session.Accept(i); err != nil {
				return err
			}
		case "r":
			if err := session.Reject(i); err != nil {
				return err
			}
		case "t":
			if err := p.retag(ctx, session, i); err != nil {
				return err
			}
		case "e":
			for j := i; j < len(proposals); j++ {
				if err := session.Accept(j); err != nil {
					return err
				}
			}
			return p.showSummary(session)
		case "q":
			return p.showSummary(session)
		}
	}

	return p.showSummary(session)
}

func (p *ReviewPrompter) formatProposal(proposal model.Proposal, index, total int) string {
	header := TitleStyle.Render(fmt.Sprintf("%s.%s", proposal.Table, proposal.Column))

	details := fmt.Sprintf("%s Proposal %d of %d:\n", InfoIcon, index, total) +
		fmt.Sprintf("  Table: %s\n", proposal.Table) +
		fmt.Sprintf("  Column: %s\n", proposal.Column) +
		fmt.Sprintf("  Rule: %s\n", proposal.Rule) +
		fmt.Sprintf("  Match rate: %.1f%%", proposal.Frequency*100)

	suggestion := fmt.Sprintf("\n\n%s Suggested tag: %s",
		TagIcon, SuccessStyle.Render(proposal.Tag))

	return header + "\n\n" + details + suggestion
}

// retag asks for a replacement tag, then accepts the proposal with it.
func (p *ReviewPrompter) retag(ctx context.Context, session *inspect.Session, i int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := fmt.Fprint(p.writer, FormatPrompt("New tag")); err != nil {
			return fmt.Errorf("failed to write tag prompt: %w", err)
		}

		tag, err := p.readLine(ctx)
		if err != nil {
			return err
		}

		if overrideErr := session.OverrideTag(i, tag); overrideErr != nil {
			if _, err := fmt.Fprintln(p.writer, FormatError(overrideErr.Error())); err != nil {
				return fmt.Errorf("failed to write tag error: %w", err)
			}
			continue
		}
		return session.Accept(i)
	}
}

func (p *ReviewPrompter) showSummary(session *inspect.Session) error {
	var accepted, rejected int
	for _, proposal := range session.Proposals() {
		switch proposal.Status {
		case model.ProposalAccepted:
			accepted++
		case model.ProposalRejected:
			rejected++
		case model.ProposalProposed:
		}
	}
	undecided := session.Len() - accepted - rejected

	summary := fmt.Sprintf("Review complete: %d accepted, %d rejected", accepted, rejected)
	if undecided > 0 {
		summary += fmt.Sprintf(", %d undecided", undecided)
	}

	if _, err := fmt.Fprintln(p.writer, FormatSuccess(summary)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func (p *ReviewPrompter) promptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			return "", fmt.Errorf("failed to write error message: %w", err)
		}
	}
}

func (p *ReviewPrompter) readLine(ctx context.Context) (string, error) {
	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, ErrInputCanceled) {
			return "", ctx.Err()
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("input terminated")
		}
		return "", err
	}
	return line, nil
}
