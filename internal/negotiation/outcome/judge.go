// Package outcome reads a finished negotiation transcript and reports
// whether the agents committed to an item.
package outcome

import (
	"context"
	"fmt"
	"slices"

	"github.com/lorenzotomasdiez/argue/internal/message"
	"github.com/lorenzotomasdiez/argue/internal/negotiation"
)

// Judge derives outcomes from the delivery history.
type Judge struct{}

// NewJudge creates a new outcome Judge.
func NewJudge() *Judge {
	return &Judge{}
}

// Evaluate implements negotiation.OutcomeJudge. An agreement is the first
// item committed by two different agents; accepted and rejected items are
// listed in the order they first appeared.
func (j *Judge) Evaluate(ctx context.Context, transcript *negotiation.Transcript) (*negotiation.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("outcome: %w", err)
	}
	if transcript == nil {
		return nil, fmt.Errorf("outcome: nil transcript")
	}

	out := &negotiation.Outcome{
		Rounds: transcript.Rounds,
		Stop:   transcript.Stop,
	}
	committers := make(map[string][]string)
	for _, rec := range transcript.Records {
		switch rec.Performative {
		case message.Argue.String():
			out.Arguments++
		case message.Accept.String():
			out.Accepted = appendUnique(out.Accepted, rec.Item)
		case message.Reject.String():
			out.Rejected = appendUnique(out.Rejected, rec.Item)
		case message.Commit.String():
			if out.Agreed {
				continue
			}
			committers[rec.Item] = appendUnique(committers[rec.Item], rec.Sender)
			if len(committers[rec.Item]) >= 2 {
				out.Agreed = true
				out.Item = rec.Item
				out.Parties = committers[rec.Item]
			}
		}
	}
	return out, nil
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
