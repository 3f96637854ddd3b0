package outcome

import (
	"context"
	"testing"

	"github.com/lorenzotomasdiez/argue/internal/message"
	"github.com/lorenzotomasdiez/argue/internal/negotiation"
)

func rec(round int, from, to string, p message.Performative, item string) message.Record {
	return message.Record{Round: round, Sender: from, Receiver: to, Performative: p.String(), Item: item}
}

func TestJudgeDetectsAgreement(t *testing.T) {
	transcript := &negotiation.Transcript{
		Rounds: 5,
		Stop:   negotiation.StopCompleted,
		Records: []message.Record{
			rec(1, "A1", "A2", message.Propose, "X"),
			rec(2, "A2", "A1", message.Accept, "X"),
			rec(3, "A1", "A2", message.Commit, "X"),
			rec(4, "A2", "A1", message.Commit, "X"),
		},
	}

	result, err := NewJudge().Evaluate(context.Background(), transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Agreed {
		t.Fatal("expected agreement")
	}
	if result.Item != "X" {
		t.Errorf("Item = %q, want %q", result.Item, "X")
	}
	if len(result.Parties) != 2 || result.Parties[0] != "A1" || result.Parties[1] != "A2" {
		t.Errorf("Parties = %v, want [A1 A2]", result.Parties)
	}
	if len(result.Accepted) != 1 || result.Accepted[0] != "X" {
		t.Errorf("Accepted = %v, want [X]", result.Accepted)
	}
	if result.Rounds != 5 {
		t.Errorf("Rounds = %d, want 5", result.Rounds)
	}
	if result.Stop != negotiation.StopCompleted {
		t.Errorf("Stop = %q, want %q", result.Stop, negotiation.StopCompleted)
	}
}

func TestJudgeSingleCommitIsNotAgreement(t *testing.T) {
	transcript := &negotiation.Transcript{
		Rounds: 3,
		Stop:   negotiation.StopRoundLimit,
		Records: []message.Record{
			rec(1, "A1", "A2", message.Propose, "X"),
			rec(2, "A2", "A1", message.Accept, "X"),
			rec(3, "A1", "A2", message.Commit, "X"),
		},
	}

	result, err := NewJudge().Evaluate(context.Background(), transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Agreed {
		t.Error("one commit must not count as agreement")
	}
	if result.Item != "" {
		t.Errorf("Item = %q, want empty", result.Item)
	}
}

func TestJudgeCountsArgumentsAndRejections(t *testing.T) {
	argue := rec(3, "A1", "A2", message.Argue, "item1")
	argue.Decision = "pro"
	transcript := &negotiation.Transcript{
		Records: []message.Record{
			rec(1, "A1", "A2", message.Propose, "item1"),
			rec(2, "A2", "A1", message.AskWhy, "item1"),
			argue,
			argue,
			rec(5, "A1", "A2", message.Reject, "item1"),
			rec(6, "A2", "A1", message.Reject, "item1"),
		},
	}

	result, err := NewJudge().Evaluate(context.Background(), transcript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Arguments != 2 {
		t.Errorf("Arguments = %d, want 2", result.Arguments)
	}
	if len(result.Rejected) != 1 || result.Rejected[0] != "item1" {
		t.Errorf("Rejected = %v, want [item1]", result.Rejected)
	}
}

func TestJudgeRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewJudge().Evaluate(ctx, &negotiation.Transcript{}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestJudgeNilTranscript(t *testing.T) {
	if _, err := NewJudge().Evaluate(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil transcript")
	}
}
