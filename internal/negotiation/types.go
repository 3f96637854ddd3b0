package negotiation

import (
	"context"
	"time"

	"github.com/lorenzotomasdiez/argue/internal/message"
)

// Participant is what the engine drives once per round.
type Participant interface {
	ID() string
	Step()
	IsDone() bool
}

// Router is the part of the delivery service the engine needs between
// rounds.
type Router interface {
	SetRound(round int)
	Flush() int
	Queued() int
	History() []message.Record
}

// StopReason tells why the engine stopped.
type StopReason string

const (
	// StopCompleted means every participant finished.
	StopCompleted StopReason = "completed"
	// StopStalled means a round ended with nothing left to deliver while some
	// participant was still waiting.
	StopStalled StopReason = "stalled"
	// StopRoundLimit means the round cap was reached.
	StopRoundLimit StopReason = "round_limit"
)

// Transcript holds the full record of one negotiation.
type Transcript struct {
	ID           string           `json:"id"`
	Topic        string           `json:"topic"`
	Participants []string         `json:"participants"`
	Records      []message.Record `json:"records"`
	Rounds       int              `json:"rounds"`
	Stop         StopReason       `json:"stop"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
}

// Outcome summarizes how a negotiation ended.
type Outcome struct {
	Agreed    bool       `json:"agreed"`
	Item      string     `json:"item,omitempty"`
	Parties   []string   `json:"parties,omitempty"`
	Accepted  []string   `json:"accepted,omitempty"`
	Rejected  []string   `json:"rejected,omitempty"`
	Arguments int        `json:"arguments"`
	Rounds    int        `json:"rounds"`
	Stop      StopReason `json:"stop"`
}

// OutcomeJudge derives the Outcome of a finished transcript.
type OutcomeJudge interface {
	Evaluate(ctx context.Context, transcript *Transcript) (*Outcome, error)
}

// Result holds the complete output of a negotiation run.
type Result struct {
	Transcript *Transcript
	Outcome    *Outcome
}
