package negotiation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxRounds caps a negotiation when no limit is configured.
const DefaultMaxRounds = 100

// Engine drives a negotiation in synchronous rounds. Each round it flushes
// the messages of the previous round, then steps every participant once.
type Engine struct {
	topic      string
	agents     []Participant
	router     Router
	judge      OutcomeJudge
	maxRounds  int
	parallel   bool
	log        *logrus.Entry
	transcript *Transcript
	OnRound    func(round int)
}

// NewEngine creates a new negotiation engine.
func NewEngine(topic string, agents []Participant, router Router, judge OutcomeJudge, maxRounds int) *Engine {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	ids := make([]string, len(agents))
	for i, a := range agents {
		ids[i] = a.ID()
	}
	return &Engine{
		topic:     topic,
		agents:    agents,
		router:    router,
		judge:     judge,
		maxRounds: maxRounds,
		log:       discardLogger(),
		transcript: &Transcript{
			ID:           uuid.NewString(),
			Topic:        topic,
			Participants: ids,
		},
	}
}

// SetParallel makes every round step the participants concurrently.
func (e *Engine) SetParallel(parallel bool) {
	e.parallel = parallel
}

// SetLogger sets the engine logger.
func (e *Engine) SetLogger(log *logrus.Entry) {
	if log != nil {
		e.log = log
	}
}

// Run executes rounds until every participant is done, the negotiation
// stalls, or the round cap is reached, then asks the judge for the outcome.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if len(e.agents) < 2 {
		return nil, errors.New("negotiation: at least two participants are required")
	}
	e.transcript.StartedAt = time.Now()
	log := e.log.WithField("negotiation", e.transcript.ID)

	stop := StopRoundLimit
	for round := 1; round <= e.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("negotiation: %w", err)
		}
		e.router.SetRound(round)
		delivered := e.router.Flush()

		if err := e.runRound(ctx, round); err != nil {
			return nil, err
		}
		e.transcript.Rounds = round
		log.WithFields(logrus.Fields{"round": round, "delivered": delivered, "queued": e.router.Queued()}).Debug("round complete")
		if e.OnRound != nil {
			e.OnRound(round)
		}

		if e.router.Queued() == 0 {
			stop = StopStalled
			if e.allDone() {
				stop = StopCompleted
			}
			break
		}
	}

	e.transcript.Stop = stop
	e.transcript.Records = e.router.History()
	e.transcript.FinishedAt = time.Now()
	log.WithFields(logrus.Fields{"rounds": e.transcript.Rounds, "stop": stop}).Info("negotiation stopped")

	outcome, err := e.judge.Evaluate(ctx, e.transcript)
	if err != nil {
		return nil, fmt.Errorf("negotiation: outcome evaluation: %w", err)
	}
	return &Result{
		Transcript: e.transcript,
		Outcome:    outcome,
	}, nil
}

func (e *Engine) runRound(ctx context.Context, round int) error {
	if e.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, agent := range e.agents {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				agent.Step()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("negotiation: round %d: %w", round, err)
		}
		return nil
	}

	for _, agent := range e.agents {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("negotiation: round %d: %w", round, err)
		}
		agent.Step()
	}
	return nil
}

func (e *Engine) allDone() bool {
	for _, agent := range e.agents {
		if !agent.IsDone() {
			return false
		}
	}
	return true
}
