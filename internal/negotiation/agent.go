// Package negotiation runs bilateral argumentation-based negotiations: each
// Agent reacts to the performatives it receives, and the Engine drives the
// agents in synchronous rounds.
package negotiation

import (
	"github.com/sirupsen/logrus"

	"github.com/lorenzotomasdiez/argue/internal/argument"
	"github.com/lorenzotomasdiez/argue/internal/logging"
	"github.com/lorenzotomasdiez/argue/internal/message"
	"github.com/lorenzotomasdiez/argue/internal/preferences"
)

// DefaultThreshold is the top percent of items an agent accepts outright.
const DefaultThreshold = 10.0

// Transport is the messaging capability an agent needs.
type Transport interface {
	Deliver(msg message.Message) error
	Drain(id string) []message.Message
	AgentIDs() []string
}

// ItemState is an agent's view of one item during a negotiation.
type ItemState int

const (
	NotProposed ItemState = iota
	Proposed
	AwaitingReply
	Accepted
	Rejected
	Committed
	Exhausted
)

var itemStateNames = [...]string{
	NotProposed:   "not_proposed",
	Proposed:      "proposed",
	AwaitingReply: "awaiting_reply",
	Accepted:      "accepted",
	Rejected:      "rejected",
	Committed:     "committed",
	Exhausted:     "exhausted",
}

func (s ItemState) String() string {
	if s >= 0 && int(s) < len(itemStateNames) {
		return itemStateNames[s]
	}
	return "unknown"
}

// pending reports whether the agent still expects a commitment on the item.
func (s ItemState) pending() bool {
	return s == Proposed || s == AwaitingReply || s == Accepted
}

// AgentConfig describes one negotiating agent.
type AgentConfig struct {
	ID          string
	Preferences *preferences.Preferences
	// Initiator agents open the negotiation on their first idle step.
	Initiator bool
	// Threshold is the top percent of its own items an agent accepts
	// without asking why. Zero means DefaultThreshold.
	Threshold float64
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithLogger sets the logger the agent writes its decisions to.
func WithLogger(log *logrus.Entry) AgentOption {
	return func(a *Agent) {
		if log != nil {
			a.log = log
		}
	}
}

// WithCounterpartPicker sets how the agent chooses whom to propose to when
// nobody is waiting on it. pick receives the other agents' ids.
func WithCounterpartPicker(pick func(candidates []string) string) AgentOption {
	return func(a *Agent) {
		if pick != nil {
			a.pick = pick
		}
	}
}

// Agent negotiates over items using its own preferences. Only the agent
// mutates its preferences, ledger and item states.
type Agent struct {
	id        string
	prefs     *preferences.Preferences
	transport Transport
	generator *argument.Generator
	resolver  *argument.Resolver
	ledger    *argument.Ledger
	initiator bool
	threshold float64
	pick      func([]string) string
	log       *logrus.Entry

	states   map[string]ItemState
	proposed map[string]bool
	opened   bool
	done     bool
}

// NewAgent creates an agent talking through transport.
func NewAgent(cfg AgentConfig, transport Transport, opts ...AgentOption) *Agent {
	prefs := cfg.Preferences
	if prefs == nil {
		prefs = preferences.New()
	}
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	ledger := argument.NewLedger()
	a := &Agent{
		id:        cfg.ID,
		prefs:     prefs,
		transport: transport,
		generator: argument.NewGenerator(prefs),
		resolver:  argument.NewResolver(prefs, ledger),
		ledger:    ledger,
		initiator: cfg.Initiator,
		threshold: threshold,
		pick:      firstCandidate,
		log:       discardLogger(),
		states:    make(map[string]ItemState),
		proposed:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithField("agent", a.id)
	return a
}

func firstCandidate(candidates []string) string {
	return candidates[0]
}

func discardLogger() *logrus.Entry {
	return logrus.NewEntry(logging.Discard())
}

// ID returns the agent id.
func (a *Agent) ID() string { return a.id }

// IsDone reports whether the agent has nothing left to do.
func (a *Agent) IsDone() bool { return a.done }

// Preferences returns the agent's preferences.
func (a *Agent) Preferences() *preferences.Preferences { return a.prefs }

// State returns the agent's view of item.
func (a *Agent) State(item preferences.Item) ItemState {
	return a.states[item.Name]
}

// Arguments returns how many distinct arguments about item the agent has
// sent or received.
func (a *Agent) Arguments(item preferences.Item) int {
	return a.ledger.Count(item)
}

// Step processes every message delivered since the previous step. An
// initiator with an empty mailbox opens the negotiation once.
func (a *Agent) Step() {
	msgs := a.transport.Drain(a.id)
	if a.done {
		for _, msg := range msgs {
			a.fields(msg).Debug("ignoring message, negotiation finished")
		}
		return
	}

	if len(msgs) == 0 {
		if a.initiator && !a.opened {
			a.opened = true
			a.proposeNext("")
		}
		return
	}

	a.opened = true
	for _, msg := range msgs {
		if a.done {
			a.fields(msg).Debug("ignoring message, negotiation finished")
			continue
		}
		a.handle(msg)
	}
}

func (a *Agent) handle(msg message.Message) {
	switch msg.Performative {
	case message.Propose:
		a.onPropose(msg)
	case message.AskWhy:
		a.onAskWhy(msg)
	case message.Argue:
		a.onArgue(msg)
	case message.Accept:
		a.onAccept(msg)
	case message.Reject:
		a.onReject(msg)
	case message.Commit:
		a.onCommit(msg)
	default:
		a.fields(msg).Warn("unsupported performative, message dropped")
	}
}

func (a *Agent) onPropose(msg message.Message) {
	if a.prefs.IsAmongTopPercent(msg.Item, a.threshold, nil) {
		a.states[msg.Item.Name] = Accepted
		a.send(message.New(a.id, msg.Sender, message.Accept, msg.Item))
		return
	}
	a.states[msg.Item.Name] = AwaitingReply
	a.send(message.New(a.id, msg.Sender, message.AskWhy, msg.Item))
}

func (a *Agent) onAskWhy(msg message.Message) {
	arg, ok := a.generator.Strongest(msg.Item, true, a.ledger)
	if ok {
		a.ledger.Record(arg)
		a.states[msg.Item.Name] = AwaitingReply
		a.send(message.NewArgue(a.id, msg.Sender, arg))
		return
	}
	a.fields(msg).Info("no supporting argument left")
	a.states[msg.Item.Name] = Exhausted
	a.proposeNext(msg.Sender)
}

func (a *Agent) onArgue(msg message.Message) {
	if msg.Argument == nil {
		a.fields(msg).Warn("argue message without argument, dropped")
		return
	}
	received := *msg.Argument
	a.ledger.Record(received)

	if rebuttal, ok := a.resolver.Rebut(received); ok {
		a.ledger.Record(rebuttal)
		if !rebuttal.Item.Is(received.Item) {
			a.redirect(received.Item, rebuttal.Item)
		}
		a.states[rebuttal.Item.Name] = AwaitingReply
		a.send(message.NewArgue(a.id, msg.Sender, rebuttal))
		return
	}

	if received.Decision {
		a.states[received.Item.Name] = Accepted
		a.send(message.New(a.id, msg.Sender, message.Accept, received.Item))
		return
	}
	a.prefs.Remove(received.Item)
	a.states[received.Item.Name] = Rejected
	a.send(message.New(a.id, msg.Sender, message.Reject, received.Item))
}

// redirect moves the discussion from one item to a better alternative. The
// original item keeps its evaluations, and if this agent proposed it, it
// becomes proposable again.
func (a *Agent) redirect(from, to preferences.Item) {
	a.log.WithFields(logrus.Fields{"item": from.Name, "alternative": to.Name}).Debug("redirecting to alternative")
	if a.proposed[from.Name] {
		delete(a.proposed, from.Name)
		a.states[from.Name] = NotProposed
	}
}

func (a *Agent) onAccept(msg message.Message) {
	a.send(message.New(a.id, msg.Sender, message.Commit, msg.Item))
	a.prefs.Remove(msg.Item)
	a.states[msg.Item.Name] = Committed
	a.finish("committed")
}

func (a *Agent) onReject(msg message.Message) {
	a.prefs.Remove(msg.Item)
	a.states[msg.Item.Name] = Rejected
	a.proposeNext(msg.Sender)
}

func (a *Agent) onCommit(msg message.Message) {
	if !a.states[msg.Item.Name].pending() {
		a.fields(msg).Debug("commit for an item not pending, ignored")
		return
	}
	a.send(message.New(a.id, msg.Sender, message.Commit, msg.Item))
	a.prefs.Remove(msg.Item)
	a.states[msg.Item.Name] = Committed
	a.finish("committed")
}

// proposeNext proposes the most preferred item still open to proposal, to
// the given counterpart or a picked one. Without such an item the agent is
// done.
func (a *Agent) proposeNext(to string) {
	known := a.prefs.Items()
	candidates := make([]preferences.Item, 0, len(known))
	for _, item := range known {
		switch a.states[item.Name] {
		case Exhausted, Committed, Rejected:
			continue
		}
		candidates = append(candidates, item)
	}

	item, ok := a.prefs.MostPreferred(candidates)
	if !ok {
		a.finish("no item left to propose")
		return
	}
	if to == "" {
		to = a.counterpart()
	}
	if to == "" {
		a.finish("no counterpart")
		return
	}
	a.states[item.Name] = Proposed
	a.proposed[item.Name] = true
	a.send(message.New(a.id, to, message.Propose, item))
}

func (a *Agent) counterpart() string {
	var others []string
	for _, id := range a.transport.AgentIDs() {
		if id != a.id {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return ""
	}
	return a.pick(others)
}

func (a *Agent) finish(reason string) {
	a.done = true
	a.log.WithField("reason", reason).Info("negotiation finished")
}

func (a *Agent) send(msg message.Message) {
	log := a.fields(msg)
	if msg.Argument != nil {
		log = log.WithField("argument", msg.Argument.String())
	}
	if err := a.transport.Deliver(msg); err != nil {
		log.WithError(err).Error("send failed")
		return
	}
	log.Debug("sent")
}

func (a *Agent) fields(msg message.Message) *logrus.Entry {
	return a.log.WithFields(logrus.Fields{
		"from":         msg.Sender,
		"to":           msg.Receiver,
		"performative": msg.Performative.String(),
		"item":         msg.Item.Name,
	})
}
