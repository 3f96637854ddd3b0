package message

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownAgent is returned when a message names an unregistered receiver.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrDuplicateAgent is returned when an agent id is registered twice.
	ErrDuplicateAgent = errors.New("agent already registered")
)

// Option configures a Service.
type Option func(*Service)

// WithObserver calls fn for every delivered message, after the service lock
// is released.
func WithObserver(fn func(Record)) Option {
	return func(s *Service) {
		s.observers = append(s.observers, fn)
	}
}

// Service routes messages between registered agents in synchronous rounds.
// Messages delivered during a round sit in an outbox until Flush moves them
// to the receivers' inboxes, so no agent reads a message sent in the same
// round.
type Service struct {
	mu        sync.Mutex
	order     []string
	inboxes   map[string][]Message
	outbox    []Message
	history   []Record
	round     int
	observers []func(Record)
}

// NewService creates an empty Service.
func NewService(opts ...Option) *Service {
	s := &Service{inboxes: make(map[string][]Message)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds an agent mailbox.
func (s *Service) Register(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" || id == Broadcast {
		return fmt.Errorf("message: invalid agent id %q", id)
	}
	if _, ok := s.inboxes[id]; ok {
		return fmt.Errorf("message: %w: %s", ErrDuplicateAgent, id)
	}
	s.inboxes[id] = nil
	s.order = append(s.order, id)
	return nil
}

// AgentIDs returns the registered agents in registration order.
func (s *Service) AgentIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

// Deliver queues msg for the next Flush. A broadcast is copied to every
// registered agent except the sender. Every copy is appended to the history.
func (s *Service) Deliver(msg Message) error {
	s.mu.Lock()

	var copies []Message
	if msg.IsBroadcast() {
		for _, id := range s.order {
			if id == msg.Sender {
				continue
			}
			c := msg
			c.Receiver = id
			copies = append(copies, c)
		}
	} else {
		if _, ok := s.inboxes[msg.Receiver]; !ok {
			s.mu.Unlock()
			return fmt.Errorf("message: deliver %s from %s: %w: %s", msg.Performative, msg.Sender, ErrUnknownAgent, msg.Receiver)
		}
		copies = []Message{msg}
	}

	records := make([]Record, 0, len(copies))
	for _, c := range copies {
		s.outbox = append(s.outbox, c)
		rec := NewRecord(s.round, c)
		s.history = append(s.history, rec)
		records = append(records, rec)
	}
	observers := s.observers
	s.mu.Unlock()

	for _, rec := range records {
		for _, fn := range observers {
			fn(rec)
		}
	}
	return nil
}

// Flush moves every queued message into its receiver's inbox, preserving
// send order, and returns how many were moved.
func (s *Service) Flush() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.outbox)
	for _, msg := range s.outbox {
		s.inboxes[msg.Receiver] = append(s.inboxes[msg.Receiver], msg)
	}
	s.outbox = nil
	return n
}

// Drain returns and clears the inbox of id.
func (s *Service) Drain(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.inboxes[id]
	if _, ok := s.inboxes[id]; ok {
		s.inboxes[id] = nil
	}
	return msgs
}

// Queued returns how many messages wait for the next Flush.
func (s *Service) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outbox)
}

// Pending returns how many messages are queued or sitting undrained in an
// inbox.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.outbox)
	for _, inbox := range s.inboxes {
		n += len(inbox)
	}
	return n
}

// History returns a copy of every delivery so far.
func (s *Service) History() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.history...)
}

// Round returns the round stamped on new history records.
func (s *Service) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// SetRound sets the round stamped on new history records.
func (s *Service) SetRound(round int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.round = round
}
