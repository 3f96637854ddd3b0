// Package message carries the performatives agents exchange and the
// round-based delivery service that routes them.
package message

import (
	"fmt"
	"strings"
)

// Performative is the speech-act tag of a message.
type Performative int

const (
	Propose Performative = iota + 1
	Accept
	Reject
	AskWhy
	Argue
	Commit
)

var performativeNames = map[Performative]string{
	Propose: "PROPOSE",
	Accept:  "ACCEPT",
	Reject:  "REJECT",
	AskWhy:  "ASK_WHY",
	Argue:   "ARGUE",
	Commit:  "COMMIT",
}

func (p Performative) String() string {
	if name, ok := performativeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Performative(%d)", int(p))
}

// Valid reports whether p belongs to the protocol vocabulary.
func (p Performative) Valid() bool {
	_, ok := performativeNames[p]
	return ok
}

// ParsePerformative parses names such as "ASK_WHY" or "ask-why".
func ParsePerformative(s string) (Performative, error) {
	name := strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s)))
	for p, n := range performativeNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("message: unknown performative %q", s)
}
