package argument

import "github.com/lorenzotomasdiez/argue/internal/preferences"

// Ledger remembers every argument exchanged about each item during one
// negotiation, sent or received. It belongs to a single agent.
type Ledger struct {
	seen map[string]map[string]struct{}
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{seen: make(map[string]map[string]struct{})}
}

// Record marks a as exchanged.
func (l *Ledger) Record(a Argument) {
	byItem, ok := l.seen[a.Item.Name]
	if !ok {
		byItem = make(map[string]struct{})
		l.seen[a.Item.Name] = byItem
	}
	byItem[a.Key()] = struct{}{}
}

// Seen reports whether a structurally equal argument was already exchanged.
func (l *Ledger) Seen(a Argument) bool {
	_, ok := l.seen[a.Item.Name][a.Key()]
	return ok
}

// Count returns how many distinct arguments were exchanged about item.
func (l *Ledger) Count(item preferences.Item) int {
	return len(l.seen[item.Name])
}

// Forget drops the history of item.
func (l *Ledger) Forget(item preferences.Item) {
	delete(l.seen, item.Name)
}
