// Package preferences holds an agent's private view of the items under
// negotiation: a ranking of criteria by importance and the agent's
// evaluation of each item on each criterion.
package preferences

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrUnknownCriterion is returned when a criterion is not part of the
	// agent's ranking.
	ErrUnknownCriterion = errors.New("unknown criterion")

	// ErrDuplicateCriterion is returned when a ranking lists a criterion twice.
	ErrDuplicateCriterion = errors.New("duplicate criterion")
)

type evalKey struct {
	item      string
	criterion CriterionName
}

// Preferences belongs to exactly one agent and is only mutated by it.
type Preferences struct {
	criteria []CriterionName
	rank     map[CriterionName]int
	values   map[evalKey]Value
	items    []Item
}

// New returns empty preferences.
func New() *Preferences {
	return &Preferences{
		rank:   make(map[CriterionName]int),
		values: make(map[evalKey]Value),
	}
}

// NewPreferences builds preferences from a ranking and a set of evaluations.
func NewPreferences(order []CriterionName, values ...CriterionValue) (*Preferences, error) {
	p := New()
	if err := p.SetCriteriaOrder(order); err != nil {
		return nil, err
	}
	for _, cv := range values {
		p.Add(cv)
	}
	return p, nil
}

// SetCriteriaOrder replaces the importance ranking, most important first.
func (p *Preferences) SetCriteriaOrder(order []CriterionName) error {
	rank := make(map[CriterionName]int, len(order))
	for i, c := range order {
		if _, dup := rank[c]; dup {
			return fmt.Errorf("preferences: %w: %s", ErrDuplicateCriterion, c)
		}
		rank[c] = i
	}
	p.criteria = append([]CriterionName(nil), order...)
	p.rank = rank
	return nil
}

// CriteriaOrder returns a copy of the ranking, most important first.
func (p *Preferences) CriteriaOrder() []CriterionName {
	return append([]CriterionName(nil), p.criteria...)
}

// Rank returns the position of c in the ranking (0 is most important).
func (p *Preferences) Rank(c CriterionName) (int, bool) {
	r, ok := p.rank[c]
	return r, ok
}

// Record upserts the evaluation of item on criterion and registers the item
// if it is new.
func (p *Preferences) Record(item Item, criterion CriterionName, value Value) {
	if !p.Knows(item) {
		p.items = append(p.items, item)
	}
	p.values[evalKey{item.Name, criterion}] = value
}

// Add records a CriterionValue.
func (p *Preferences) Add(cv CriterionValue) {
	p.Record(cv.Item, cv.Criterion, cv.Value)
}

// Evaluation returns the agent's value for item on criterion, if any.
func (p *Preferences) Evaluation(item Item, criterion CriterionName) (Value, bool) {
	v, ok := p.values[evalKey{item.Name, criterion}]
	return v, ok
}

// IsMoreImportant reports whether a ranks strictly before b. Both criteria
// must be ranked.
func (p *Preferences) IsMoreImportant(a, b CriterionName) (bool, error) {
	ra, ok := p.rank[a]
	if !ok {
		return false, fmt.Errorf("preferences: %w: %s", ErrUnknownCriterion, a)
	}
	rb, ok := p.rank[b]
	if !ok {
		return false, fmt.Errorf("preferences: %w: %s", ErrUnknownCriterion, b)
	}
	return ra < rb, nil
}

// Score sums value weight times importance weight over the ranked criteria
// the item was evaluated on. The importance weight of rank r among n ranked
// criteria is valueLevels^(n-1-r), so one step on a criterion outweighs the
// largest possible swing on every criterion ranked after it.
func (p *Preferences) Score(item Item) int {
	n := len(p.criteria)
	score := 0
	for r, c := range p.criteria {
		v, ok := p.values[evalKey{item.Name, c}]
		if !ok {
			continue
		}
		score += v.Weight() * importanceWeight(n-1-r)
	}
	return score
}

func importanceWeight(exp int) int {
	w := 1
	for range exp {
		w *= valueLevels
	}
	return w
}

// IsPreferredItem reports whether a scores strictly higher than b.
func (p *Preferences) IsPreferredItem(a, b Item) bool {
	return p.Score(a) > p.Score(b)
}

// MostPreferred returns the highest scoring candidate; ties go to the first
// one encountered. A nil candidate list means every known item. The boolean
// is false when there is no candidate.
func (p *Preferences) MostPreferred(candidates []Item) (Item, bool) {
	if candidates == nil {
		candidates = p.items
	}
	if len(candidates) == 0 {
		return Item{}, false
	}
	best := candidates[0]
	bestScore := p.Score(best)
	for _, item := range candidates[1:] {
		if s := p.Score(item); s > bestScore {
			best, bestScore = item, s
		}
	}
	return best, true
}

// IsAmongTopPercent reports whether item is a candidate whose score ranks in
// the best percent of the candidates' scores. The number of slots is
// ceil(count*percent/100), so any positive percent keeps at least one slot;
// items tied with the last slot are in. A nil candidate list means every
// known item.
func (p *Preferences) IsAmongTopPercent(item Item, percent float64, candidates []Item) bool {
	if candidates == nil {
		candidates = p.items
	}
	if percent <= 0 || !containsItem(candidates, item) {
		return false
	}
	slots := topSlots(len(candidates), percent)
	scores := make([]int, len(candidates))
	for i, c := range candidates {
		scores[i] = p.Score(c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	return p.Score(item) >= scores[slots-1]
}

func topSlots(count int, percent float64) int {
	if percent >= 100 {
		return count
	}
	// The epsilon keeps exact products such as 10 items at 10% on one slot.
	slots := int(math.Ceil(float64(count)*percent/100 - 1e-9))
	return max(1, min(slots, count))
}

// Remove forgets item and every evaluation of it. Removing an unknown item
// is a no-op.
func (p *Preferences) Remove(item Item) {
	idx := -1
	for i, known := range p.items {
		if known.Is(item) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	p.items = append(p.items[:idx:idx], p.items[idx+1:]...)
	for key := range p.values {
		if key.item == item.Name {
			delete(p.values, key)
		}
	}
}

// Items returns the known items in registration order.
func (p *Preferences) Items() []Item {
	return append([]Item(nil), p.items...)
}

// Knows reports whether item is a known item.
func (p *Preferences) Knows(item Item) bool {
	return containsItem(p.items, item)
}

// CriterionValues returns the evaluations of one item in ranking order,
// followed by evaluations on criteria the agent does not rank.
func (p *Preferences) CriterionValues(item Item) []CriterionValue {
	var out []CriterionValue
	for _, c := range p.criteria {
		if v, ok := p.values[evalKey{item.Name, c}]; ok {
			out = append(out, CriterionValue{Item: item, Criterion: c, Value: v})
		}
	}
	for _, c := range AllCriteria() {
		if _, ranked := p.rank[c]; ranked {
			continue
		}
		if v, ok := p.values[evalKey{item.Name, c}]; ok {
			out = append(out, CriterionValue{Item: item, Criterion: c, Value: v})
		}
	}
	return out
}

// Evaluations returns every evaluation, grouped by item in registration order.
func (p *Preferences) Evaluations() []CriterionValue {
	var out []CriterionValue
	for _, item := range p.items {
		out = append(out, p.CriterionValues(item)...)
	}
	return out
}

func (p *Preferences) String() string {
	return fmt.Sprintf("items=%v criteria=%v", p.items, p.criteria)
}

func containsItem(items []Item, item Item) bool {
	for _, i := range items {
		if i.Is(item) {
			return true
		}
	}
	return false
}
