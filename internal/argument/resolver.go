package argument

import (
	"sort"

	"github.com/lorenzotomasdiez/argue/internal/preferences"
)

// Resolver searches an agent's preferences for a counter-argument to an
// argument it received. Arguments already in the ledger never count as a
// rebuttal, which bounds every exchange.
type Resolver struct {
	prefs  *preferences.Preferences
	ledger *Ledger
}

// NewResolver creates a Resolver over prefs, skipping arguments in ledger.
func NewResolver(prefs *preferences.Preferences, ledger *Ledger) *Resolver {
	if ledger == nil {
		ledger = NewLedger()
	}
	return &Resolver{prefs: prefs, ledger: ledger}
}

// Rebut returns a counter-argument to received, or false when the agent has
// nothing new to object. It never records anything in the ledger.
func (r *Resolver) Rebut(received Argument) (Argument, bool) {
	main, ok := received.CoupleValue()
	if !ok {
		return Argument{}, false
	}
	rank, ok := r.prefs.Rank(main.Criterion)
	if !ok {
		return Argument{}, false
	}
	secondary, hasSecondary := received.SecondaryCriterion()
	stronger := r.prefs.CriteriaOrder()[:rank]

	if received.Decision {
		return r.rebutPro(received.Item, main, stronger, secondary, hasSecondary)
	}
	return r.rebutCon(received.Item, main, stronger, secondary, hasSecondary)
}

func (r *Resolver) rebutPro(item preferences.Item, main CoupleValue, stronger []preferences.CriterionName, secondary preferences.CriterionName, hasSecondary bool) (Argument, bool) {
	// A more important criterion on which the item is bad.
	for _, c := range stronger {
		if hasSecondary && c == secondary {
			continue
		}
		v, ok := r.prefs.Evaluation(item, c)
		if !ok || !v.IsBad() {
			continue
		}
		if arg := Con(item, c, v).Versus(main.Criterion); r.fresh(arg) {
			return arg, true
		}
	}

	// Another item that does strictly better on the same criterion.
	for _, alt := range r.betterAlternatives(item, main) {
		if r.fresh(alt) {
			return alt, true
		}
	}

	// The item itself is bad on that criterion.
	if v, ok := r.prefs.Evaluation(item, main.Criterion); ok && v.IsBad() {
		if arg := Con(item, main.Criterion, v); r.fresh(arg) {
			return arg, true
		}
	}
	return Argument{}, false
}

func (r *Resolver) rebutCon(item preferences.Item, main CoupleValue, stronger []preferences.CriterionName, secondary preferences.CriterionName, hasSecondary bool) (Argument, bool) {
	for _, c := range stronger {
		if hasSecondary && c == secondary {
			continue
		}
		v, ok := r.prefs.Evaluation(item, c)
		if !ok || !v.IsGood() {
			continue
		}
		if arg := Pro(item, c, v).Versus(main.Criterion); r.fresh(arg) {
			return arg, true
		}
	}

	if v, ok := r.prefs.Evaluation(item, main.Criterion); ok && v.IsGood() {
		if arg := Pro(item, main.Criterion, v); r.fresh(arg) {
			return arg, true
		}
	}
	return Argument{}, false
}

// betterAlternatives returns pro arguments for the other known items rated
// strictly above main.Value on main.Criterion, best value first and known
// order among equals.
func (r *Resolver) betterAlternatives(item preferences.Item, main CoupleValue) []Argument {
	var out []Argument
	for _, other := range r.prefs.Items() {
		if other.Is(item) {
			continue
		}
		v, ok := r.prefs.Evaluation(other, main.Criterion)
		if !ok || v <= main.Value {
			continue
		}
		out = append(out, Pro(other, main.Criterion, v))
	}
	sort.SliceStable(out, func(i, j int) bool {
		vi, _ := out[i].CoupleValue()
		vj, _ := out[j].CoupleValue()
		return vi.Value > vj.Value
	})
	return out
}

func (r *Resolver) fresh(a Argument) bool {
	return !r.ledger.Seen(a)
}
