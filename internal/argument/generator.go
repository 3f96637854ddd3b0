package argument

import "github.com/lorenzotomasdiez/argue/internal/preferences"

// Generator lists the arguments an agent can truthfully make about an item
// from its own preferences, strongest first.
type Generator struct {
	prefs *preferences.Preferences
}

// NewGenerator creates a Generator reading prefs.
func NewGenerator(prefs *preferences.Preferences) *Generator {
	return &Generator{prefs: prefs}
}

// Supporting returns the pro arguments for item. For every ranked criterion
// evaluated Good or VeryGood, in ranking order, it yields the single premise
// argument followed by one argument per less important criterion adding the
// comparison.
func (g *Generator) Supporting(item preferences.Item) []Argument {
	return g.collect(item, true, preferences.Value.IsGood)
}

// Attacking returns the con arguments against item, built like Supporting
// from Bad and VeryBad evaluations.
func (g *Generator) Attacking(item preferences.Item) []Argument {
	return g.collect(item, false, preferences.Value.IsBad)
}

// Strongest returns the first argument of the requested polarity that the
// ledger has not seen.
func (g *Generator) Strongest(item preferences.Item, decision bool, ledger *Ledger) (Argument, bool) {
	candidates := g.Attacking(item)
	if decision {
		candidates = g.Supporting(item)
	}
	for _, arg := range candidates {
		if ledger == nil || !ledger.Seen(arg) {
			return arg, true
		}
	}
	return Argument{}, false
}

func (g *Generator) collect(item preferences.Item, decision bool, qualifies func(preferences.Value) bool) []Argument {
	order := g.prefs.CriteriaOrder()
	var out []Argument
	for i, c := range order {
		v, ok := g.prefs.Evaluation(item, c)
		if !ok || !qualifies(v) {
			continue
		}
		base := New(item, decision, CoupleValue{Criterion: c, Value: v})
		out = append(out, base)
		for _, weaker := range order[i+1:] {
			out = append(out, base.Versus(weaker))
		}
	}
	return out
}
