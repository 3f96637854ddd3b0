// Package profile draws random preference profiles for simulated agents.
package profile

import (
	"math/rand/v2"

	"github.com/lorenzotomasdiez/argue/internal/preferences"
)

// Generator draws preferences from a seeded source, so one seed always
// yields the same profiles in the same order.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Random ranks a random non-empty subset of the criteria in random order and
// rates every item on each ranked criterion with a random value.
func (g *Generator) Random(items []preferences.Item) *preferences.Preferences {
	criteria := preferences.AllCriteria()
	g.rng.Shuffle(len(criteria), func(i, j int) {
		criteria[i], criteria[j] = criteria[j], criteria[i]
	})
	ranked := criteria[:1+g.rng.IntN(len(criteria))]

	p := preferences.New()
	// Shuffled criteria are distinct.
	_ = p.SetCriteriaOrder(ranked)

	values := preferences.AllValues()
	for _, item := range items {
		for _, c := range ranked {
			p.Record(item, c, values[g.rng.IntN(len(values))])
		}
	}
	return p
}

// Pick returns one of candidates at random. It can serve as an agent's
// counterpart picker.
func (g *Generator) Pick(candidates []string) string {
	return candidates[g.rng.IntN(len(candidates))]
}
