package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorenzotomasdiez/argue/internal/config"
	"github.com/lorenzotomasdiez/argue/internal/scenario"
)

func TestRandomScenario(t *testing.T) {
	sc, err := randomScenario(6, 3, 42)
	require.NoError(t, err)

	assert.Equal(t, "random-42", sc.Name)
	require.Len(t, sc.Items, 6)
	assert.Equal(t, "Diesel Engine", sc.Items[0].Name)
	require.Len(t, sc.Agents, 3)
	assert.Equal(t, []string{"A1", "A2", "A3"}, []string{sc.Agents[0].Name, sc.Agents[1].Name, sc.Agents[2].Name})
	assert.True(t, sc.Agents[0].Initiator)

	again, err := randomScenario(6, 3, 42)
	require.NoError(t, err)
	assert.Equal(t, sc, again, "same seed, same scenario")
}

func TestRandomScenarioRejectsBadCounts(t *testing.T) {
	_, err := randomScenario(0, 2, 1)
	assert.Error(t, err)
	_, err = randomScenario(3, 1, 1)
	assert.Error(t, err)
}

func TestRandomScenarioRoundTrip(t *testing.T) {
	sc, err := randomScenario(4, 2, 7)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "random.yaml")
	require.NoError(t, sc.Save(path))

	loaded, err := scenario.Load(path)
	require.NoError(t, err)
	for _, a := range sc.Agents {
		want, err := sc.Preferences(a.Name)
		require.NoError(t, err)
		got, err := loaded.Preferences(a.Name)
		require.NoError(t, err)
		assert.Equal(t, want.CriteriaOrder(), got.CriteriaOrder())
		assert.Equal(t, want.Evaluations(), got.Evaluations())
	}
}

func TestSeedFallsBackToClock(t *testing.T) {
	a := &app{cfg: config.Default()}
	assert.NotZero(t, a.seed())

	a.cfg.Negotiation.Seed = 9
	assert.Equal(t, uint64(9), a.seed())
}
