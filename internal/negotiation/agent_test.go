package negotiation_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorenzotomasdiez/argue/internal/argument"
	"github.com/lorenzotomasdiez/argue/internal/catalog"
	"github.com/lorenzotomasdiez/argue/internal/message"
	"github.com/lorenzotomasdiez/argue/internal/negotiation"
	"github.com/lorenzotomasdiez/argue/internal/negotiation/outcome"
	"github.com/lorenzotomasdiez/argue/internal/negotiation/profile"
	"github.com/lorenzotomasdiez/argue/internal/preferences"
)

var (
	item1 = preferences.NewItem("item1", "")
	item2 = preferences.NewItem("item2", "")
	item3 = preferences.NewItem("item3", "")
)

func cv(item preferences.Item, c preferences.CriterionName, v preferences.Value) preferences.CriterionValue {
	return preferences.CriterionValue{Item: item, Criterion: c, Value: v}
}

func prefs(t *testing.T, order []preferences.CriterionName, values ...preferences.CriterionValue) *preferences.Preferences {
	t.Helper()
	p, err := preferences.NewPreferences(order, values...)
	require.NoError(t, err)
	return p
}

type setup struct {
	service *message.Service
	agents  []*negotiation.Agent
}

func newSetup(t *testing.T, profiles ...*preferences.Preferences) *setup {
	t.Helper()
	s := &setup{service: message.NewService()}
	for i, p := range profiles {
		id := fmt.Sprintf("A%d", i+1)
		require.NoError(t, s.service.Register(id))
		s.agents = append(s.agents, negotiation.NewAgent(negotiation.AgentConfig{
			ID:          id,
			Preferences: p,
			Initiator:   i == 0,
		}, s.service))
	}
	return s
}

func (s *setup) run(t *testing.T, maxRounds int) *negotiation.Result {
	t.Helper()
	participants := make([]negotiation.Participant, len(s.agents))
	for i, a := range s.agents {
		participants[i] = a
	}
	e := negotiation.NewEngine("test", participants, s.service, outcome.NewJudge(), maxRounds)
	result, err := e.Run(context.Background())
	require.NoError(t, err)
	return result
}

type row struct {
	round        int
	sender       string
	performative string
	item         string
}

func rows(records []message.Record) []row {
	out := make([]row, len(records))
	for i, r := range records {
		out[i] = row{r.Round, r.Sender, r.Performative, r.Item}
	}
	return out
}

func TestScenarioImmediateAcceptance(t *testing.T) {
	shared := func() *preferences.Preferences {
		return prefs(t, []preferences.CriterionName{preferences.ProductionCost},
			cv(item1, preferences.ProductionCost, preferences.VeryGood),
			cv(item2, preferences.ProductionCost, preferences.VeryBad),
			cv(item3, preferences.ProductionCost, preferences.VeryBad),
		)
	}
	s := newSetup(t, shared(), shared())

	result := s.run(t, 20)

	assert.Equal(t, []row{
		{1, "A1", "PROPOSE", "item1"},
		{2, "A2", "ACCEPT", "item1"},
		{3, "A1", "COMMIT", "item1"},
		{4, "A2", "COMMIT", "item1"},
	}, rows(result.Transcript.Records))
	assert.Equal(t, negotiation.StopCompleted, result.Transcript.Stop)
	assert.True(t, result.Outcome.Agreed)
	assert.Equal(t, "item1", result.Outcome.Item)
	for _, a := range s.agents {
		assert.True(t, a.IsDone(), a.ID())
		assert.False(t, a.Preferences().Knows(item1), "committed item stays in %s preferences", a.ID())
		assert.Equal(t, negotiation.Committed, a.State(item1))
	}
}

func TestScenarioRebuttalOnSameCriterion(t *testing.T) {
	order := []preferences.CriterionName{preferences.ProductionCost}
	s := newSetup(t,
		prefs(t, order,
			cv(item1, preferences.ProductionCost, preferences.VeryGood),
			cv(item2, preferences.ProductionCost, preferences.VeryBad),
		),
		prefs(t, order,
			cv(item1, preferences.ProductionCost, preferences.VeryBad),
			cv(item2, preferences.ProductionCost, preferences.Average),
		),
	)

	result := s.run(t, 30)
	records := result.Transcript.Records
	require.GreaterOrEqual(t, len(records), 4)

	assert.Equal(t, []row{
		{1, "A1", "PROPOSE", "item1"},
		{2, "A2", "ASK_WHY", "item1"},
		{3, "A1", "ARGUE", "item1"},
		{4, "A2", "ARGUE", "item1"},
	}, rows(records[:4]))

	assert.Equal(t, "pro", records[2].Decision)
	assert.Equal(t, "PRODUCTION_COST", records[2].MainCriterion)
	assert.Equal(t, "VERY_GOOD", records[2].Value)
	assert.Empty(t, records[2].SecondaryCriterion)

	assert.Equal(t, "con", records[3].Decision)
	assert.Equal(t, "PRODUCTION_COST", records[3].MainCriterion)
	assert.Equal(t, "VERY_BAD", records[3].Value)
	assert.Empty(t, records[3].SecondaryCriterion)

	// A1 cannot answer the con argument, rejects item1, and the agents settle
	// on item2.
	assert.Equal(t, []row{
		{5, "A1", "REJECT", "item1"},
		{6, "A2", "PROPOSE", "item2"},
		{7, "A1", "ACCEPT", "item2"},
		{8, "A2", "COMMIT", "item2"},
		{9, "A1", "COMMIT", "item2"},
	}, rows(records[4:]))
	assert.Equal(t, negotiation.StopCompleted, result.Transcript.Stop)
	assert.True(t, result.Outcome.Agreed)
	assert.Equal(t, "item2", result.Outcome.Item)
	assert.Equal(t, []string{"item1"}, result.Outcome.Rejected)
	assert.Equal(t, 2, result.Outcome.Arguments)
}

func TestScenarioRebuttalOnMoreImportantCriterion(t *testing.T) {
	s := newSetup(t,
		prefs(t, []preferences.CriterionName{preferences.ProductionCost, preferences.Durability},
			cv(item1, preferences.ProductionCost, preferences.VeryGood),
			cv(item1, preferences.Durability, preferences.VeryBad),
			cv(item2, preferences.ProductionCost, preferences.Bad),
			cv(item2, preferences.Durability, preferences.Good),
		),
		prefs(t, []preferences.CriterionName{preferences.Durability, preferences.ProductionCost},
			cv(item1, preferences.ProductionCost, preferences.VeryGood),
			cv(item1, preferences.Durability, preferences.VeryBad),
			cv(item2, preferences.ProductionCost, preferences.Average),
			cv(item2, preferences.Durability, preferences.VeryGood),
		),
	)

	result := s.run(t, 60)
	records := result.Transcript.Records
	require.GreaterOrEqual(t, len(records), 4)

	assert.Equal(t, []row{
		{1, "A1", "PROPOSE", "item1"},
		{2, "A2", "ASK_WHY", "item1"},
		{3, "A1", "ARGUE", "item1"},
		{4, "A2", "ARGUE", "item1"},
	}, rows(records[:4]))
	assert.Equal(t, "con", records[3].Decision)
	assert.Equal(t, "DURABILITY", records[3].MainCriterion)
	assert.Equal(t, "VERY_BAD", records[3].Value)
	assert.Equal(t, "PRODUCTION_COST", records[3].SecondaryCriterion)
	assert.LessOrEqual(t, result.Transcript.Rounds, 60)
}

func TestAgentSkipsAlreadyExchangedArguments(t *testing.T) {
	s := newSetup(t,
		prefs(t, []preferences.CriterionName{preferences.ProductionCost, preferences.Durability},
			cv(item1, preferences.ProductionCost, preferences.VeryGood),
			cv(item1, preferences.Durability, preferences.Good),
		),
		prefs(t, []preferences.CriterionName{preferences.Noise},
			cv(item1, preferences.Noise, preferences.Bad),
			cv(item2, preferences.Noise, preferences.Good),
		),
	)
	a1 := s.agents[0]

	require.NoError(t, s.service.Register("probe"))
	for range 3 {
		require.NoError(t, s.service.Deliver(message.New("probe", "A1", message.AskWhy, item1)))
	}
	s.service.Flush()
	a1.Step()

	sent := s.service.History()[3:]
	require.Len(t, sent, 3)
	seen := map[string]bool{}
	for _, r := range sent {
		require.Equal(t, "ARGUE", r.Performative)
		key := fmt.Sprintf("%s|%s|%s|%s", r.Decision, r.MainCriterion, r.Value, r.SecondaryCriterion)
		assert.False(t, seen[key], "argument %s sent twice", key)
		seen[key] = true
	}
	assert.Equal(t, 3, a1.Arguments(item1))
}

func TestAgentExhaustedItemMovesOn(t *testing.T) {
	s := newSetup(t,
		prefs(t, []preferences.CriterionName{preferences.Noise},
			cv(item1, preferences.Noise, preferences.Average),
			cv(item2, preferences.Noise, preferences.Bad),
		),
		prefs(t, []preferences.CriterionName{preferences.Noise},
			cv(item1, preferences.Noise, preferences.Bad),
			cv(item2, preferences.Noise, preferences.Good),
		),
	)
	a1 := s.agents[0]

	require.NoError(t, s.service.Deliver(message.New("A2", "A1", message.AskWhy, item1)))
	s.service.Flush()
	a1.Step()

	assert.Equal(t, negotiation.Exhausted, a1.State(item1))
	assert.Equal(t, negotiation.Proposed, a1.State(item2))
	history := s.service.History()
	last := history[len(history)-1]
	assert.Equal(t, "PROPOSE", last.Performative)
	assert.Equal(t, "item2", last.Item)
	assert.Equal(t, "A2", last.Receiver)
}

func TestAgentDoneWhenNothingToPropose(t *testing.T) {
	s := newSetup(t,
		prefs(t, []preferences.CriterionName{preferences.Noise}),
		prefs(t, []preferences.CriterionName{preferences.Noise}),
	)
	a1 := s.agents[0]

	a1.Step()
	assert.True(t, a1.IsDone())
	assert.Zero(t, s.service.Queued())
}

func TestAgentRedirectKeepsOriginalItem(t *testing.T) {
	s := newSetup(t,
		prefs(t, []preferences.CriterionName{preferences.ProductionCost},
			cv(item1, preferences.ProductionCost, preferences.Good),
			cv(item2, preferences.ProductionCost, preferences.VeryGood),
		),
		prefs(t, []preferences.CriterionName{preferences.ProductionCost},
			cv(item1, preferences.ProductionCost, preferences.Good),
		),
	)
	a1 := s.agents[0]

	arg := argument.Pro(item1, preferences.ProductionCost, preferences.Good)
	require.NoError(t, s.service.Deliver(message.NewArgue("A2", "A1", arg)))
	s.service.Flush()
	a1.Step()

	history := s.service.History()
	last := history[len(history)-1]
	assert.Equal(t, "ARGUE", last.Performative)
	assert.Equal(t, "item2", last.Item)
	assert.Equal(t, "pro", last.Decision)
	assert.True(t, a1.Preferences().Knows(item1), "redirect must not forget the original item")
	assert.Equal(t, negotiation.AwaitingReply, a1.State(item2))
}

func TestAgentProposedItemBecomesProposableAfterRedirect(t *testing.T) {
	s := newSetup(t,
		prefs(t, []preferences.CriterionName{preferences.ProductionCost},
			cv(item1, preferences.ProductionCost, preferences.Average),
			cv(item2, preferences.ProductionCost, preferences.VeryGood),
		),
		prefs(t, []preferences.CriterionName{preferences.ProductionCost}),
	)
	a1 := s.agents[0]

	a1.Step() // opens with item2
	require.Equal(t, negotiation.Proposed, a1.State(item2))

	arg := argument.Pro(item2, preferences.ProductionCost, preferences.Bad)
	require.NoError(t, s.service.Deliver(message.NewArgue("A2", "A1", arg)))
	s.service.Flush()
	s.service.Drain("A2")
	a1.Step()

	history := s.service.History()
	last := history[len(history)-1]
	assert.Equal(t, "ARGUE", last.Performative)
	assert.Equal(t, "item1", last.Item, "item1 beats the value A2 cited for item2")
	assert.Equal(t, "pro", last.Decision)
	assert.Equal(t, negotiation.NotProposed, a1.State(item2))
	assert.Equal(t, negotiation.AwaitingReply, a1.State(item1))
	assert.True(t, a1.Preferences().Knows(item2))
}

func TestAgentDropsUnsupportedPerformative(t *testing.T) {
	s := newSetup(t,
		prefs(t, []preferences.CriterionName{preferences.Noise}, cv(item1, preferences.Noise, preferences.Good)),
		prefs(t, []preferences.CriterionName{preferences.Noise}),
	)
	a2 := s.agents[1]

	require.NoError(t, s.service.Deliver(message.New("A1", "A2", message.Performative(99), item1)))
	require.NoError(t, s.service.Deliver(message.New("A1", "A2", message.Argue, item1)))
	s.service.Flush()
	before := len(s.service.History())
	a2.Step()

	assert.Len(t, s.service.History(), before, "dropped messages get no reply")
	assert.False(t, a2.IsDone())
	assert.Equal(t, negotiation.NotProposed, a2.State(item1))
}

func TestAgentIgnoresMessagesOnceDone(t *testing.T) {
	s := newSetup(t,
		prefs(t, []preferences.CriterionName{preferences.Noise}, cv(item1, preferences.Noise, preferences.Good)),
		prefs(t, []preferences.CriterionName{preferences.Noise}, cv(item1, preferences.Noise, preferences.Good)),
	)
	a1 := s.agents[0]

	require.NoError(t, s.service.Deliver(message.New("A2", "A1", message.Accept, item1)))
	s.service.Flush()
	a1.Step()
	require.True(t, a1.IsDone())
	before := len(s.service.History())

	require.NoError(t, s.service.Deliver(message.New("A2", "A1", message.Propose, item1)))
	s.service.Flush()
	a1.Step()

	assert.Len(t, s.service.History(), before+1, "only the incoming proposal is recorded")
	assert.Zero(t, s.service.Queued())
	assert.Empty(t, s.service.Drain("A1"))
}

func TestAgentCommitForUnknownItemIgnored(t *testing.T) {
	s := newSetup(t,
		prefs(t, []preferences.CriterionName{preferences.Noise}, cv(item1, preferences.Noise, preferences.Good)),
		prefs(t, []preferences.CriterionName{preferences.Noise}),
	)
	a2 := s.agents[1]

	require.NoError(t, s.service.Deliver(message.New("A1", "A2", message.Commit, item1)))
	s.service.Flush()
	a2.Step()

	assert.False(t, a2.IsDone())
	assert.Zero(t, s.service.Queued())
}

func TestRandomNegotiationsTerminate(t *testing.T) {
	items := catalog.NewRegistry(catalog.DefaultItems()).Select(6)
	for seed := uint64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			gen := profile.NewGenerator(seed)
			s := newSetup(t, gen.Random(items), gen.Random(items))

			result := s.run(t, 400)

			assert.LessOrEqual(t, result.Transcript.Rounds, 400)
			sent := map[string]bool{}
			for _, r := range result.Transcript.Records {
				if r.Performative != "ARGUE" {
					continue
				}
				key := fmt.Sprintf("%s|%s|%s|%s|%s|%s", r.Sender, r.Item, r.Decision, r.MainCriterion, r.Value, r.SecondaryCriterion)
				assert.False(t, sent[key], "argument repeated: %s", key)
				sent[key] = true
			}
		})
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	build := func() *setup {
		order := []preferences.CriterionName{preferences.ProductionCost}
		return newSetup(t,
			prefs(t, order,
				cv(item1, preferences.ProductionCost, preferences.VeryGood),
				cv(item2, preferences.ProductionCost, preferences.VeryBad),
			),
			prefs(t, order,
				cv(item1, preferences.ProductionCost, preferences.VeryBad),
				cv(item2, preferences.ProductionCost, preferences.Average),
			),
		)
	}

	sequential := build().run(t, 30)

	s := build()
	participants := []negotiation.Participant{s.agents[0], s.agents[1]}
	e := negotiation.NewEngine("test", participants, s.service, outcome.NewJudge(), 30)
	e.SetParallel(true)
	parallel, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sequential.Transcript.Records, parallel.Transcript.Records)
	assert.Equal(t, sequential.Outcome, parallel.Outcome)
}
