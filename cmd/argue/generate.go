package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/argue/internal/catalog"
	"github.com/lorenzotomasdiez/argue/internal/negotiation/profile"
	"github.com/lorenzotomasdiez/argue/internal/scenario"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a scenario file with random agent profiles",
		RunE:  a.runGenerate,
	}
	cmd.Flags().String("out", "", "Scenario file to write (required)")
	cmd.Flags().Int("items", 4, "Number of items")
	cmd.Flags().Int("agents", 2, "Number of agents")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, _ []string) error {
	out, _ := cmd.Flags().GetString("out")
	items, _ := cmd.Flags().GetInt("items")
	agents, _ := cmd.Flags().GetInt("agents")

	seed := a.seed()
	sc, err := randomScenario(items, agents, seed)
	if err != nil {
		return err
	}
	if err := sc.Save(out); err != nil {
		return err
	}
	fmt.Printf("Scenario %q with %d agents and %d items (seed %d) written to %s\n",
		sc.Name, len(sc.Agents), len(sc.Items), seed, out)
	return nil
}

// seed returns the configured seed, or a time based one when none is set.
func (a *app) seed() uint64 {
	if a.cfg.Negotiation.Seed != 0 {
		return a.cfg.Negotiation.Seed
	}
	return uint64(time.Now().UnixNano())
}

// randomScenario draws agents A1..An over the first items of the default
// engine catalogue, padded with generated names.
func randomScenario(items, agents int, seed uint64) (*scenario.Scenario, error) {
	if items < 1 {
		return nil, fmt.Errorf("item count must be >= 1, got %d", items)
	}
	if agents < 2 {
		return nil, fmt.Errorf("agent count must be >= 2, got %d", agents)
	}

	selected := catalog.NewRegistry(catalog.DefaultItems()).Select(items)
	gen := profile.NewGenerator(seed)
	profiles := make([]scenario.Profile, agents)
	for i := range agents {
		profiles[i] = scenario.Profile{
			Name:        fmt.Sprintf("A%d", i+1),
			Preferences: gen.Random(selected),
		}
	}

	sc := scenario.FromProfiles(fmt.Sprintf("random-%d", seed), selected, profiles)
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}
