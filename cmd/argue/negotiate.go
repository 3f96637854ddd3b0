package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/argue/internal/message"
	"github.com/lorenzotomasdiez/argue/internal/negotiation"
	"github.com/lorenzotomasdiez/argue/internal/negotiation/outcome"
	"github.com/lorenzotomasdiez/argue/internal/negotiation/profile"
	"github.com/lorenzotomasdiez/argue/internal/output"
	"github.com/lorenzotomasdiez/argue/internal/scenario"
)

func newNegotiateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "negotiate",
		Short: "Run a negotiation from a scenario file or random profiles",
		RunE:  a.runNegotiate,
	}
	cmd.Flags().String("scenario", "", "Scenario YAML file")
	cmd.Flags().Bool("random", false, "Generate random profiles instead of reading a scenario")
	cmd.Flags().Int("items", 4, "Number of items with --random")
	cmd.Flags().Int("agents", 2, "Number of agents with --random")
	cmd.Flags().String("name", "", "Override output folder name (default: auto-slug from scenario name)")
	cmd.MarkFlagsMutuallyExclusive("scenario", "random")
	cmd.MarkFlagsOneRequired("scenario", "random")
	return cmd
}

func (a *app) runNegotiate(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("scenario")
	random, _ := cmd.Flags().GetBool("random")
	name, _ := cmd.Flags().GetString("name")

	var sc *scenario.Scenario
	if random {
		items, _ := cmd.Flags().GetInt("items")
		agents, _ := cmd.Flags().GetInt("agents")
		var err error
		sc, err = randomScenario(items, agents, a.seed())
		if err != nil {
			return err
		}
	} else {
		var err error
		sc, err = scenario.Load(path)
		if err != nil {
			return err
		}
	}

	// Setup context with Ctrl+C cancellation
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slug := name
	if slug == "" {
		slug = output.GenerateSlug(sc.Name)
	}
	outDir, err := output.CreateOutputDir(a.cfg.Output.Dir, slug)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	writer := output.NewWriter(outDir)

	result, err := a.negotiate(ctx, sc, writer)
	if err != nil {
		return err
	}

	if err := writer.WriteJSON(result.Transcript); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	if err := writer.WriteMarkdown(result.Transcript, result.Outcome); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	if err := writer.WriteLog(); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}

	fmt.Println()
	output.PrintOutcome(result.Outcome)
	fmt.Printf("\nNegotiation complete. Output saved to: %s\n", outDir)
	return nil
}

// negotiate builds the agents of sc and runs them to the end, echoing every
// message to the terminal and the run log.
func (a *app) negotiate(ctx context.Context, sc *scenario.Scenario, writer *output.Writer) (*negotiation.Result, error) {
	service := message.NewService(message.WithObserver(func(rec message.Record) {
		output.PrintRecord(rec)
		writer.Log(output.FormatRecord(rec))
	}))

	if a.thresholdSet {
		sc.Threshold = a.cfg.Negotiation.Threshold
	}
	maxRounds := a.cfg.Negotiation.MaxRounds
	if sc.MaxRounds > 0 && !a.maxRoundsSet {
		maxRounds = sc.MaxRounds
	}

	opts := []negotiation.AgentOption{negotiation.WithLogger(logrus.NewEntry(a.log))}
	if seed := a.cfg.Negotiation.Seed; seed != 0 {
		opts = append(opts, negotiation.WithCounterpartPicker(lockedPicker(profile.NewGenerator(seed))))
	}
	agents, err := sc.Build(service, a.cfg.Negotiation.Threshold, opts...)
	if err != nil {
		return nil, err
	}

	participants := make([]negotiation.Participant, len(agents))
	for i, agent := range agents {
		participants[i] = agent
	}
	output.PrintHeader(sc.Name, service.AgentIDs())

	engine := negotiation.NewEngine(sc.Name, participants, service, outcome.NewJudge(), maxRounds)
	engine.SetParallel(a.cfg.Negotiation.Parallel)
	engine.SetLogger(logrus.NewEntry(a.log))
	engine.OnRound = func(round int) {
		writer.Log(fmt.Sprintf("round %d", round))
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("negotiation %s: %w", sc.Name, err)
	}
	return result, nil
}

// lockedPicker serializes access to the generator, which parallel rounds
// would otherwise share between goroutines.
func lockedPicker(g *profile.Generator) func([]string) string {
	var mu sync.Mutex
	return func(candidates []string) string {
		mu.Lock()
		defer mu.Unlock()
		return g.Pick(candidates)
	}
}
