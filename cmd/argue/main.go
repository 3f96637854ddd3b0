package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/argue/internal/config"
	"github.com/lorenzotomasdiez/argue/internal/logging"
)

// app holds what every subcommand needs once the root pre-run has loaded it.
type app struct {
	cfg *config.Config
	log *logrus.Logger
	// maxRoundsSet and thresholdSet record explicit flags, which win over
	// scenario files.
	maxRoundsSet bool
	thresholdSet bool
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:   "argue",
		Short: "Argumentation-based bilateral negotiation between agents",
		Long: "Runs negotiations in which agents propose items, challenge each other with ASK_WHY, " +
			"and exchange arguments grounded in their ranked criteria until they commit to an item or give up.",
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default: ./argue.yaml when present)")
	flags.String("output-dir", "output", "Output directory for results")
	flags.Int("max-rounds", 100, "Maximum negotiation rounds")
	flags.Float64("threshold", 10, "Top percent of items an agent accepts without asking why")
	flags.Uint64("seed", 0, "Seed for random profiles and counterpart picking (0: deterministic picking)")
	flags.Bool("parallel", false, "Step agents concurrently within a round")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newNegotiateCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newGenerateCmd(a))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load reads .env, the config file and the environment, then applies the
// flags the user set explicitly.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	flags := cmd.Root().PersistentFlags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if flags.Changed("output-dir") {
		cfg.Output.Dir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("max-rounds") {
		cfg.Negotiation.MaxRounds, _ = flags.GetInt("max-rounds")
		a.maxRoundsSet = true
	}
	if flags.Changed("threshold") {
		cfg.Negotiation.Threshold, _ = flags.GetFloat64("threshold")
		a.thresholdSet = true
	}
	if flags.Changed("seed") {
		cfg.Negotiation.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("parallel") {
		cfg.Negotiation.Parallel, _ = flags.GetBool("parallel")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}
