package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorenzotomasdiez/argue/internal/argument"
	"github.com/lorenzotomasdiez/argue/internal/output"
	"github.com/lorenzotomasdiez/argue/internal/scenario"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show each agent's scores and the arguments it could make",
		RunE:  a.runInspect,
	}
	cmd.Flags().String("scenario", "", "Scenario YAML file (required)")
	cmd.Flags().String("agent", "", "Only show this agent")
	cmd.MarkFlagRequired("scenario")
	return cmd
}

func (a *app) runInspect(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("scenario")
	only, _ := cmd.Flags().GetString("agent")

	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	if only != "" {
		if _, ok := sc.Agent(only); !ok {
			return fmt.Errorf("scenario %s has no agent %q", sc.Name, only)
		}
	}

	for _, agent := range sc.Agents {
		if only != "" && agent.Name != only {
			continue
		}
		prefs, err := sc.Preferences(agent.Name)
		if err != nil {
			return err
		}
		output.PrintPreferences(agent.Name, prefs)

		gen := argument.NewGenerator(prefs)
		for _, item := range prefs.Items() {
			output.PrintArguments(item, gen.Supporting(item), gen.Attacking(item))
		}
		fmt.Println()
	}
	a.log.WithField("scenario", sc.Name).Debug("inspected")
	return nil
}
