package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/workflow"
)

// planStepJSON is a plan step in JSON output.
type planStepJSON struct {
	Title    string   `json:"title"`
	Command  string   `json:"command"`
	Argv     []string `json:"argv"`
	Optional bool     `json:"optional,omitempty"`
}

// newPlanCmd creates the plan command group.
func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List workflow plans or show a plan's commands",
		Long: `Workflow plans are named command sequences built for the detected toolchain.

  bootstrap          install dependencies, install git hooks, apply agent instructions
  check              format, lint, type-check, test
  ruler              regenerate agent instruction files
  ruler-check        verify agent instruction files are up to date
  changeset-version  consume pending changesets and bump package versions
  changeset-status   show packages that pending changesets will release

Examples:
  devrig plan list
  devrig plan show bootstrap
  devrig plan show check --package-manager bun --json`,
	}

	cmd.AddCommand(newPlanListCmd(), newPlanShowCmd())
	return cmd
}

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)

			names := workflow.Names()
			if printer.IsJSON() {
				plans := make([]map[string]string, 0, len(names))
				for _, name := range names {
					plans = append(plans, map[string]string{"name": name, "description": workflow.Describe(name)})
				}
				return printer.WriteJSON(map[string]any{"plans": plans})
			}

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, workflow.Describe(name)})
			}
			printer.Table([]string{"PLAN", "DESCRIPTION"}, rows)
			return nil
		},
	}
}

func newPlanShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan>",
		Short: "Show the commands a plan would run",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return workflow.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: runPlanShow,
	}
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	plan, err := workflow.Build(args[0], proj.toolchain)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		steps := make([]planStepJSON, 0, len(plan.Steps))
		for _, step := range plan.Steps {
			steps = append(steps, planStepJSON{
				Title:    step.Title,
				Command:  step.Command.String(),
				Argv:     step.Command.Argv(),
				Optional: step.Optional,
			})
		}
		return printer.WriteJSON(map[string]any{
			"name":        plan.Name,
			"description": plan.Description,
			"steps":       steps,
			"warnings":    proj.env.Warnings(),
		})
	}

	warnConflicts(printer, proj)
	printer.Print("%s: %s\n", plan.Name, strings.ToLower(plan.Description))
	for i, step := range plan.Steps {
		printer.Step(i+1, step.Title, step.Command.String(), step.Optional)
	}
	return nil
}
