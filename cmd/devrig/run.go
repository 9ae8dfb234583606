package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/output"
	"github.com/gorewood/devrig/internal/runner"
	"github.com/gorewood/devrig/internal/toolchain"
	"github.com/gorewood/devrig/internal/workflow"
)

// runStepJSON is one attempted step in JSON output.
type runStepJSON struct {
	Title    string `json:"title"`
	Command  string `json:"command"`
	Optional bool   `json:"optional,omitempty"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// newRunCmd creates the run command.
func newRunCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <plan>",
		Short: "Run a workflow plan",
		Long: `Run a workflow plan with the detected package manager and hook system.

Steps run in order in the project root. A failing step stops the plan, except
optional steps (such as applying agent instructions during bootstrap), which
are reported and skipped.

In --json mode, command output goes to stderr and a summary is written to stdout.

Examples:
  devrig run bootstrap
  devrig run check --dry-run
  devrig run bootstrap --package-manager pnpm --json`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return workflow.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args[0], dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the commands without running them")
	return cmd
}

func runPlan(cmd *cobra.Command, name string, dryRun bool) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	plan, err := workflow.Build(name, proj.toolchain)
	if err != nil {
		printer.Error(err)
		return err
	}

	// Keep stdout clean for the JSON summary.
	stdout := cmd.OutOrStdout()
	if printer.IsJSON() {
		stdout = cmd.ErrOrStderr()
	}
	r := runner.New(proj.root, stdout, cmd.ErrOrStderr())
	r.DryRun = dryRun

	warnConflicts(printer, proj)
	exec := &announcingExecutor{runner: r, printer: printer}
	results, runErr := workflow.Run(cmd.Context(), plan, exec)

	if printer.IsJSON() {
		if err := printer.WriteJSON(map[string]any{
			"plan":     plan.Name,
			"root":     proj.root,
			"dry_run":  dryRun,
			"success":  runErr == nil,
			"steps":    toRunStepJSON(results),
			"warnings": proj.env.Warnings(),
		}); err != nil {
			return err
		}
		return runErr
	}

	if runErr != nil {
		printer.Error(runErr)
		return runErr
	}
	if !dryRun {
		printer.Success("%s complete", plan.Name)
	}
	return nil
}

// announcingExecutor prints each command before the runner executes it.
// Dry runs skip the announcement because the runner already prints the command.
type announcingExecutor struct {
	runner  *runner.Runner
	printer *output.Printer
}

func (e *announcingExecutor) Run(ctx context.Context, cmd toolchain.Command) error {
	if !e.runner.DryRun && !e.printer.IsJSON() {
		e.printer.Command("$ " + cmd.String())
	}
	return e.runner.Run(ctx, cmd)
}

func toRunStepJSON(results []workflow.StepResult) []runStepJSON {
	steps := make([]runStepJSON, 0, len(results))
	for _, res := range results {
		steps = append(steps, runStepJSON{
			Title:    res.Step.Title,
			Command:  res.Step.Command.String(),
			Optional: res.Step.Optional,
			Success:  res.Success,
			Error:    res.Error,
		})
	}
	return steps
}
