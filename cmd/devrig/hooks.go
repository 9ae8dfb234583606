package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/git"
	"github.com/gorewood/devrig/internal/output"
	"github.com/gorewood/devrig/internal/setup"
)

// newHooksCmd creates the hooks parent command with subcommands.
func newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Inspect git hooks for the detected hook system",
		Long: `Inspect the git hooks installed in the repository.

Devrig reads the hook scripts in the hooks directory (honouring core.hooksPath)
and works out which framework wrote them, so you can tell whether lefthook or
pre-commit is actually wired into git.

Subcommands:
  status    Show hook install state

Examples:
  devrig hooks status
  devrig hooks status --check     # exit non-zero unless hooks are installed
  devrig hooks status --json`,
	}

	cmd.AddCommand(newHooksStatusCmd())
	return cmd
}

// newHooksStatusCmd creates the hooks status subcommand.
func newHooksStatusCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the detected hook system is installed",
		Long: `Show whether the detected hook system is installed into git.

With --check, exits 1 when the hook system is configured but not installed,
and 3 when hooks from a different framework are installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHooksStatus(cmd, check)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Exit non-zero when hooks are missing or mismatched")
	return cmd
}

// runHooksStatus executes the hooks status command.
func runHooksStatus(cmd *cobra.Command, check bool) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	if !git.IsRepo(proj.root) {
		err := output.NewSystemError("not in a git repository")
		printer.Error(err)
		return err
	}

	hooksDir, err := git.HooksDir(proj.root)
	if err != nil {
		printer.Error(err)
		return err
	}

	report := setup.CheckHooks(hooksDir, proj.env.HookSystem)
	state := setup.DescribeHookState(report)

	var checkErr error
	if check {
		checkErr = hooksCheckError(report, state)
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(map[string]any{
			"system":    report.System,
			"hooks_dir": report.HooksDir,
			"hooks":     report.Hooks,
			"installed": report.Installed,
			"mismatch":  report.Mismatch,
			"state":     state,
		}); err != nil {
			return err
		}
		return checkErr
	}

	printHooksStatus(printer, proj, report, state)
	if checkErr != nil {
		printer.Error(checkErr)
	}
	return checkErr
}

// hooksCheckError maps a hook report onto the --check exit codes.
func hooksCheckError(report setup.HookReport, state string) error {
	switch {
	case report.Mismatch:
		return output.NewConflictError(state)
	case report.System.Enabled() && !report.Installed:
		return output.NewUserError(state)
	default:
		return nil
	}
}

// printHooksStatus outputs hook status in human-readable format.
func printHooksStatus(printer *output.Printer, proj *project, report setup.HookReport, state string) {
	printer.KeyValue("Hook system", report.System.String())
	printer.KeyValue("Hooks dir", relativeTo(proj.root, report.HooksDir))
	printer.KeyValue("State", state)

	printer.Section("Git Hooks")
	rows := make([][]string, 0, len(report.Hooks))
	for _, hook := range report.Hooks {
		installed := "no"
		if hook.Exists {
			installed = "yes"
		}
		owner := string(hook.Owner)
		if owner == "" {
			owner = "-"
		}
		rows = append(rows, []string{hook.Name, installed, owner})
	}
	printer.Table([]string{"HOOK", "INSTALLED", "OWNER"}, rows)

	if report.System.Enabled() && !report.Installed {
		if hook, ok := proj.toolchain.HookInstall(); ok {
			printer.Println()
			printer.Print("Install with: %s\n", hook.String())
		}
	}
}
