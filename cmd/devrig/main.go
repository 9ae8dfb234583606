// Package main provides the entry point for the devrig CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/logging"
	"github.com/gorewood/devrig/internal/output"
)

// Set by goreleaser through -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return flagValue(cmd, "json") == "true"
}

// useColor resolves --color against TTY detection of the command's stdout.
func useColor(cmd *cobra.Command) bool {
	mode, err := output.ParseColorMode(flagValue(cmd, "color"))
	if err != nil {
		return false
	}
	return output.ResolveColorMode(mode, output.IsTTY(cmd.OutOrStdout()))
}

// flagValue looks up a flag on cmd, walking up to the root's persistent flags.
func flagValue(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// newPrinter returns a printer for cmd with warnings and errors on stderr.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	return fmt.Sprintf("%s (%.7s, %s)", version, commit, date)
}

func main() {
	err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(buildVersion()))
	os.Exit(output.GetExitCode(err))
}

// newRootCmd creates the root command for the devrig CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devrig",
		Short: "Detect a project's toolchain and run its workflows",
		Long: `Devrig - one set of commands for JavaScript projects, whatever they use.

Devrig looks at a project's lockfiles and config files to work out:
  - the package manager (bun, pnpm, yarn, npm)
  - the git hook system (lefthook, pre-commit, none)

and then builds the right commands for installing dependencies, running
scripts, installing hooks, and the standard bootstrap and check workflows.

Detection can be overridden with --package-manager / --hook-system, the
DEVRIG_PACKAGE_MANAGER / DEVRIG_HOOK_SYSTEM environment variables, or a
devrig.toml file.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isJSONMode(cmd) {
				printer := output.NewPrinter(cmd.OutOrStdout(), true, false)
				err := output.NewUserError("no command specified. Run 'devrig --help' for usage")
				printer.Error(err)
				return err
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		logging.Setup(flagValue(cmd, "verbose") == "true", cmd.ErrOrStderr())
		if _, err := output.ParseColorMode(flagValue(cmd, "color")); err != nil {
			output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), false).Error(err)
			return err
		}
		return nil
	}

	flags := cmd.PersistentFlags()
	flags.Bool("json", false, "Output in JSON format")
	flags.String("color", "auto", "Color output: auto, always, never")
	flags.String("dir", "", "Project directory (default: git root, or the current directory)")
	flags.String("package-manager", "", "Override the package manager: bun, pnpm, yarn, npm")
	flags.String("hook-system", "", "Override the hook system: lefthook, pre-commit, none")
	flags.Bool("verbose", false, "Enable debug logging")

	lipgloss.SetHasDarkBackground(true)
	registerCommands(cmd)

	return cmd
}

// commandGroups lists the help sections and the subcommands under each.
var commandGroups = []struct {
	id, title string
	commands  []func() *cobra.Command
}{
	{"core", "Core Commands:", []func() *cobra.Command{newDetectCmd, newCmdCmd, newPlanCmd, newRunCmd}},
	{"release", "Release Commands:", []func() *cobra.Command{newChangesetCmd}},
	{"admin", "Admin Commands:", []func() *cobra.Command{newHooksCmd, newDoctorCmd}},
	{"agent", "Agent Commands:", []func() *cobra.Command{newServeCmd}},
}

func registerCommands(root *cobra.Command) {
	for _, group := range commandGroups {
		root.AddGroup(&cobra.Group{ID: group.id, Title: group.title})
		for _, newCmd := range group.commands {
			child := newCmd()
			child.GroupID = group.id
			root.AddCommand(child)
		}
	}
}
