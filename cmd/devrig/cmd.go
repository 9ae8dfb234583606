package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/output"
	"github.com/gorewood/devrig/internal/toolchain"
)

// newCmdCmd creates the cmd command group, which prints toolchain commands
// without running them.
func newCmdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmd",
		Short: "Print the command for an action with the detected tools",
		Long: `Print the exact command devrig would run, without running it.

Useful in scripts and CI that need to stay package-manager agnostic:
  $(devrig cmd install)
  eval "$(devrig cmd run build)"

Extra arguments after a script or binary name are passed through unchanged.

Examples:
  devrig cmd install             # pnpm install
  devrig cmd run test --watch    # npm run test -- --watch
  devrig cmd exec tsc --noEmit   # bunx tsc --noEmit
  devrig cmd hooks               # pnpm run lefthook:install`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Print the dependency install command",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printToolchainCommand(cmd, func(tc toolchain.Toolchain) (toolchain.Command, error) {
					return tc.Install(), nil
				})
			},
		},
		passthrough(&cobra.Command{
			Use:   "run <script> [args...]",
			Short: "Print the command that runs a package.json script",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printToolchainCommand(cmd, func(tc toolchain.Toolchain) (toolchain.Command, error) {
					return tc.RunScript(args[0], args[1:]...), nil
				})
			},
		}),
		passthrough(&cobra.Command{
			Use:   "exec <binary> [args...]",
			Short: "Print the command that runs a dependency's binary",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printToolchainCommand(cmd, func(tc toolchain.Toolchain) (toolchain.Command, error) {
					return tc.Exec(args[0], args[1:]...), nil
				})
			},
		}),
		&cobra.Command{
			Use:   "hooks",
			Short: "Print the git hook install command",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printToolchainCommand(cmd, hookInstallCommand)
			},
		},
	)

	return cmd
}

// passthrough stops flag parsing at the first positional argument so flags
// meant for the script or binary are not consumed by devrig.
func passthrough(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// hookInstallCommand returns the hook install command, or a user error when
// the project has no hook system.
func hookInstallCommand(tc toolchain.Toolchain) (toolchain.Command, error) {
	hook, ok := tc.HookInstall()
	if !ok {
		return toolchain.Command{}, output.NewUserError(
			"no hook system configured (add lefthook.yml or .pre-commit-config.yaml, or pass --hook-system)")
	}
	return hook, nil
}

// printToolchainCommand resolves the project, builds a command, and prints it.
func printToolchainCommand(cmd *cobra.Command, build func(toolchain.Toolchain) (toolchain.Command, error)) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	command, err := build(proj.toolchain)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(map[string]any{
			"command":         command.String(),
			"argv":            command.Argv(),
			"package_manager": proj.env.PackageManager,
			"hook_system":     proj.env.HookSystem,
			"warnings":        proj.env.Warnings(),
		})
	}

	warnConflicts(printer, proj)
	printer.Println(command.String())
	return nil
}
