package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/detect"
	"github.com/gorewood/devrig/internal/output"
)

// detectResult is the JSON shape of the detect command.
type detectResult struct {
	detect.Environment

	PackageManagerOrigin string   `json:"package_manager_origin,omitempty"`
	HookSystemOrigin     string   `json:"hook_system_origin,omitempty"`
	ConfigFiles          []string `json:"config_files,omitempty"`
	Warnings             []string `json:"warnings,omitempty"`
}

// newDetectCmd creates the detect command.
func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show the detected package manager and hook system",
		Long: `Show the package manager and git hook system devrig resolved for the project.

Each choice reports where it came from:
  marker    - a lockfile or config file in the project root
  default   - no marker found (npm, no hooks)
  override  - a flag, environment variable, or devrig.toml

When markers for more than one tool are present, the first by priority wins
and the rest are reported as warnings.

Priority:
  package manager  bun.lockb / bun.lock > pnpm-lock.yaml > yarn.lock > package-lock.json
  hook system      lefthook.yml / .lefthook.yml > .pre-commit-config.yaml

Examples:
  devrig detect
  devrig detect --dir ./apps/web
  devrig detect --package-manager pnpm --json`,
		Args: cobra.NoArgs,
		RunE: runDetect,
	}
}

func runDetect(cmd *cobra.Command, _ []string) error {
	printer := newPrinter(cmd)

	proj, err := loadProject(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(detectResult{
			Environment:          proj.env,
			PackageManagerOrigin: proj.settings.PackageManagerOrigin,
			HookSystemOrigin:     proj.settings.HookSystemOrigin,
			ConfigFiles:          proj.settings.Files,
			Warnings:             proj.env.Warnings(),
		})
	}

	env := proj.env
	printer.KeyValue("Root", env.Root)
	printer.KeyValue("Package manager", describeChoice(
		env.PackageManager.String(), env.PackageManagerSource, env.PackageManagerMarker,
		proj.settings.PackageManagerOrigin, env.DetectedPackageManager.String()))
	printer.KeyValue("Hook system", describeChoice(
		env.HookSystem.String(), env.HookSystemSource, env.HookSystemMarker,
		proj.settings.HookSystemOrigin, env.DetectedHookSystem.String()))
	for _, file := range proj.settings.Files {
		printer.KeyValue("Config", file)
	}
	printer.Warnings(env.Warnings())
	return nil
}

// describeChoice renders a resolved tool with where it came from.
func describeChoice(choice string, source detect.Source, marker, origin, detected string) string {
	switch source {
	case detect.SourceMarker:
		return fmt.Sprintf("%s (%s)", choice, marker)
	case detect.SourceOverride:
		if detected != choice {
			return fmt.Sprintf("%s (override from %s; detected %s)", choice, origin, detected)
		}
		return fmt.Sprintf("%s (override from %s)", choice, origin)
	default:
		return fmt.Sprintf("%s (default, no marker found)", choice)
	}
}

// warnConflicts prints detection warnings to stderr in human mode.
func warnConflicts(printer *output.Printer, proj *project) {
	printer.Warnings(proj.env.Warnings())
}
