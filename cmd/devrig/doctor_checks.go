package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/changeset"
	"github.com/gorewood/devrig/internal/detect"
	"github.com/gorewood/devrig/internal/git"
	"github.com/gorewood/devrig/internal/runner"
	"github.com/gorewood/devrig/internal/setup"
	"github.com/gorewood/devrig/internal/toolchain"
)

// runCoreChecks performs core project checks.
func runCoreChecks(cmd *cobra.Command, proj *project) []checkResult {
	return []checkResult{
		checkGitRepo(proj),
		checkManifest(proj),
		checkPackageManagerBinary(cmd, proj),
	}
}

// checkGitRepo checks that the project is inside a git repository.
func checkGitRepo(proj *project) checkResult {
	if !git.IsRepo(proj.root) {
		return checkResult{
			Name:    "Git Repository",
			Status:  checkWarn,
			Message: "not a git repository",
			Hint:    "Run 'git init'; hook checks need a repository",
		}
	}
	branch, err := git.CurrentBranch(proj.root)
	if err != nil || branch == "" {
		branch = "detached"
	}
	message := "on branch " + branch
	if git.HasUncommittedChanges(proj.root) {
		message += " (uncommitted changes)"
	}
	return checkResult{
		Name:    "Git Repository",
		Status:  checkPass,
		Message: message,
	}
}

// checkManifest checks that package.json exists and parses.
func checkManifest(proj *project) checkResult {
	manifest, err := toolchain.ReadManifest(proj.root)
	if err != nil {
		if _, statErr := os.Stat(filepath.Join(proj.root, toolchain.ManifestFile)); statErr != nil {
			return checkResult{
				Name:    "package.json",
				Status:  checkFail,
				Message: "not found",
				Hint:    "Run '" + proj.toolchain.PackageManager().String() + " init' or pass --dir",
			}
		}
		return checkResult{
			Name:    "package.json",
			Status:  checkFail,
			Message: err.Error(),
		}
	}

	name := manifest.Name
	if name == "" {
		name = "(unnamed)"
	}
	return checkResult{
		Name:    "package.json",
		Status:  checkPass,
		Message: name,
	}
}

// checkPackageManagerBinary checks that the resolved package manager is on PATH.
func checkPackageManagerBinary(cmd *cobra.Command, proj *project) checkResult {
	pm := proj.env.PackageManager.String()
	name := "Package Manager"

	r := runner.New(proj.root, nil, nil)
	if !r.Available(pm) {
		return checkResult{
			Name:    name,
			Status:  checkFail,
			Message: pm + " not found in PATH",
			Hint:    installHint(proj.env.PackageManager),
		}
	}

	ver, err := r.Output(cmd.Context(), toolchain.NewCommand(pm, "--version"))
	if err != nil {
		return checkResult{
			Name:    name,
			Status:  checkWarn,
			Message: pm + " found but '" + pm + " --version' failed",
		}
	}
	return checkResult{
		Name:    name,
		Status:  checkPass,
		Message: pm + " " + ver,
	}
}

func installHint(pm detect.PackageManager) string {
	switch pm {
	case detect.Bun:
		return "Install bun: https://bun.sh"
	case detect.NPM:
		return "Install Node.js, which ships npm"
	default:
		return "Run 'corepack enable' or 'npm install -g " + pm.String() + "'"
	}
}

// runToolchainChecks performs checks on the detected toolchain.
func runToolchainChecks(proj *project) []checkResult {
	checks := []checkResult{checkConflicts(proj), checkOverrides(proj), checkScripts(proj)}
	if proj.env.HookSystem == detect.PreCommit {
		checks = append(checks, checkPreCommitBinary(proj))
	}
	return checks
}

// checkConflicts reports markers for more than one tool in a category, or
// a root with no lockfile at all.
func checkConflicts(proj *project) checkResult {
	warnings := proj.env.Warnings()
	if len(warnings) == 0 && detect.DetectPackageManager(proj.root).Source == detect.SourceDefault {
		return checkResult{
			Name:    "Markers",
			Status:  checkWarn,
			Message: "no lockfile found, defaulting to " + detect.DefaultPackageManager.String(),
			Hint:    "devrig looks for " + strings.Join(detect.Markers(), ", "),
		}
	}
	if len(warnings) == 0 {
		return checkResult{
			Name:    "Markers",
			Status:  checkPass,
			Message: "no conflicting lockfiles or hook configs",
		}
	}
	return checkResult{
		Name:    "Markers",
		Status:  checkWarn,
		Message: strings.Join(warnings, "; "),
		Hint:    "Delete the stale file, or pin the tool in devrig.toml",
	}
}

// checkOverrides reports overrides that disagree with the markers.
func checkOverrides(proj *project) checkResult {
	env := proj.env
	var diffs []string
	if env.PackageManagerSource == detect.SourceOverride && env.PackageManager != env.DetectedPackageManager {
		diffs = append(diffs, fmt.Sprintf("package manager %s from %s (detected %s)",
			env.PackageManager, proj.settings.PackageManagerOrigin, env.DetectedPackageManager))
	}
	if env.HookSystemSource == detect.SourceOverride && env.HookSystem != env.DetectedHookSystem {
		diffs = append(diffs, fmt.Sprintf("hook system %s from %s (detected %s)",
			env.HookSystem, proj.settings.HookSystemOrigin, env.DetectedHookSystem))
	}

	if len(diffs) == 0 {
		return checkResult{
			Name:    "Overrides",
			Status:  checkPass,
			Message: "detection and configuration agree",
		}
	}
	return checkResult{
		Name:    "Overrides",
		Status:  checkWarn,
		Message: strings.Join(diffs, "; "),
	}
}

// checkScripts reports package.json scripts the workflow plans expect.
func checkScripts(proj *project) checkResult {
	manifest, err := toolchain.ReadManifest(proj.root)
	if err != nil {
		return checkResult{
			Name:    "Scripts",
			Status:  checkWarn,
			Message: "could not read package.json",
		}
	}

	expected := []string{toolchain.ScriptFormat, toolchain.ScriptLint, toolchain.ScriptCheck, toolchain.ScriptTest}
	if proj.env.HookSystem == detect.Lefthook {
		expected = append(expected, toolchain.ScriptLefthookInstall)
	}

	missing := manifest.MissingScripts(expected...)
	if len(missing) == 0 {
		return checkResult{
			Name:    "Scripts",
			Status:  checkPass,
			Message: strconv.Itoa(len(expected)) + " workflow scripts defined",
		}
	}
	return checkResult{
		Name:    "Scripts",
		Status:  checkWarn,
		Message: "missing: " + strings.Join(missing, ", "),
		Hint:    "Add them to package.json scripts so 'devrig run' plans succeed",
	}
}

// checkPreCommitBinary checks that the pre-commit framework is installed.
// Lefthook ships as a dev dependency, so only pre-commit needs this.
func checkPreCommitBinary(proj *project) checkResult {
	if runner.New(proj.root, nil, nil).Available("pre-commit") {
		return checkResult{
			Name:    "pre-commit",
			Status:  checkPass,
			Message: "found in PATH",
		}
	}
	return checkResult{
		Name:    "pre-commit",
		Status:  checkFail,
		Message: "not found in PATH",
		Hint:    "Install with 'pipx install pre-commit'",
	}
}

// runIntegrationChecks performs git hook and changeset checks.
func runIntegrationChecks(proj *project) []checkResult {
	return []checkResult{
		checkHooksInstalled(proj),
		checkChangesets(proj),
	}
}

// checkHooksInstalled checks the detected hook system is wired into git.
func checkHooksInstalled(proj *project) checkResult {
	name := "Git Hooks"
	if !git.IsRepo(proj.root) {
		return checkResult{
			Name:    name,
			Status:  checkWarn,
			Message: "skipped (not a git repository)",
		}
	}

	hooksDir, err := git.HooksDir(proj.root)
	if err != nil {
		return checkResult{
			Name:    name,
			Status:  checkWarn,
			Message: "could not locate hooks directory: " + err.Error(),
		}
	}

	report := setup.CheckHooks(hooksDir, proj.env.HookSystem)
	state := setup.DescribeHookState(report)
	switch {
	case report.Mismatch:
		return checkResult{
			Name:    name,
			Status:  checkFail,
			Message: state,
			Hint:    hookHint(proj),
		}
	case !report.System.Enabled(), report.Installed:
		return checkResult{
			Name:    name,
			Status:  checkPass,
			Message: state,
		}
	default:
		return checkResult{
			Name:    name,
			Status:  checkWarn,
			Message: state,
			Hint:    hookHint(proj),
		}
	}
}

func hookHint(proj *project) string {
	if hook, ok := proj.toolchain.HookInstall(); ok {
		return "Run '" + hook.String() + "'"
	}
	return "Remove the stale hooks from the hooks directory"
}

// checkChangesets checks the changeset directory is set up and parses.
func checkChangesets(proj *project) checkResult {
	name := "Changesets"
	store := changeset.NewStore(proj.root, proj.settings.ChangesetDir)
	if !store.Initialized() {
		return checkResult{
			Name:    name,
			Status:  checkWarn,
			Message: relativeTo(proj.root, store.Dir) + " not initialized",
			Hint:    "Run '" + proj.toolchain.Exec("changeset", "init").String() + "'",
		}
	}

	changesets, invalid, err := store.List()
	if err != nil {
		return checkResult{
			Name:    name,
			Status:  checkWarn,
			Message: err.Error(),
		}
	}
	if len(invalid) > 0 {
		return checkResult{
			Name:    name,
			Status:  checkFail,
			Message: strconv.Itoa(len(invalid)) + " invalid changeset file(s)",
			Hint:    "Run 'devrig changeset check' for details",
		}
	}
	return checkResult{
		Name:    name,
		Status:  checkPass,
		Message: strconv.Itoa(len(changesets)) + " pending",
	}
}
