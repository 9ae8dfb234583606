package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/output"
)

type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

var statusIcons = map[checkStatus]string{
	checkPass: "ok",
	checkWarn: "!!",
	checkFail: "XX",
}

// checkResult is one line of the doctor report. Hint suggests a fix and is
// only set when the check did not pass.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

type doctorResult struct {
	Version     string        `json:"version"`
	Root        string        `json:"root"`
	Core        []checkResult `json:"core"`
	Toolchain   []checkResult `json:"toolchain"`
	Integration []checkResult `json:"integration"`
	Summary     doctorSummary `json:"summary"`
}

type doctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Failed   int `json:"failed"`
}

func (s *doctorSummary) count(checks []checkResult) {
	for _, check := range checks {
		switch check.Status {
		case checkPass:
			s.Passed++
		case checkWarn:
			s.Warnings++
		case checkFail:
			s.Failed++
		}
	}
}

// sections pairs each category with its human heading, in report order.
func (r *doctorResult) sections() []struct {
	title  string
	checks []checkResult
} {
	return []struct {
		title  string
		checks []checkResult
	}{
		{"CORE", r.Core},
		{"TOOLCHAIN", r.Toolchain},
		{"INTEGRATION", r.Integration},
	}
}

func newDoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the project's toolchain and suggest fixes",
		Long: `Check that the detected toolchain is usable and wired up.

Checks are grouped into three categories:
  CORE        git repository, package.json, package manager on PATH
  TOOLCHAIN   conflicting markers, overrides, expected scripts
  INTEGRATION git hooks installed, changesets set up

Each check is marked ok (passed), !! (worth a look) or XX (needs fixing).
Doctor only reports; it exits 0 whatever it finds.

Examples:
  devrig doctor              # Run all checks
  devrig doctor --quiet      # Show only warnings and failures
  devrig doctor --json       # Machine-readable report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)

			proj, err := loadProject(cmd)
			if err != nil {
				printer.Error(err)
				return err
			}

			result := diagnose(cmd, proj)
			if printer.IsJSON() {
				return printer.WriteJSON(result)
			}
			printDoctorReport(printer, result, quiet)
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "Only show failures and warnings")
	return cmd
}

func diagnose(cmd *cobra.Command, proj *project) *doctorResult {
	result := &doctorResult{
		Version:     version,
		Root:        proj.root,
		Core:        runCoreChecks(cmd, proj),
		Toolchain:   runToolchainChecks(proj),
		Integration: runIntegrationChecks(proj),
	}
	for _, section := range result.sections() {
		result.Summary.count(section.checks)
	}
	return result
}

func printDoctorReport(printer *output.Printer, result *doctorResult, quiet bool) {
	printer.Println()
	printer.Print("devrig doctor v%s\n%s\n", result.Version, result.Root)

	for _, section := range result.sections() {
		var shown []checkResult
		for _, check := range section.checks {
			if !quiet || check.Status != checkPass {
				shown = append(shown, check)
			}
		}
		if len(shown) == 0 {
			continue
		}

		printer.Println()
		printer.Println(section.title)
		for _, check := range shown {
			printer.Print("  %s  %s %s\n", statusIcons[check.Status], check.Name, check.Message)
			if check.Hint != "" {
				printer.Print("     -> %s\n", check.Hint)
			}
		}
	}

	s := result.Summary
	printer.Println()
	printer.Print("%s %d passed  %s %d warnings  %s %d failed\n",
		statusIcons[checkPass], s.Passed, statusIcons[checkWarn], s.Warnings, statusIcons[checkFail], s.Failed)
}
