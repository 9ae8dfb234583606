// Package workflow defines the named command sequences devrig can run
// (bootstrap, check, ruler, changeset) for a resolved toolchain.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorewood/devrig/internal/logging"
	"github.com/gorewood/devrig/internal/output"
	"github.com/gorewood/devrig/internal/toolchain"
)

// Plan names.
const (
	PlanBootstrap        = "bootstrap"
	PlanCheck            = "check"
	PlanRuler            = "ruler"
	PlanRulerCheck       = "ruler-check"
	PlanChangesetVersion = "changeset-version"
	PlanChangesetStatus  = "changeset-status"
)

// Step is one command in a plan.
type Step struct {
	Title   string            `json:"title"`
	Command toolchain.Command `json:"command"`
	// Optional steps log their failure and let the plan continue.
	Optional bool `json:"optional,omitempty"`
}

// Plan is an ordered list of steps.
type Plan struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// definition describes how to build a plan from a toolchain.
type definition struct {
	name        string
	description string
	build       func(toolchain.Toolchain) []Step
}

// definitions is the registry, in display order.
var definitions = []definition{
	{
		name:        PlanBootstrap,
		description: "Install dependencies, install git hooks, and apply agent instructions",
		build:       bootstrapSteps,
	},
	{
		name:        PlanCheck,
		description: "Format, lint, type-check, and test",
		build:       checkSteps,
	},
	{
		name:        PlanRuler,
		description: "Regenerate agent instruction files",
		build: func(tc toolchain.Toolchain) []Step {
			return []Step{{Title: "Apply agent instructions", Command: tc.RunScript(toolchain.ScriptRulerApply)}}
		},
	},
	{
		name:        PlanRulerCheck,
		description: "Verify agent instruction files are up to date",
		build: func(tc toolchain.Toolchain) []Step {
			return []Step{{Title: "Check agent instructions", Command: tc.RunScript(toolchain.ScriptRulerCheck)}}
		},
	},
	{
		name:        PlanChangesetVersion,
		description: "Consume pending changesets and bump package versions",
		build: func(tc toolchain.Toolchain) []Step {
			return []Step{{Title: "Version packages", Command: tc.Exec("changeset", "version")}}
		},
	},
	{
		name:        PlanChangesetStatus,
		description: "Show packages that pending changesets will release",
		build: func(tc toolchain.Toolchain) []Step {
			return []Step{{Title: "Changeset status", Command: tc.Exec("changeset", "status")}}
		},
	},
}

func bootstrapSteps(tc toolchain.Toolchain) []Step {
	steps := []Step{{Title: "Install dependencies", Command: tc.Install()}}
	if hook, ok := tc.HookInstall(); ok {
		steps = append(steps, Step{Title: "Install git hooks (" + tc.HookSystem().String() + ")", Command: hook})
	}
	steps = append(steps, Step{
		Title:    "Apply agent instructions",
		Command:  tc.RunScript(toolchain.ScriptRulerApply),
		Optional: true,
	})
	return steps
}

func checkSteps(tc toolchain.Toolchain) []Step {
	return []Step{
		{Title: "Format", Command: tc.RunScript(toolchain.ScriptFormat)},
		{Title: "Lint", Command: tc.RunScript(toolchain.ScriptLint)},
		{Title: "Type-check", Command: tc.RunScript(toolchain.ScriptCheck)},
		{Title: "Test", Command: tc.RunScript(toolchain.ScriptTest)},
	}
}

// Names returns the plan names in display order.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for _, d := range definitions {
		names = append(names, d.name)
	}
	return names
}

// Describe returns the one-line description of a plan, or "" if unknown.
func Describe(name string) string {
	for _, d := range definitions {
		if d.name == name {
			return d.description
		}
	}
	return ""
}

// Build returns the named plan for tc.
func Build(name string, tc toolchain.Toolchain) (Plan, error) {
	for _, d := range definitions {
		if d.name == name {
			return Plan{Name: d.name, Description: d.description, Steps: d.build(tc)}, nil
		}
	}
	return Plan{}, output.UserErrorf("unknown plan %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Executor runs a single command.
type Executor interface {
	Run(ctx context.Context, cmd toolchain.Command) error
}

// StepResult records the outcome of one executed step.
type StepResult struct {
	Step    Step   `json:"step"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Run executes plan steps in order. A required step failure stops the run and
// is returned; optional failures are recorded and skipped. The results cover
// every step that was attempted.
func Run(ctx context.Context, plan Plan, exec Executor) ([]StepResult, error) {
	results := make([]StepResult, 0, len(plan.Steps))

	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return results, output.NewSystemErrorWithCause("plan interrupted", err)
		}

		logging.Debug("running step", "plan", plan.Name, "step", step.Title, "cmd", step.Command.String())
		err := exec.Run(ctx, step.Command)
		if err == nil {
			results = append(results, StepResult{Step: step, Success: true})
			continue
		}

		results = append(results, StepResult{Step: step, Error: err.Error()})
		if step.Optional {
			logging.Warn("optional step failed", "step", step.Title, "err", err)
			continue
		}
		return results, fmt.Errorf("%s: %w", step.Title, err)
	}

	return results, nil
}
