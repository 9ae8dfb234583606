package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/devrig/internal/detect"
	"github.com/gorewood/devrig/internal/toolchain"
	"github.com/gorewood/devrig/internal/workflow"
)

// --- Detect tool ---

// DetectInput is the input for the detect tool.
type DetectInput struct {
	Dir            string `json:"dir,omitempty"             jsonschema:"project directory (default: server directory or git root)"`
	PackageManager string `json:"package_manager,omitempty" jsonschema:"override the package manager: bun, pnpm, yarn or npm"`
	HookSystem     string `json:"hook_system,omitempty"     jsonschema:"override the hook system: lefthook, pre-commit or none"`
}

// DetectOutput is the output for the detect tool.
type DetectOutput struct {
	Environment detect.Environment `json:"environment"            jsonschema:"resolved tools with their sources"`
	ConfigFiles []string           `json:"config_files,omitempty" jsonschema:"devrig config files that were read"`
	Warnings    []string           `json:"warnings,omitempty"     jsonschema:"conflicting markers that were ignored"`
}

func handleDetect(defaultDir string) mcp.ToolHandlerFor[DetectInput, DetectOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input DetectInput) (*mcp.CallToolResult, DetectOutput, error) {
		proj, err := loadProject(defaultDir, input.Dir, input.PackageManager, input.HookSystem)
		if err != nil {
			return nil, DetectOutput{}, err
		}
		return nil, DetectOutput{
			Environment: proj.env,
			ConfigFiles: proj.settings.Files,
			Warnings:    proj.env.Warnings(),
		}, nil
	}
}

// --- Plan tool ---

// PlanInput is the input for the plan tool.
type PlanInput struct {
	Name           string `json:"name,omitempty"            jsonschema:"plan name; omit to list available plans"`
	Dir            string `json:"dir,omitempty"             jsonschema:"project directory"`
	PackageManager string `json:"package_manager,omitempty" jsonschema:"override the package manager"`
	HookSystem     string `json:"hook_system,omitempty"     jsonschema:"override the hook system"`
}

// PlanSummary names an available plan.
type PlanSummary struct {
	Name        string `json:"name"        jsonschema:"plan name"`
	Description string `json:"description" jsonschema:"what the plan does"`
}

// PlanStep is one step of a built plan.
type PlanStep struct {
	Title    string `json:"title"              jsonschema:"step title"`
	Command  string `json:"command"            jsonschema:"shell-quoted command line"`
	Optional bool   `json:"optional,omitempty" jsonschema:"failure does not stop the plan"`
}

// PlanOutput is the output for the plan tool.
type PlanOutput struct {
	Plans       []PlanSummary `json:"plans,omitempty"       jsonschema:"available plans (when no name was given)"`
	Name        string        `json:"name,omitempty"        jsonschema:"plan name"`
	Description string        `json:"description,omitempty" jsonschema:"what the plan does"`
	Steps       []PlanStep    `json:"steps,omitempty"       jsonschema:"commands in execution order"`
}

func handlePlan(defaultDir string) mcp.ToolHandlerFor[PlanInput, PlanOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input PlanInput) (*mcp.CallToolResult, PlanOutput, error) {
		if input.Name == "" {
			return nil, PlanOutput{Plans: planSummaries()}, nil
		}

		proj, err := loadProject(defaultDir, input.Dir, input.PackageManager, input.HookSystem)
		if err != nil {
			return nil, PlanOutput{}, err
		}

		plan, err := workflow.Build(input.Name, proj.toolchain)
		if err != nil {
			return nil, PlanOutput{}, err
		}

		out := PlanOutput{Name: plan.Name, Description: plan.Description}
		for _, step := range plan.Steps {
			out.Steps = append(out.Steps, PlanStep{
				Title:    step.Title,
				Command:  step.Command.String(),
				Optional: step.Optional,
			})
		}
		return nil, out, nil
	}
}

func planSummaries() []PlanSummary {
	names := workflow.Names()
	result := make([]PlanSummary, 0, len(names))
	for _, name := range names {
		result = append(result, PlanSummary{Name: name, Description: workflow.Describe(name)})
	}
	return result
}

// --- Command tool ---

// Command kinds accepted by the command tool.
const (
	KindInstall = "install"
	KindRun     = "run"
	KindExec    = "exec"
	KindHooks   = "hooks"
)

// CommandInput is the input for the command tool.
type CommandInput struct {
	Kind           string   `json:"kind"                      jsonschema:"install, run, exec or hooks"`
	Script         string   `json:"script,omitempty"          jsonschema:"package.json script name (kind=run)"`
	Binary         string   `json:"binary,omitempty"          jsonschema:"package binary to execute (kind=exec)"`
	Args           []string `json:"args,omitempty"            jsonschema:"extra arguments passed through to the script or binary"`
	Dir            string   `json:"dir,omitempty"             jsonschema:"project directory"`
	PackageManager string   `json:"package_manager,omitempty" jsonschema:"override the package manager"`
	HookSystem     string   `json:"hook_system,omitempty"     jsonschema:"override the hook system"`
}

// CommandOutput is the output for the command tool.
type CommandOutput struct {
	Command string   `json:"command" jsonschema:"shell-quoted command line"`
	Argv    []string `json:"argv"    jsonschema:"argument vector, executable first"`
}

func handleCommand(defaultDir string) mcp.ToolHandlerFor[CommandInput, CommandOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input CommandInput) (*mcp.CallToolResult, CommandOutput, error) {
		proj, err := loadProject(defaultDir, input.Dir, input.PackageManager, input.HookSystem)
		if err != nil {
			return nil, CommandOutput{}, err
		}

		cmd, err := buildCommand(proj.toolchain, input)
		if err != nil {
			return nil, CommandOutput{}, err
		}
		return nil, CommandOutput{Command: cmd.String(), Argv: cmd.Argv()}, nil
	}
}

// buildCommand maps a command tool request onto the toolchain.
func buildCommand(tc toolchain.Toolchain, input CommandInput) (toolchain.Command, error) {
	switch strings.ToLower(input.Kind) {
	case KindInstall:
		return tc.Install(), nil
	case KindRun:
		if input.Script == "" {
			return toolchain.Command{}, errors.New("script is required for kind=run")
		}
		return tc.RunScript(input.Script, input.Args...), nil
	case KindExec:
		if input.Binary == "" {
			return toolchain.Command{}, errors.New("binary is required for kind=exec")
		}
		return tc.Exec(input.Binary, input.Args...), nil
	case KindHooks:
		cmd, ok := tc.HookInstall()
		if !ok {
			return toolchain.Command{}, errors.New("no hook system configured")
		}
		return cmd, nil
	default:
		return toolchain.Command{}, fmt.Errorf("unknown kind %q (want install, run, exec or hooks)", input.Kind)
	}
}
