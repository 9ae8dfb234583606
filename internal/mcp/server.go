// Package mcp provides a Model Context Protocol server for devrig.
// It exposes environment detection, plan building, and changeset operations
// as MCP tools so an agent can ask which commands to run instead of guessing.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with all devrig tools registered.
// Tools resolve their project from dir unless a call names its own.
func NewServer(version, dir string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "devrig",
		Version: version,
	}, nil)
	registerTools(server, dir)
	return server
}

func ptr[T any](v T) *T { return &v }

var (
	// inspectOnly marks tools that read the project and change nothing.
	inspectOnly = &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  ptr(false),
	}
	// addsFiles marks tools that create files but never replace them.
	addsFiles = &mcp.ToolAnnotations{
		DestructiveHint: ptr(false),
		OpenWorldHint:   ptr(false),
	}
)

func registerTools(server *mcp.Server, dir string) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect",
		Description: "Detect the project's package manager and git hook system from its lockfiles and config files. Reports where each choice came from and any conflicting markers.",
		Annotations: inspectOnly,
	}, handleDetect(dir))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan",
		Description: "Show the commands a named workflow plan would run (bootstrap, check, ruler, ruler-check, changeset-version, changeset-status). Omit name to list plans.",
		Annotations: inspectOnly,
	}, handlePlan(dir))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "command",
		Description: "Build the exact command for this project's tools: kind=install, kind=run with script, kind=exec with binary, or kind=hooks to install git hooks.",
		Annotations: inspectOnly,
	}, handleCommand(dir))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "changeset_list",
		Description: "List pending changesets and the aggregated version bump per package.",
		Annotations: inspectOnly,
	}, handleChangesetList(dir))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "changeset_add",
		Description: "Write a new changeset file describing package releases and a summary. Never overwrites an existing changeset.",
		Annotations: addsFiles,
	}, handleChangesetAdd(dir))
}
