package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/devrig/internal/logging"
	devrigmcp "github.com/gorewood/devrig/internal/mcp"
)

const serveLong = `Serve devrig's detection, plans, and changesets to an agent over the
Model Context Protocol, speaking JSON-RPC on stdin and stdout.

Register it in the agent's MCP settings:

  {
    "mcpServers": {
      "devrig": {"command": "devrig", "args": ["serve"]}
    }
  }

Tools: detect, plan, command, changeset_list, changeset_add.
Tools resolve the project from --dir unless a call passes its own dir.`

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as an MCP server on stdio",
		Long:  serveLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := flagValue(cmd, "dir")
			logging.Info("serving MCP on stdio", "version", buildVersion(), "dir", dir)

			err := devrigmcp.NewServer(buildVersion(), dir).Run(cmd.Context(), &mcp.StdioTransport{})
			if err != nil {
				logging.Error("MCP server stopped", "err", err)
			}
			return err
		},
	}
}
