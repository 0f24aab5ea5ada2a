package main

import (
	"context"

	"github.com/classmatch/classmatch/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the matcher as
tools that LLMs can invoke.

Available tools:
  - match_status      Match totals after the trivial unobfuscated pass
  - auto_match        Full auto-match pipeline and resulting totals
  - propagate_names   Auto-match plus hierarchy name propagation`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version)

	return server.Run(context.Background())
}
