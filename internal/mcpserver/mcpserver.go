// Package mcpserver exposes the matcher as MCP tools over stdio, so LLM
// assistants can drive matching runs and inspect the results.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the classmatch tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates an MCP server with all tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "classmatch",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()

	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "match_status",
		Description: "Load two class summary documents, bind the trivially identifiable " +
			"(unobfuscated) pairs and report per-kind match totals.",
	}, handleMatchStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "auto_match",
		Description: "Run the full auto-match pipeline over two class summary documents " +
			"and report the resulting match totals.",
	}, handleAutoMatch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "propagate_names",
		Description: "Run the auto-match pipeline, spread mapped names across method " +
			"hierarchies and report the match totals.",
	}, handlePropagateNames)
}
