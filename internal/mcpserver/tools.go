package mcpserver

import (
	"context"
	"io"

	"github.com/classmatch/classmatch/internal/service/match"
	"github.com/classmatch/classmatch/pkg/config"
	"github.com/classmatch/classmatch/pkg/matcher"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"
)

// MatchInput is the shared input for all match tools.
type MatchInput struct {
	PathA string `json:"path_a" jsonschema:"Path to side A's class summary document (JSON or YAML)."`
	PathB string `json:"path_b" jsonschema:"Path to side B's class summary document (JSON or YAML)."`
	Level string `json:"level,omitempty" jsonschema:"Classifier level: initial, intermediate, full (default) or extra."`
}

func (in MatchInput) config() *config.Config {
	cfg := config.LoadOrDefault()

	if in.Level != "" {
		cfg.Match.Level = in.Level
	}

	return cfg
}

func handleMatchStatus(ctx context.Context, req *mcp.CallToolRequest, input MatchInput) (*mcp.CallToolResult, any, error) {
	m, err := match.LoadWithOutput(input.PathA, input.PathB, input.config(), io.Discard)
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(m.Status(true))
}

func handleAutoMatch(ctx context.Context, req *mcp.CallToolRequest, input MatchInput) (*mcp.CallToolResult, any, error) {
	m, err := runQuiet(input)
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(m.Status(true))
}

func handlePropagateNames(ctx context.Context, req *mcp.CallToolRequest, input MatchInput) (*mcp.CallToolResult, any, error) {
	cfg := input.config()
	cfg.Match.PropagateNames = true

	m, err := match.LoadWithOutput(input.PathA, input.PathB, cfg, io.Discard)
	if err != nil {
		return toolError(err.Error())
	}

	if err := m.AutoMatchAll(nil); err != nil {
		return toolError(err.Error())
	}

	m.PropagateNames(nil)

	return toolResult(m.Status(true))
}

// runQuiet runs the pipeline with the mutation log suppressed; tool callers
// only want the structured result.
func runQuiet(input MatchInput) (*matcher.Matcher, error) {
	m, err := match.LoadWithOutput(input.PathA, input.PathB, input.config(), io.Discard)
	if err != nil {
		return nil, err
	}

	if err := m.AutoMatchAll(nil); err != nil {
		return nil, err
	}

	return m, nil
}

func toolResult(data any) (*mcp.CallToolResult, any, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return nil, nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(out)},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}
