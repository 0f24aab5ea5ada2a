// Package match wires the loader, matcher and name propagation into the
// pipeline the CLI and MCP surfaces share.
package match

import (
	"fmt"
	"io"
	"os"

	"github.com/classmatch/classmatch/pkg/config"
	"github.com/classmatch/classmatch/pkg/loader"
	"github.com/classmatch/classmatch/pkg/matcher"
)

// Load builds the environment from both summary documents and binds the
// trivially identifiable (unobfuscated) class pairs, logging to stdout.
func Load(pathA, pathB string, cfg *config.Config) (*matcher.Matcher, error) {
	return LoadWithOutput(pathA, pathB, cfg, os.Stdout)
}

// LoadWithOutput is Load with the mutation log redirected; the MCP surface
// must keep stdout free for the protocol.
func LoadWithOutput(pathA, pathB string, cfg *config.Config, out io.Writer) (*matcher.Matcher, error) {
	env, err := loader.LoadProject(pathA, pathB)
	if err != nil {
		return nil, err
	}

	m := matcher.NewWithOptions(env, cfg.MatcherOptions())
	m.SetOutput(out)

	if err := m.MatchUnobfuscated(); err != nil {
		return nil, fmt.Errorf("unobfuscated pass: %w", err)
	}

	return m, nil
}

// Run executes the full pipeline: load, trivial pass, auto-match, then the
// optional merge-match and name-propagation passes.
func Run(pathA, pathB string, cfg *config.Config, progress matcher.ProgressFunc) (*matcher.Matcher, error) {
	m, err := Load(pathA, pathB, cfg)
	if err != nil {
		return nil, err
	}

	if err := m.AutoMatchAll(progress); err != nil {
		return nil, fmt.Errorf("auto match: %w", err)
	}

	if cfg.Match.MergeMatch {
		if _, err := m.MergeMatchClasses(progress); err != nil {
			return nil, fmt.Errorf("merge match: %w", err)
		}
	}

	if cfg.Match.PropagateNames {
		m.PropagateNames(progress)
	}

	return m, nil
}
