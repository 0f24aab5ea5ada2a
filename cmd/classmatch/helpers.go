package main

import (
	"fmt"

	"github.com/classmatch/classmatch/pkg/config"
	"github.com/classmatch/classmatch/pkg/matcher"
	"github.com/classmatch/classmatch/pkg/output"
	"github.com/classmatch/classmatch/pkg/progress"
	"github.com/urfave/cli/v2"
)

// loadConfig resolves the effective config: the --config file when given,
// the standard locations otherwise. Command flags override afterwards.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}

		return cfg, nil
	}

	return config.LoadOrDefault(), nil
}

// summaryPaths pulls the two positional summary document arguments.
func summaryPaths(c *cli.Context) (string, string, error) {
	if c.Args().Len() != 2 {
		return "", "", fmt.Errorf("expected two summary documents, got %d arguments", c.Args().Len())
	}

	return c.Args().Get(0), c.Args().Get(1), nil
}

func newFormatter(c *cli.Context) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), true)
}

// trackProgress creates a progress bar and hands back its report func.
func trackProgress(label string) (*progress.Tracker, matcher.ProgressFunc) {
	tracker := progress.NewTracker(label)

	return tracker, tracker.Report
}

func statusTableFor(m *matcher.Matcher, inputsOnly bool) *output.Table {
	return output.StatusTable(m.Status(inputsOnly))
}

func printStatus(c *cli.Context, m *matcher.Matcher) error {
	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(statusTableFor(m, true))
}
