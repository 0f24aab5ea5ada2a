package main

import (
	"github.com/classmatch/classmatch/internal/service/match"
	"github.com/urfave/cli/v2"
)

func automatchCmd() *cli.Command {
	return &cli.Command{
		Name:      "automatch",
		Aliases:   []string{"auto"},
		Usage:     "Run the full auto-match pipeline over two class summaries",
		ArgsUsage: "<summaryA> <summaryB>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "level",
				Usage: "Classifier level: initial, intermediate, full, extra",
			},
			&cli.BoolFlag{
				Name:  "merge",
				Usage: "Verify matched classes by instruction similarity afterwards",
			},
			&cli.BoolFlag{
				Name:  "no-propagate",
				Usage: "Skip name propagation over method hierarchies",
			},
		},
		Action: runAutomatch,
	}
}

func runAutomatch(c *cli.Context) error {
	pathA, pathB, err := summaryPaths(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if level := c.String("level"); level != "" {
		cfg.Match.Level = level
	}

	if c.Bool("merge") {
		cfg.Match.MergeMatch = true
	}

	if c.Bool("no-propagate") {
		cfg.Match.PropagateNames = false
	}

	tracker, report := trackProgress("Matching...")

	m, err := match.Run(pathA, pathB, cfg, report)
	if err != nil {
		tracker.FinishError(err)

		return err
	}

	tracker.FinishSuccess()

	return printStatus(c, m)
}
