package main

import (
	"github.com/classmatch/classmatch/internal/service/match"
	"github.com/urfave/cli/v2"
)

func propagateCmd() *cli.Command {
	return &cli.Command{
		Name:      "propagate",
		Usage:     "Auto-match and spread mapped names across method hierarchies",
		ArgsUsage: "<summaryA> <summaryB>",
		Action:    runPropagate,
	}
}

func runPropagate(c *cli.Context) error {
	pathA, pathB, err := summaryPaths(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	cfg.Match.PropagateNames = true

	tracker, report := trackProgress("Propagating...")

	m, err := match.Run(pathA, pathB, cfg, report)
	if err != nil {
		tracker.FinishError(err)

		return err
	}

	tracker.FinishSuccess()

	return printStatus(c, m)
}
