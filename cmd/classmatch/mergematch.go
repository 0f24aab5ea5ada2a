package main

import (
	"github.com/classmatch/classmatch/internal/service/match"
	"github.com/urfave/cli/v2"
)

func mergematchCmd() *cli.Command {
	return &cli.Command{
		Name:      "mergematch",
		Usage:     "Auto-match, then demote class pairs whose matched methods diverge in bytecode",
		ArgsUsage: "<summaryA> <summaryB>",
		Action:    runMergematch,
	}
}

func runMergematch(c *cli.Context) error {
	pathA, pathB, err := summaryPaths(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	cfg.Match.MergeMatch = true

	tracker, report := trackProgress("Merge matching...")

	m, err := match.Run(pathA, pathB, cfg, report)
	if err != nil {
		tracker.FinishError(err)

		return err
	}

	tracker.FinishSuccess()

	return printStatus(c, m)
}
