package main

import (
	"github.com/classmatch/classmatch/internal/service/match"
	"github.com/urfave/cli/v2"
)

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Report match totals after the trivial unobfuscated pass only",
		ArgsUsage: "<summaryA> <summaryB>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Count library and synthesized classes too",
			},
		},
		Action: runStatus,
	}
}

func runStatus(c *cli.Context) error {
	pathA, pathB, err := summaryPaths(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	m, err := match.Load(pathA, pathB, cfg)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(statusTableFor(m, !c.Bool("all")))
}
