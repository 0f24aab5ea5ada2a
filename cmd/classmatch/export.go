package main

import (
	"fmt"
	"time"

	"github.com/classmatch/classmatch/internal/service/match"
	"github.com/classmatch/classmatch/pkg/mapping"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Auto-match and write Enigma-format mapping trees",
		ArgsUsage: "<summaryA> <summaryB> <dstDir>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "merge",
				Usage: "Verify matched classes by instruction similarity before exporting",
			},
		},
		Action: runExport,
	}
}

func runExport(c *cli.Context) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("expected two summary documents and a destination directory, got %d arguments", c.Args().Len())
	}

	pathA := c.Args().Get(0)
	pathB := c.Args().Get(1)
	dstDir := c.Args().Get(2)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if c.Bool("merge") {
		cfg.Match.MergeMatch = true
	}

	tracker, report := trackProgress("Matching...")

	m, err := match.Run(pathA, pathB, cfg, report)
	if err != nil {
		tracker.FinishError(err)

		return err
	}

	tracker.FinishSuccess()

	written, err := mapping.WriteEnigma(m.Env(), dstDir)
	if err != nil {
		return fmt.Errorf("writing mappings: %w", err)
	}

	if err := mapping.WriteProvenance(dstDir, version, time.Now()); err != nil {
		return fmt.Errorf("writing provenance: %w", err)
	}

	color.Green("Wrote %d mapping files to %s", written, dstDir)

	return printStatus(c, m)
}
