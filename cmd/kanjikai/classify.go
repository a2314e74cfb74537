package main

import (
	"github.com/urfave/cli/v2"

	"github.com/japaniel/kanjikai/pkg/query"
)

func classifyCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "show how search strings are interpreted, without fetching",
		ArgsUsage: "TEXT...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("classify: at least one TEXT is required", ExitCodeUsage)
			}
			tbl := newTable(e.stdout, "Input", "Kind", "Key")
			for _, raw := range c.Args().Slice() {
				q := query.Classify(raw)
				tbl.AddRow(raw, q.Kind, orDash(q.Key))
			}
			tbl.Print()
			return nil
		},
	}
}
