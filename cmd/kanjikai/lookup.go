package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/japaniel/kanjikai/pkg/lookup"
	"github.com/japaniel/kanjikai/pkg/subject"
)

func lookupCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "look up kanji, kana or romaji readings",
		ArgsUsage: "QUERY...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "words",
				Aliases: []string{"w"},
				Usage:   "also list words written with each kanji",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "print at most `N` words per kanji (0 for all)",
				Value: 20,
			},
			romajiFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("lookup: at least one QUERY is required", ExitCodeUsage)
			}
			e.applyRomaji(c)
			return e.lookup(c.Args().Slice(), c.Bool("words"), c.Int("limit"))
		},
	}
}

func (e *env) lookup(queries []string, withWords bool, limit int) error {
	for _, q := range queries {
		e.engine.Lookup(q)
	}
	e.engine.Wait()

	snaps := make([]lookup.Snapshot, len(queries))
	for i, q := range queries {
		snaps[i], _ = e.engine.Peek(q)
	}

	if withWords {
		for _, s := range snaps {
			if k, ok := s.Kanji(); ok {
				e.engine.WordsFor(k)
			}
		}
		e.engine.Wait()
		if err := e.engine.CorpusErr(); err != nil {
			fmt.Fprintf(e.stderr, "words unavailable: %v\n", err)
		}
	}

	missing := 0
	for i, s := range snaps {
		if i > 0 {
			fmt.Fprintln(e.stdout)
		}
		switch subj := s.Subject.(type) {
		case *subject.Kanji:
			if !s.Found() {
				break
			}
			e.renderKanji(e.stdout, subj)
			if withWords {
				fmt.Fprintln(e.stdout)
				e.renderWords(e.stdout, e.engine.WordsFor(subj), limit)
			}
			continue
		case *subject.Reading:
			if !s.Found() {
				break
			}
			e.renderReading(e.stdout, subj)
			continue
		}
		missing++
		fmt.Fprintf(e.stdout, "%s: not found\n", queries[i])
	}

	if missing > 0 {
		return cli.Exit("", ExitCodeNotFound)
	}
	return nil
}
