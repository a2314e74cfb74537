package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/japaniel/kanjikai/pkg/db"
)

func cacheCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "inspect or clear the persistent response cache",
		Before: func(*cli.Context) error {
			if e.conn == nil {
				return cli.Exit("cache: no cache database configured (--cache-db or KANJIKAI_CACHE_DB)", ExitCodeUsage)
			}
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "print the number, size and age of cached responses",
				Action: func(*cli.Context) error { return e.cacheStats() },
			},
			{
				Name:   "list",
				Usage:  "print the cached endpoint paths",
				Action: func(*cli.Context) error { return e.cacheList() },
			},
			{
				Name:   "clear",
				Usage:  "remove every cached response",
				Action: func(*cli.Context) error { return e.cacheClear() },
			},
		},
	}
}

func humanTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func (e *env) cacheStats() error {
	s, err := db.ResponseStats(e.conn)
	if err != nil {
		return err
	}
	tbl := newTable(e.stdout, "Database", e.cfg.Cache.DBPath)
	tbl.AddRow("Responses", humanize.Comma(s.Count))
	tbl.AddRow("Size", humanize.Bytes(uint64(s.Bytes)))
	tbl.AddRow("Oldest", humanTime(s.Oldest))
	tbl.AddRow("Newest", humanTime(s.Newest))
	tbl.Print()
	return nil
}

func (e *env) cacheList() error {
	paths, err := db.ListPaths(e.conn)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(e.stdout, p)
	}
	return nil
}

func (e *env) cacheClear() error {
	n, err := db.DeleteResponses(e.conn)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "removed %s cached responses\n", humanize.Comma(n))
	return nil
}
