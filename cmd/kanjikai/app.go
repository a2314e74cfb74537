package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/urfave/cli/v2"

	"github.com/japaniel/kanjikai/pkg/api"
	"github.com/japaniel/kanjikai/pkg/config"
	"github.com/japaniel/kanjikai/pkg/db"
	"github.com/japaniel/kanjikai/pkg/display"
	"github.com/japaniel/kanjikai/pkg/logging"
	"github.com/japaniel/kanjikai/pkg/lookup"
)

// env is the state shared by commands. It is populated by setup and torn
// down by teardown.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg    *config.Config
	disp   *display.Config
	tables *display.Tables
	conn   *sql.DB
	cache  *db.ResponseCache
	engine *lookup.Engine
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}

	return &cli.App{
		Name:      filepath.Base(os.Args[0]),
		Usage:     "Look up kanji and readings in a kanji dictionary.",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "dictionary API base `URL`",
			},
			&cli.StringFlag{
				Name:  "cache-db",
				Usage: "persist responses in the SQLite database at `PATH`",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log `LEVEL` (debug, info, warn, error, fatal)",
			},
			&cli.BoolFlag{
				Name:  "retry-failed",
				Usage: "fetch failed lookups again instead of reusing the failure",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "maximum concurrent fetches",
			},
		},
		HideHelpCommand: true,
		// Exit codes are mapped by run; the default handler calls os.Exit.
		ExitErrHandler: func(*cli.Context, error) {},
		Before:         e.setup,
		After:          e.teardown,
		Commands: []*cli.Command{
			lookupCommand(e),
			classifyCommand(e),
			scanCommand(e),
			cacheCommand(e),
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return cli.Exit(err, ExitCodeUsage)
	}
	if c.IsSet("api-url") {
		cfg.API.BaseURL = c.String("api-url")
	}
	if c.IsSet("cache-db") {
		cfg.Cache.DBPath = c.String("cache-db")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("retry-failed") {
		cfg.Lookup.RetryFailed = c.Bool("retry-failed")
	}
	if c.IsSet("workers") {
		cfg.Lookup.Workers = c.Int("workers")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Errorf("config: %w", err), ExitCodeUsage)
	}
	e.cfg = cfg

	logging.Init(cfg.Log.Level, e.stderr)

	e.disp = display.NewConfig(cfg.Display.Romaji)
	e.tables, err = display.LoadTables(cfg.Display.JoyoFile, cfg.Display.JinmeiyoFile)
	if err != nil {
		return cli.Exit(err, ExitCodeUsage)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	client.UserAgent = cfg.API.UserAgent
	client.MaxBodyBytes = cfg.API.MaxBodyBytes

	var fetcher api.Fetcher = client
	if cfg.Cache.DBPath != "" {
		e.conn, err = db.Open(cfg.Cache.DBPath)
		if err != nil {
			return cli.Exit(err, ExitCodeUsage)
		}
		e.cache = db.NewResponseCache(e.conn, cfg.Cache.BatchSize, cfg.Cache.FlushInterval)
		fetcher = api.NewCachedFetcher(client, e.cache)
	}

	retry := lookup.RetryNever
	if cfg.Lookup.RetryFailed {
		retry = lookup.RetryOnLookup
	}
	e.engine = lookup.NewEngine(fetcher, lookup.Options{
		Resolver: api.Resolver{CorpusPath: cfg.API.CorpusPath},
		Retry:    retry,
		Workers:  cfg.Lookup.Workers,
		OnRedraw: func() { log.Debug("redraw") },
	})

	log.WithFields(log.Fields{
		"api":   cfg.API.BaseURL,
		"cache": cfg.Cache.DBPath,
	}).Debug("kanjikai ready")
	return nil
}

func (e *env) teardown(*cli.Context) error {
	var errs []error
	if e.engine != nil {
		e.engine.Close()
	}
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("flush response cache: %w", err))
		}
	}
	if e.conn != nil {
		if err := e.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// romajiFlag is used by the commands that print readings.
func romajiFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "romaji",
		Aliases: []string{"r"},
		Usage:   "print readings in romaji (katakana as upper case)",
	}
}

func (e *env) applyRomaji(c *cli.Context) {
	if c.IsSet("romaji") {
		e.disp.SetRomaji(c.Bool("romaji"))
	}
}
