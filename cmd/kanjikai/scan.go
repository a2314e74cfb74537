package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/japaniel/kanjikai/pkg/scan"
)

func scanCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "list the kanji used in a web page, a file or standard input",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "scan the article at `URL`",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "scan `PATH`; .html and .htm files are treated as web pages",
			},
			&cli.BoolFlag{
				Name:    "lookup",
				Aliases: []string{"l"},
				Usage:   "look up every kanji found and print its meanings",
			},
			romajiFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("url") && c.IsSet("file") {
				return cli.Exit("scan: --url and --file are mutually exclusive", ExitCodeUsage)
			}
			e.applyRomaji(c)
			return e.scan(c.Context, c.String("url"), c.String("file"), c.Bool("lookup"))
		},
	}
}

// loadText returns the text to scan and, for web pages, their title.
func (e *env) loadText(ctx context.Context, rawURL, path string) (scan.Page, error) {
	switch {
	case rawURL != "":
		u, err := url.Parse(rawURL)
		if err != nil {
			return scan.Page{}, fmt.Errorf("parse url: %w", err)
		}
		client := &http.Client{Timeout: e.cfg.API.Timeout}
		body, err := scan.FetchPage(ctx, client, rawURL)
		if err != nil {
			return scan.Page{}, err
		}
		return scan.ExtractPage(body, u)
	case path != "":
		body, err := os.ReadFile(path)
		if err != nil {
			return scan.Page{}, err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".html", ".htm":
			return scan.ExtractPage(body, nil)
		}
		return scan.Page{Text: string(body)}, nil
	default:
		body, err := io.ReadAll(e.stdin)
		if err != nil {
			return scan.Page{}, fmt.Errorf("read stdin: %w", err)
		}
		return scan.Page{Text: string(body)}, nil
	}
}

func (e *env) scan(ctx context.Context, rawURL, path string, withLookup bool) error {
	var (
		page     scan.Page
		analyzer *scan.Analyzer
	)

	// Loading the IPA dictionary and fetching the page are both slow.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		analyzer, err = scan.NewAnalyzer()
		if err != nil {
			return fmt.Errorf("create analyzer: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		page, err = e.loadText(gctx, rawURL, path)
		return err
	})
	if err := g.Wait(); err != nil {
		return cli.Exit(err, ExitCodeUsage)
	}

	occs := analyzer.Kanji(page.Text)
	log.WithField("kanji", len(occs)).Debug("scan complete")

	if page.Title != "" {
		fmt.Fprintf(e.stdout, "%s\n\n", page.Title)
	}
	if len(occs) == 0 {
		fmt.Fprintln(e.stdout, "no kanji found")
		return nil
	}

	if withLookup {
		for _, lit := range scan.Literals(occs) {
			e.engine.Lookup(lit)
		}
		e.engine.Wait()
	}

	headers := []interface{}{"Kanji", "Count", "Words", "Readings"}
	if withLookup {
		headers = append(headers, "Meanings", "Grade")
	}
	tbl := newTable(e.stdout, headers...)
	for _, o := range occs {
		row := []interface{}{o.Kanji, o.Count, strings.Join(o.Words, "、"), e.readings(o.Readings)}
		if withLookup {
			meanings, grade := "-", "-"
			if snap, ok := e.engine.Peek(o.Kanji); ok {
				if k, found := snap.Kanji(); found {
					meanings = orDash(strings.Join(k.Meanings, ", "))
					grade = k.GradeLabel()
				}
			}
			row = append(row, meanings, grade)
		}
		tbl.AddRow(row...)
	}
	tbl.Print()
	return nil
}
