// Command kanjikai looks up kanji and kana readings in a remote kanji
// dictionary and lists the kanji used in Japanese text.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	// ExitCodeSuccess is returned when every command succeeded.
	ExitCodeSuccess int = iota
	// ExitCodeUsage is returned for bad flags, bad configuration and
	// other failures.
	ExitCodeUsage
	// ExitCodeNotFound is returned when any query had no result.
	ExitCodeNotFound
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	err := newApp(stdin, stdout, stderr).Run(args)
	if err == nil {
		return ExitCodeSuccess
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return ec.ExitCode()
	}
	fmt.Fprintln(stderr, err)
	return ExitCodeUsage
}
