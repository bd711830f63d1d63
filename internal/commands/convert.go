package commands

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/klabast/wb-services/perennial-kalender/internal/perennial"
)

// Output formats for the convert subcommand
const (
	FormatCompact = "compact"
	FormatHuman   = "human"
	FormatBoth    = "both"
)

// Convert handles the convert subcommand and returns the exit status.
// Dates are taken from args, or from stdin (one per line) when no dates
// are given.
func Convert(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	add := fs.Int("add", 0, "Days to add to each date (may be negative)")
	format := fs.String("format", FormatBoth, "Output format: compact, human or both")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: perennial-kalender convert [OPTIONS] [YYYY-MM-DD ...]\n\n")
		fmt.Fprintf(stderr, "Converts Gregorian dates to the perennial calendar.\n")
		fmt.Fprintf(stderr, "Reads dates from stdin when none are given.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	switch *format {
	case FormatCompact, FormatHuman, FormatBoth:
	default:
		fmt.Fprintf(stderr, "Unknown format %q\n", *format)
		return 2
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				inputs = append(inputs, line)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(stderr, "Error reading input: %v\n", err)
			return 1
		}
	}

	// Aligned table with a header for people, plain lines for pipes
	table := isTerminal(stdout)
	out := stdout
	var tw *tabwriter.Writer
	if table {
		tw = tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		out = tw
		writeRow(out, *format, "GREGORIAN", "COMPACT", "HUMAN READABLE")
	}

	status := 0
	for _, input := range inputs {
		d, err := convertOne(input, *add)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", input, err)
			status = 1
			continue
		}
		writeRow(out, *format, d.FormatGregorian(), d.Compact(), d.HumanReadable())
	}

	if tw != nil {
		if err := tw.Flush(); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return 1
		}
	}
	return status
}

func convertOne(input string, add int) (perennial.Date, error) {
	d, err := perennial.Parse(input)
	if err != nil || add == 0 {
		return d, err
	}
	return d.AddDays(add)
}

func writeRow(w io.Writer, format, gregorian, compact, human string) {
	switch format {
	case FormatCompact:
		fmt.Fprintf(w, "%s\t%s\n", gregorian, compact)
	case FormatHuman:
		fmt.Fprintf(w, "%s\t%s\n", gregorian, human)
	default:
		fmt.Fprintf(w, "%s\t%s\t%s\n", gregorian, compact, human)
	}
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
