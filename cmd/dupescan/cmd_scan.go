package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/owatch/dupescan/internal/config"
	"github.com/owatch/dupescan/internal/dupe"
	"github.com/owatch/dupescan/internal/errors"
	"github.com/owatch/dupescan/internal/fs"
	"github.com/owatch/dupescan/internal/report"
	"github.com/owatch/dupescan/internal/scanner"
)

var cmdScan = &cobra.Command{
	Use:   "scan [flags] DIR ...",
	Short: "Scan directory trees and group files by name",
	Long: `
The "scan" command walks the given directories and records every regular
file it can reach. Files sharing a base name are grouped together. Once
the walk finishes, an interactive prompt supports searching the groups
by name, printing the whole table and quitting.

Entries that cannot be read are reported and skipped; they never abort
the scan.

EXIT STATUS
===========

Exit status is 0 if the command was successful.
Exit status is 1 if there was a fatal error (no scan performed).
`,
	DisableAutoGenTag: true,
	Args:              cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd.Context(), scanOptions, args, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// ScanOptions bundles all options for the scan command.
type ScanOptions struct {
	Config          string
	TableSize       int
	ReadConcurrency uint
	MaxPathLength   int
	Report          string
	LogLevel        string
}

var scanOptions ScanOptions

func init() {
	cmdRoot.AddCommand(cmdScan)

	f := cmdScan.Flags()
	f.StringVar(&scanOptions.Config, "config", "", "read settings from `file`")
	f.IntVar(&scanOptions.TableSize, "table-size", 0, "use `n` hash table buckets (default: from config)")
	f.UintVar(&scanOptions.ReadConcurrency, "read-concurrency", 0, "scan `n` targets concurrently (default: from config)")
	f.IntVar(&scanOptions.MaxPathLength, "max-path-length", 0, "skip paths longer than `n` bytes (default: from config)")
	f.StringVar(&scanOptions.Report, "report", "", "write a JSON report to `file` after scanning ('.zst' compresses it)")
	f.StringVar(&scanOptions.LogLevel, "log-level", "", "log messages at `level` and above (default: from config)")
}

// scanConfig merges the configuration file with the command line flags.
// Flags that were set win over the file.
func scanConfig(opts ScanOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		cfg, err = config.Load(opts.Config)
		if err != nil {
			return nil, err
		}
	}

	// Zero means the flag was left alone. Anything else, including a
	// negative value, is taken over so Validate can reject it.
	if opts.TableSize != 0 {
		cfg.Index.TableSize = opts.TableSize
	}
	if opts.ReadConcurrency != 0 {
		cfg.Scanner.Concurrency = opts.ReadConcurrency
	}
	if opts.MaxPathLength != 0 {
		cfg.Scanner.MaxPathLength = opts.MaxPathLength
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScan(ctx context.Context, opts ScanOptions, args []string, in io.Reader, out io.Writer) error {
	cfg, err := scanConfig(opts)
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return errors.Wrapf(err, "log level %q", cfg.Log.Level)
	}
	log.SetLevel(level)

	idx := dupe.New(dupe.Options{TableSize: cfg.Index.TableSize})
	if err := idx.Init(); err != nil {
		return err
	}

	var targetFS fs.FS = fs.Local{}

	summary := &report.ScanSummary{ScanStart: time.Now()}
	var summaryMu sync.Mutex

	sc := scanner.NewScanner(targetFS)
	sc.MaxPathLen = cfg.Scanner.MaxPathLength
	sc.Concurrency = cfg.Scanner.Concurrency
	sc.Error = handleScanError
	sc.Result = func(target string, s scanner.ScanStats) {
		log.Debugf("scan completed, target: %s, stats: %+v", target, s)
		summaryMu.Lock()
		defer summaryMu.Unlock()
		summary.Add(s)
	}

	for _, target := range args {
		fmt.Fprintf(out, "dupescan: Scanning top-level directory %s\n", target)
	}
	if err := sc.Scan(ctx, idx, args); err != nil {
		return err
	}
	summary.ScanEnd = time.Now()

	fmt.Fprintf(out, "dupescan: Finished scanning (%d files found).\n", idx.Count())

	if opts.Report != "" {
		if err := writeReport(opts.Report, args, summary, idx, out); err != nil {
			return err
		}
	}

	if err := prompt(in, out, idx); err != nil {
		return err
	}

	if err := idx.Close(); err != nil {
		log.Warnf("closing index: %v", err)
	}
	return nil
}

// handleScanError logs unreadable entries and keeps the scan going.
// Anything that is not an entry level problem aborts.
func handleScanError(file string, err error) error {
	if scanner.IsEntryError(err) || scanner.IsPathTooLong(err) {
		log.Warnf("cannot scan %s, ignoring: %v", file, err)
		return nil
	}
	return err
}

func writeReport(path string, targets []string, summary *report.ScanSummary, idx *dupe.Index, out io.Writer) error {
	hostname, err := os.Hostname()
	if err != nil {
		log.Warnf("hostname lookup: %v", err)
	}

	r, err := report.NewReport(targets, hostname, time.Now())
	if err != nil {
		return err
	}
	r.ProgramVersion = "dupescan " + version
	r.Summary = summary

	if err := r.Collect(idx); err != nil {
		return err
	}

	digest, err := r.Export(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "dupescan: Report written to %s (sha256 %s).\n", path, digest)
	return nil
}

const promptMenu = "\n- Search duplicates by name: s\n" +
	"- Print file table contents: a\n" +
	"- Quit (cleanly)           : q\n"

// prompt runs the interactive loop on in until the quit option is given
// or the input ends.
func prompt(in io.Reader, out io.Writer, idx *dupe.Index) error {
	printer := report.NewPrinter(out)

	words := bufio.NewScanner(in)
	words.Split(bufio.ScanWords)

	for {
		fmt.Fprintf(out, "%s:", promptMenu)

		word, ok := nextWord(words)
		if !ok {
			return nil
		}

		switch word[0] {
		case 'a':
			if err := printer.PrintAll(idx); err != nil {
				return err
			}

		case 's':
			fmt.Fprint(out, "\nName: ")
			name, ok := nextWord(words)
			if !ok {
				return nil
			}
			if len(name) > fs.NameMax {
				fmt.Fprintf(out, "\nNo file name is longer than %d characters.\n", fs.NameMax)
				continue
			}
			fmt.Fprintf(out, "\nSearching for %s\n", name)

			c, err := idx.Find(name)
			if err != nil {
				return err
			}
			if err := printer.PrintSearch(name, c); err != nil {
				return err
			}

		case 'q':
			return nil
		}
	}
}

// nextWord returns the next whitespace separated token of the input.
func nextWord(words *bufio.Scanner) (string, bool) {
	if !words.Scan() {
		return "", false
	}
	return strings.TrimSpace(words.Text()), true
}
