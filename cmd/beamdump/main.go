// Command beamdump prints the chunk layout, atoms and exports of compiled
// BEAM module files.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/beam"
	"github.com/wippyai/beam/errors"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	format      string
	operands    string
	count       int
	interactive bool
	verbose     bool
	digest      bool
	noColor     bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cfg config

	flagSet := pflag.NewFlagSet("beamdump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&cfg.format, "format", "f", string(formatText), "output format: text, yaml, cbor or dump")
	flagSet.BoolVarP(&cfg.interactive, "interactive", "i", false, "browse chunks in a terminal UI")
	flagSet.BoolVarP(&cfg.verbose, "verbose", "v", false, "log decoding steps to stderr")
	flagSet.BoolVar(&cfg.digest, "digest", false, "include a BLAKE3 digest of each chunk payload")
	flagSet.BoolVar(&cfg.noColor, "no-color", false, "disable styled output")
	flagSet.StringVar(&cfg.operands, "operands", "", "decode packed operand tags from a hex string instead of reading files")
	flagSet.IntVarP(&cfg.count, "count", "n", 0, "number of operands to decode with --operands (0: until the input is exhausted)")
	flagSet.Usage = func() { printHelp(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	format, err := parseFormat(cfg.format)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	beam.SetLogger(log.Named("beam"))

	color := !cfg.noColor && isTerminal(stdout)
	st := newStyles(color)

	if cfg.operands != "" {
		data, err := hex.DecodeString(strings.ReplaceAll(cfg.operands, " ", ""))
		if err != nil {
			return fmt.Errorf("operands: %w", err)
		}
		if cfg.count < 0 {
			return fmt.Errorf("count must not be negative")
		}
		return writeOperands(stdout, data, cfg.count, st)
	}

	files := flagSet.Args()
	if len(files) == 0 {
		printHelp(stderr, flagSet)
		return fmt.Errorf("no input files")
	}
	if cfg.interactive && (len(files) != 1 || !isTerminal(stdout)) {
		return fmt.Errorf("interactive mode needs exactly one file and a terminal")
	}

	for i, file := range files {
		data, err := loadFile(file, stdin, log)
		if err != nil {
			return err
		}
		m, err := beam.Decode(data)
		if err != nil {
			return errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, file)
		}
		rep := buildReport(file, m, cfg.digest, log)

		if cfg.interactive {
			return runInteractive(rep, m)
		}
		if i > 0 && format == formatText {
			fmt.Fprintln(stdout)
		}
		if err := writeReport(stdout, rep, m, format, st); err != nil {
			return errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, string(format)+" report for "+file)
		}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `beamdump - inspect compiled BEAM module files.

Prints the chunk layout, atom table and exports of each file. Files may
be gzip or zstd compressed. Use "-" to read from stdin.

Usage:
  beamdump [flags] FILE...
  beamdump --operands HEX [-n COUNT]

Flags:
%s`, flagSet.FlagUsages())
}
