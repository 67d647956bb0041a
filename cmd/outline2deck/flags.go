package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags are shared by every command that reads configuration.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// deckFlags override deck-level settings.
type deckFlags struct {
	template string
	format   string
	aspect   string
	footer   string
	noFooter bool
	title    string
	author   string
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common  commonFlags
	deck    deckFlags
	output  string
	assets  string
	workers int
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common commonFlags
	addr   string
	assets string
}

// addCommonFlags adds flags shared by configured commands.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

func addDeckFlags(fs *flag.FlagSet, f *deckFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "template id")
	fs.StringVarP(&f.format, "format", "f", "", "output format: pptx, pdf, deck, json")
	fs.StringVar(&f.aspect, "aspect", "", "aspect ratio: 16:9, 4:3, 16:10")
	fs.StringVar(&f.footer, "footer", "", "footer label")
	fs.BoolVar(&f.noFooter, "no-footer", false, "hide the footer")
	fs.StringVar(&f.title, "title", "", "document title metadata")
	fs.StringVar(&f.author, "author", "", "document author metadata")
}

// newFlagSet creates a flag set that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseFlagSet parses args and marks parse failures as usage errors.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", printExportUsage, stderr)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.assets, "asset-path", "", "directory with custom templates")
	addDeckFlags(fs, &f.deck)
	addCommonFlags(fs, &f.common)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", printServeUsage, stderr)

	fs.StringVar(&f.addr, "addr", "", "listen address (default :5001)")
	fs.StringVar(&f.assets, "asset-path", "", "directory with custom templates")
	addCommonFlags(fs, &f.common)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}

// parseSimpleFlags parses commands that only take common flags.
func parseSimpleFlags(name string, usage func(io.Writer), args []string, stderr io.Writer) (*commonFlags, []string, error) {
	f := &commonFlags{}
	fs := newFlagSet(name, usage, stderr)
	addCommonFlags(fs, f)
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// normalizeFlags holds flags for the normalize command.
type normalizeFlags struct {
	common commonFlags
	yaml   bool
}

// parseNormalizeFlags parses normalize flags.
func parseNormalizeFlags(args []string, stderr io.Writer) (*normalizeFlags, []string, error) {
	f := &normalizeFlags{}
	fs := newFlagSet("normalize", printNormalizeUsage, stderr)
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.yaml, "yaml", false, "print YAML instead of JSON")
	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
