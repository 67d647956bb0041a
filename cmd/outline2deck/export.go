package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	outline2deck "github.com/alnah/go-outline2deck"
	"github.com/alnah/go-outline2deck/internal/fileutil"
	"github.com/alnah/go-outline2deck/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for export operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadInput   = errors.New("failed to read outline file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// Exporter renders canonical outlines. Satisfied by *outline2deck.Renderer.
type Exporter interface {
	Render(ctx context.Context, input outline2deck.Input) (*outline2deck.DeckDocument, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*outline2deck.Renderer)(nil)

// exportParams groups settings shared by every file in a batch.
type exportParams struct {
	template string
	format   outline2deck.Format
	title    string
}

// ExportResult holds the outcome of a single export.
type ExportResult struct {
	InputPath  string
	OutputPath string
	Slides     int
	Err        error
	Duration   time.Duration
}

// runExport orchestrates the export process.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeDeckFlags(&flags.deck, cfg)
	setString(&cfg.Templates.AssetPath, flags.assets)
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}

	format, err := outline2deck.ParseFormat(cfg.Deck.Format)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForFormats(formatNames()))
	}

	renderer, err := newRenderer(cfg, env)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}

	files, err := discoverFiles(inputPath, outputDir, format.Extension())
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no outline files found in %s", ErrNoInput, inputPath)
	}

	workers := outline2deck.ResolveWorkers(cfg.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Exporting %d file(s) with %d worker(s)\n", len(files), workers)
	}

	params := &exportParams{
		template: cfg.Deck.Template,
		format:   format,
		title:    flags.deck.title,
	}
	results := exportBatch(ctx, renderer, files, params, workers)

	summary := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if summary.Failed > 0 {
		return fmt.Errorf("%d export(s) failed: %w", summary.Failed, firstError(results))
	}
	return nil
}

// resolveInputPath returns the single positional input.
func resolveInputPath(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", ErrNoInput
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
}

// exportBatch renders files concurrently. Results keep the order of files.
func exportBatch(ctx context.Context, r Exporter, files []FileToExport, params *exportParams, workers int) []ExportResult {
	if len(files) == 0 {
		return nil
	}
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]ExportResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ExportResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = exportFile(ctx, r, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// exportFile processes a single file and returns the result.
func exportFile(ctx context.Context, r Exporter, f FileToExport, params *exportParams) ExportResult {
	start := time.Now()
	result := ExportResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	done := func(err error) ExportResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	outline, err := readOutline(f.InputPath)
	if err != nil {
		return done(err)
	}

	doc, err := r.Render(ctx, outline2deck.Input{
		Outline:  outline,
		Template: params.template,
		Format:   params.format,
		Title:    params.title,
	})
	if err != nil {
		return done(err)
	}
	result.Slides = doc.SlideCount

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory()))
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, doc.Data, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	return done(nil)
}

// readOutline reads and normalizes an outline file, choosing the decoder
// by extension.
func readOutline(path string) (*outline2deck.Outline, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided or discovered path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	var outline *outline2deck.Outline
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		outline, err = outline2deck.NormalizeYAML(data)
	case ".md", ".markdown":
		outline, err = outline2deck.NormalizeMarkdown(data)
	default:
		outline, err = outline2deck.Normalize(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w%s", path, err, hints.ForInvalidOutline())
	}
	return outline, nil
}

// ResultSummary holds the count of succeeded and failed exports.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed exports.
func countResults(results []ExportResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs export results using the environment writers.
func printResults(results []ExportResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d slides, %v)\n",
				r.InputPath, r.OutputPath, r.Slides, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	return summary
}

func firstError(results []ExportResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

func formatNames() []string {
	formats := outline2deck.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
