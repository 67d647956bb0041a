package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-outline2deck/internal/config"
	"github.com/alnah/go-outline2deck/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .json, .yaml, .yml, .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// outlineExtensions are the file types export accepts.
var outlineExtensions = map[string]bool{
	".json":     true,
	".yaml":     true,
	".yml":      true,
	".md":       true,
	".markdown": true,
}

// FileToExport represents a single file to process.
type FileToExport struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all outline files to export. ext is the output
// extension, with leading dot.
func discoverFiles(inputPath, outputDir, ext string) ([]FileToExport, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateOutlineExtension(inputPath); err != nil {
			return nil, err
		}
		outPath, err := resolveOutputPath(inputPath, outputDir, "", ext)
		if err != nil {
			return nil, err
		}
		return []FileToExport{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToExport
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isOutlineFile(path) {
			return nil
		}
		outPath, err := resolveOutputPath(path, outputDir, inputPath, ext)
		if err != nil {
			return err
		}
		files = append(files, FileToExport{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for an outline file.
// Directory inputs mirror their layout under outputDir. An outputDir that
// already ends in ext names the output file itself. The result never
// equals inputPath.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) (string, error) {
	out, err := outputPathFor(inputPath, outputDir, baseInputDir, ext)
	if err != nil {
		return "", err
	}
	if filepath.Clean(out) == filepath.Clean(inputPath) {
		return fileutil.ReplaceExt(out, ".canonical"+ext)
	}
	return out, nil
}

func outputPathFor(inputPath, outputDir, baseInputDir, ext string) (string, error) {
	if outputDir == "" {
		return fileutil.ReplaceExt(inputPath, ext)
	}

	if baseInputDir == "" && strings.EqualFold(filepath.Ext(outputDir), ext) {
		return outputDir, nil
	}

	base, err := fileutil.ReplaceExt(filepath.Base(inputPath), ext)
	if err != nil {
		return "", err
	}
	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(rel), base), nil
		}
	}
	return filepath.Join(outputDir, base), nil
}

func isOutlineFile(path string) bool {
	return outlineExtensions[strings.ToLower(filepath.Ext(path))]
}

// validateOutlineExtension checks that the file has a supported extension.
func validateOutlineExtension(path string) error {
	if !isOutlineFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
