package main

import (
	"errors"
	"os"

	outline2deck "github.com/alnah/go-outline2deck"
	"github.com/alnah/go-outline2deck/internal/config"
	"github.com/alnah/go-outline2deck/internal/inspect"
)

// Exit codes for the outline2deck CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, outline, or request
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitRender  = 4 // Document generation failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, outline2deck.ErrRender) {
		return ExitRender
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrListen) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, outline2deck.ErrTemplateNotFound) ||
		errors.Is(err, outline2deck.ErrInvalidTemplate) ||
		errors.Is(err, outline2deck.ErrInvalidAssetPath) ||
		errors.Is(err, inspect.ErrNotPresentation) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	switch outline2deck.KindOf(err) {
	case outline2deck.KindInvalidOutline, outline2deck.KindInvalidRequest:
		return ExitUsage
	}

	return ExitGeneral
}
