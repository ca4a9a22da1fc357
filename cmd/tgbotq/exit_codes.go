package main

import (
	"errors"
	"os"

	tgbotq "github.com/kstucoder/tgbotq"
	"github.com/kstucoder/tgbotq/internal/config"
)

// Exit codes for the tgbotq CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0 // Document built
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors (PDF output)
)

// exitCodeFor returns the appropriate exit code for an error. It uses
// errors.Is to check wrapped errors, so callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, tgbotq.ErrBrowserConnect) ||
		errors.Is(err, tgbotq.ErrPageCreate) ||
		errors.Is(err, tgbotq.ErrPageLoad) ||
		errors.Is(err, tgbotq.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, errReadInput) ||
		errors.Is(err, errWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, tgbotq.ErrEmptyContent) ||
		errors.Is(err, tgbotq.ErrEmptyTopic) ||
		errors.Is(err, tgbotq.ErrInvalidRetryPolicy) ||
		errors.Is(err, tgbotq.ErrInvalidConcurrency) ||
		errors.Is(err, tgbotq.ErrStyleNotFound) ||
		errors.Is(err, tgbotq.ErrCoverTemplateNotFound) ||
		errors.Is(err, tgbotq.ErrInvalidAssetPath) ||
		errors.Is(err, errMissingTopic) {
		return ExitUsage
	}

	return ExitGeneral
}
