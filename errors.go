package tgbotq

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyContent = errors.New("document content cannot be empty")
	ErrEmptyTopic   = errors.New("document topic cannot be empty")
	ErrCoverRender  = errors.New("cover template rendering failed")

	// PDF rendering errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Configuration validation errors.
	ErrInvalidRetryPolicy = errors.New("invalid retry policy")
	ErrInvalidConcurrency = errors.New("invalid marker concurrency")

	// Asset loading errors.
	ErrStyleNotFound         = errors.New("style not found")
	ErrCoverTemplateNotFound = errors.New("cover template not found")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)
