// Package assets provides the document stylesheet and cover page
// template, embedded by default with an optional filesystem override.
package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Loader is the contract for loading stylesheets and cover templates.
type Loader interface {
	// LoadStyle loads a CSS stylesheet by name (without .css).
	LoadStyle(name string) (string, error)

	// LoadCover loads a cover page template by name (without .html).
	LoadCover(name string) (string, error)
}

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrCoverNotFound    = errors.New("cover template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)

// validateName rejects names that could escape the asset directories
// (path separators, dots).
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
