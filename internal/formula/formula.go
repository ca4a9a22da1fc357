// Package formula turns LaTeX expressions into image URLs served by a
// formula-rendering endpoint (codecogs-compatible GET API).
package formula

import (
	"context"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public codecogs PNG renderer.
const DefaultBaseURL = "https://latex.codecogs.com/png.image"

// renderDirectives force a print-friendly rendering: 150 dpi on a
// white background (documents print on white paper; the default
// transparent background turns black in some Word versions).
const renderDirectives = `\dpi{150}\bg{white} `

// Renderer builds formula-image URLs. It performs no I/O itself; the
// asset inliner downstream fetches and embeds the image.
type Renderer struct {
	baseURL string
}

// New creates a Renderer; an empty baseURL selects the default.
func New(baseURL string) *Renderer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Renderer{baseURL: strings.TrimSuffix(baseURL, "/")}
}

// RenderFormula returns the image URL for expr. The block flag is
// accepted for interface symmetry; display style is handled by the
// surrounding markup, not the renderer.
func (r *Renderer) RenderFormula(_ context.Context, expr string, _ bool) string {
	return r.baseURL + "?" + url.QueryEscape(renderDirectives+Normalize(expr))
}

// Normalize collapses all interior whitespace (including newlines in
// block formulas) to single spaces.
func Normalize(expr string) string {
	return strings.Join(strings.Fields(expr), " ")
}
