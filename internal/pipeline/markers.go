package pipeline

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Translator turns an image description into an English generation
// prompt. Best effort: implementations return the input on failure.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// ImageGenerator resolves a prompt to an image URL. Never fails:
// implementations fall back to a placeholder URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) string
}

// AssetInliner converts an image URL to a data URI, or returns the
// URL unchanged when it cannot.
type AssetInliner interface {
	Inline(ctx context.Context, url string) string
}

// FormulaRenderer maps a LaTeX expression to a formula-image URL.
type FormulaRenderer interface {
	RenderFormula(ctx context.Context, expr string, block bool) string
}

// Substituter replaces inline markers in prose with embedded markup.
type Substituter interface {
	Substitute(ctx context.Context, content string) (string, error)
}

type markerKind int

const (
	markerImage markerKind = iota
	markerFormulaBlock
	markerFormulaInline
)

// marker is one matched span awaiting resolution.
type marker struct {
	kind  markerKind
	start int
	end   int
	index string // image number as written in the marker
	text  string // image description or formula expression
}

var (
	imageMarkerRe   = regexp.MustCompile(`\[RASM\s+(\d+):\s*([^\]]+)\]`)
	blockFormulaRe  = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)
	inlineFormulaRe = regexp.MustCompile(`\$([^$\n]+?)\$`)
)

// defaultFanout bounds concurrent marker resolutions when the caller
// does not configure one.
const defaultFanout = 3

// promptBoilerplate frames every translated description so generated
// images share a consistent print-friendly look.
const promptBoilerplate = "High-quality minimalist scientific infographic on white background, " +
	"no people, no watermark, no text labels. Topic: %s. " +
	"Vector-style diagram, clean lines, flat colors."

// Engine finds and resolves markers. Resolutions run concurrently
// under a bounded semaphore; the document is reassembled
// deterministically by byte offset.
type Engine struct {
	translator Translator
	generator  ImageGenerator
	inliner    AssetInliner
	formulas   FormulaRenderer
	fanout     int
	logger     *slog.Logger
}

var _ Substituter = (*Engine)(nil)

// NewEngine wires a marker engine. fanout < 1 selects the default.
func NewEngine(t Translator, g ImageGenerator, a AssetInliner, f FormulaRenderer,
	fanout int, logger *slog.Logger) *Engine {
	if fanout < 1 {
		fanout = defaultFanout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		translator: t,
		generator:  g,
		inliner:    a,
		formulas:   f,
		fanout:     fanout,
		logger:     logger,
	}
}

// findMarkers locates all marker spans in content. Block formulas are
// matched first so their interior never re-matches as inline spans or
// swallows image markers; later passes skip overlapping candidates.
func findMarkers(content string) []marker {
	var markers []marker
	taken := func(start, end int) bool {
		for _, m := range markers {
			if start < m.end && end > m.start {
				return true
			}
		}
		return false
	}

	for _, loc := range blockFormulaRe.FindAllStringSubmatchIndex(content, -1) {
		markers = append(markers, marker{
			kind:  markerFormulaBlock,
			start: loc[0],
			end:   loc[1],
			text:  content[loc[2]:loc[3]],
		})
	}
	for _, loc := range imageMarkerRe.FindAllStringSubmatchIndex(content, -1) {
		if taken(loc[0], loc[1]) {
			continue
		}
		markers = append(markers, marker{
			kind:  markerImage,
			start: loc[0],
			end:   loc[1],
			index: content[loc[2]:loc[3]],
			text:  strings.TrimSpace(content[loc[4]:loc[5]]),
		})
	}
	for _, loc := range inlineFormulaRe.FindAllStringSubmatchIndex(content, -1) {
		if taken(loc[0], loc[1]) {
			continue
		}
		markers = append(markers, marker{
			kind:  markerFormulaInline,
			start: loc[0],
			end:   loc[1],
			text:  strings.TrimSpace(content[loc[2]:loc[3]]),
		})
	}

	sort.Slice(markers, func(i, j int) bool { return markers[i].start < markers[j].start })
	return markers
}

// Substitute resolves every marker in content and splices the
// replacement markup back in. Resolution failures degrade inside the
// stage implementations, so the only error returned is ctx.Err().
func (e *Engine) Substitute(ctx context.Context, content string) (string, error) {
	markers := findMarkers(content)
	if len(markers) == 0 {
		return content, nil
	}

	replacements := make([]string, len(markers))
	sem := make(chan struct{}, e.fanout)
	var wg sync.WaitGroup

	for i, m := range markers {
		wg.Add(1)
		go func(i int, m marker) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			replacements[i] = e.resolve(ctx, m)
		}(i, m)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(content))
	prev := 0
	for i, m := range markers {
		out.WriteString(content[prev:m.start])
		out.WriteString(replacements[i])
		prev = m.end
	}
	out.WriteString(content[prev:])
	return out.String(), nil
}

// resolve produces the replacement markup for one marker.
func (e *Engine) resolve(ctx context.Context, m marker) string {
	switch m.kind {
	case markerImage:
		return e.resolveImage(ctx, m)
	default:
		return e.resolveFormula(ctx, m)
	}
}

func (e *Engine) resolveImage(ctx context.Context, m marker) string {
	translated := e.translator.Translate(ctx, m.text)
	prompt := fmt.Sprintf(promptBoilerplate, translated)
	url := e.generator.GenerateImage(ctx, prompt)
	src := e.inliner.Inline(ctx, url)

	e.logger.Debug("image marker resolved", "index", m.index, "inlined",
		strings.HasPrefix(src, "data:"))

	// Caption keeps the original, untranslated description.
	return fmt.Sprintf(
		`<div class="image-container"><img src="%s" alt="%s" style="max-width:14cm;"/>`+
			`<p class="image-caption">Rasm %s. %s</p></div>`,
		src, html.EscapeString(m.text), m.index, html.EscapeString(m.text))
}

func (e *Engine) resolveFormula(ctx context.Context, m marker) string {
	block := m.kind == markerFormulaBlock
	url := e.formulas.RenderFormula(ctx, m.text, block)
	src := e.inliner.Inline(ctx, url)
	alt := html.EscapeString(formulaAlt(m.text))

	if block {
		return fmt.Sprintf(`<br/><img class="formula-block" src="%s" alt="%s"/><br/>`, src, alt)
	}
	return fmt.Sprintf(`<img class="formula-inline" src="%s" alt="%s"/>`, src, alt)
}

// formulaAlt collapses whitespace so multi-line block expressions stay
// readable in alt text.
func formulaAlt(expr string) string {
	return strings.Join(strings.Fields(expr), " ")
}
