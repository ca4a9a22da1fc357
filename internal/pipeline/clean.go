// Package pipeline contains the document-assembly stages: prose
// cleanup, marker substitution, section classification/rendering, and
// cover page rendering. Stages are wired by the root package and
// communicate through plain strings and small interfaces.
package pipeline

import (
	"regexp"
	"strings"
)

// Cleaner normalizes raw generated prose before assembly.
type Cleaner interface {
	Clean(content string) string
}

// ProseCleaner strips generator artifacts: trailing note blocks,
// page-break marker lines, horizontal rules, markdown heading
// prefixes, and excess blank lines. Cleaning is idempotent.
type ProseCleaner struct{}

// Compile-time interface check.
var _ Cleaner = (*ProseCleaner)(nil)

// NewProseCleaner creates a ProseCleaner.
func NewProseCleaner() *ProseCleaner {
	return &ProseCleaner{}
}

var (
	// Trailing editorial note appended by some generators:
	// "(Izoh: ...)" or "(Eslatma: ...)" as the final block.
	trailingNoteRe = regexp.MustCompile(`(?s)\(\s*(?:Izoh|Eslatma)\s*:.*\)\s*$`)

	// Upstream page-break marker line, handled by the section
	// renderer instead.
	pageBreakMarkerRe = regexp.MustCompile(`(?m)^\s*\[FOYDALANILGAN ADABIYOTLAR YANGI SAHIFA\]\s*$`)

	// Markdown horizontal rules on their own line.
	horizontalRuleRe = regexp.MustCompile(`(?m)^\s*-{3,}\s*$`)

	// Markdown heading prefixes; heading text itself is kept.
	headingPrefixRe = regexp.MustCompile(`(?m)^#{1,6}\s*`)

	// Runs of blank lines collapse to one blank line.
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// Clean applies all cleanup passes and trims surrounding whitespace.
func (c *ProseCleaner) Clean(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = trailingNoteRe.ReplaceAllString(content, "")
	content = pageBreakMarkerRe.ReplaceAllString(content, "")
	content = horizontalRuleRe.ReplaceAllString(content, "")
	content = headingPrefixRe.ReplaceAllString(content, "")
	content = blankRunRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
