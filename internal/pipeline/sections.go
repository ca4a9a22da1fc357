package pipeline

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// SectionKind classifies one logical block of the document body.
type SectionKind int

const (
	SectionParagraph SectionKind = iota
	SectionMainHeading
	SectionSubHeading
	SectionTable
	SectionRawBlock
)

// Section is one classified block ready for rendering.
type Section struct {
	Kind            SectionKind
	Text            string
	Rows            [][]string // table cells, first row is the header
	PageBreakBefore bool
}

// Assembler classifies cleaned prose into sections and renders them
// as the document body.
type Assembler interface {
	Assemble(content string) string
}

// SectionAssembler implements the line classifier and HTML renderer.
type SectionAssembler struct {
	md goldmark.Markdown
}

var _ Assembler = (*SectionAssembler)(nil)

// NewSectionAssembler creates a SectionAssembler.
//
// The goldmark instance runs with raw-HTML passthrough enabled: by
// this stage the text already carries <img> and <div> markup spliced
// in by marker substitution, and escaping it would break the document.
func NewSectionAssembler() *SectionAssembler {
	return &SectionAssembler{
		md: goldmark.New(
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
	}
}

// Top-level headings as emitted by the prose generator. Matched
// case-insensitively; the space after the number varies ("1.Kirish",
// "1.  Kirish"), so whitespace is flexible.
var mainHeadingRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^1\.\s*Kirish\s*$`),
	regexp.MustCompile(`(?i)^2\.\s*Asosiy qism\s*$`),
	regexp.MustCompile(`(?i)^3\.\s*Xulosa\s*$`),
}

// referencesHeadingRe opens the bibliography section, which always
// starts on a fresh page.
var referencesHeadingRe = regexp.MustCompile(`(?i)^4\.\s*Foydalanilgan adabiyotlar`)

var (
	subHeadingRe = regexp.MustCompile(`^\d+\.\d+\.\s+.+$`)

	// A markdown table separator row: pipes around runs of dashes,
	// optional alignment colons.
	tableSeparatorRe = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)+\|?\s*$`)
)

// Classify splits content into sections. Consecutive pipe-delimited
// lines buffer into one table; the dash separator row is dropped.
func Classify(content string) []Section {
	var sections []Section
	var tableRows [][]string

	flushTable := func() {
		if len(tableRows) > 0 {
			sections = append(sections, Section{Kind: SectionTable, Rows: tableRows})
			tableRows = nil
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flushTable()
			continue
		}

		if strings.HasPrefix(line, "|") && strings.Contains(line[1:], "|") {
			if tableSeparatorRe.MatchString(line) {
				continue
			}
			tableRows = append(tableRows, splitTableRow(line))
			continue
		}
		flushTable()

		switch {
		case isMainHeading(line):
			sections = append(sections, Section{Kind: SectionMainHeading, Text: line})
		case referencesHeadingRe.MatchString(line):
			sections = append(sections, Section{
				Kind:            SectionMainHeading,
				Text:            line,
				PageBreakBefore: true,
			})
		case subHeadingRe.MatchString(line):
			sections = append(sections, Section{Kind: SectionSubHeading, Text: line})
		case strings.HasPrefix(line, "<"):
			sections = append(sections, Section{Kind: SectionRawBlock, Text: line})
		default:
			sections = append(sections, Section{Kind: SectionParagraph, Text: line})
		}
	}
	flushTable()

	return sections
}

func isMainHeading(line string) bool {
	for _, re := range mainHeadingRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// splitTableRow breaks "| a | b |" into trimmed cells.
func splitTableRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// Assemble renders the classified sections as the document body.
func (a *SectionAssembler) Assemble(content string) string {
	var out strings.Builder

	for _, s := range Classify(content) {
		if s.PageBreakBefore {
			out.WriteString(`<br style="page-break-before:always; mso-special-character:line-break;" />` + "\n")
		}
		switch s.Kind {
		case SectionMainHeading:
			fmt.Fprintf(&out, `<h1 class="section-title-main">%s</h1>`+"\n",
				html.EscapeString(s.Text))
		case SectionSubHeading:
			fmt.Fprintf(&out, `<h2 class="section-title-sub">%s</h2>`+"\n",
				html.EscapeString(s.Text))
		case SectionTable:
			a.writeTable(&out, s.Rows)
		case SectionRawBlock:
			out.WriteString(s.Text + "\n")
		default:
			fmt.Fprintf(&out, "<p>%s</p>\n", a.renderInline(s.Text))
		}
	}

	return out.String()
}

func (a *SectionAssembler) writeTable(out *strings.Builder, rows [][]string) {
	out.WriteString("<table>\n")
	for i, row := range rows {
		tag := "td"
		if i == 0 {
			tag = "th"
		}
		out.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(out, "<%s>%s</%s>", tag, a.renderInline(cell), tag)
		}
		out.WriteString("</tr>\n")
	}
	out.WriteString("</table>\n")
}

// renderInline runs one span of text through goldmark and unwraps the
// paragraph element it adds, yielding inline HTML (bold emphasis,
// raw tags preserved). On renderer failure the text passes through
// escaped.
func (a *SectionAssembler) renderInline(text string) string {
	var buf bytes.Buffer
	if err := a.md.Convert([]byte(text), &buf); err != nil {
		return html.EscapeString(text)
	}
	rendered := strings.TrimSpace(buf.String())
	rendered = strings.TrimPrefix(rendered, "<p>")
	rendered = strings.TrimSuffix(rendered, "</p>")
	return rendered
}
