package pipeline

import (
	"fmt"
	"html/template"
	"strings"
)

// CoverData feeds the cover page template.
type CoverData struct {
	WorkTypeName string
	Topic        string
	Year         int
}

// CoverRenderer renders the document's cover page.
type CoverRenderer interface {
	RenderCover(data CoverData) (string, error)
}

// TemplateCover renders a cover from an html/template source.
type TemplateCover struct {
	tmpl *template.Template
}

var _ CoverRenderer = (*TemplateCover)(nil)

// NewTemplateCover parses source as the cover template. Template
// errors surface at construction so a misconfigured builder fails
// fast instead of on the first build.
func NewTemplateCover(source string) (*TemplateCover, error) {
	tmpl, err := template.New("cover").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse cover template: %w", err)
	}
	return &TemplateCover{tmpl: tmpl}, nil
}

// RenderCover executes the template with data.
func (c *TemplateCover) RenderCover(data CoverData) (string, error) {
	var out strings.Builder
	if err := c.tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("execute cover template: %w", err)
	}
	return out.String(), nil
}
