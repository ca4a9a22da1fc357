package formula

import (
	"context"
	"net/url"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single line", `E = mc^2`, `E = mc^2`},
		{"multi line", "\\sum_{i=1}^n i\n= \\frac{n(n+1)}{2}", `\sum_{i=1}^n i = \frac{n(n+1)}{2}`},
		{"extra spaces", "a   +   b", "a + b"},
		{"surrounding whitespace", "  x  ", "x"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderer_RenderFormula(t *testing.T) {
	t.Parallel()

	t.Run("default endpoint with directives", func(t *testing.T) {
		t.Parallel()
		got := New("").RenderFormula(context.Background(), "E = mc^2", false)

		if !strings.HasPrefix(got, DefaultBaseURL+"?") {
			t.Fatalf("RenderFormula() = %q, want %s prefix", got, DefaultBaseURL)
		}

		query, err := url.QueryUnescape(strings.TrimPrefix(got, DefaultBaseURL+"?"))
		if err != nil {
			t.Fatalf("unescape: %v", err)
		}
		if !strings.Contains(query, `\dpi{150}`) || !strings.Contains(query, `\bg{white}`) {
			t.Errorf("render directives missing: %q", query)
		}
		if !strings.Contains(query, "E = mc^2") {
			t.Errorf("expression missing: %q", query)
		}
	})

	t.Run("custom endpoint", func(t *testing.T) {
		t.Parallel()
		got := New("https://tex.example/render/").RenderFormula(context.Background(), "x", true)
		if !strings.HasPrefix(got, "https://tex.example/render?") {
			t.Errorf("RenderFormula() = %q", got)
		}
	})

	t.Run("multi-line expression is collapsed", func(t *testing.T) {
		t.Parallel()
		got := New("").RenderFormula(context.Background(), "a\n+\nb", true)
		if strings.Contains(got, "%0A") {
			t.Errorf("newline leaked into URL: %q", got)
		}
	})
}
