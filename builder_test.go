package tgbotq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

// testServices spins up fake image-generation, translation, and
// formula endpoints plus an image host, and returns builder options
// pointing at them.
func testServices(t *testing.T) []Option {
	t.Helper()

	imageHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	t.Cleanup(imageHost.Close)

	genAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/txt2img") {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"request_id": "job-1"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"status": "done", "result_url": imageHost.URL + "/gen.png"},
		})
	}))
	t.Cleanup(genAPI.Close)

	translateAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "translated prompt"}},
			},
		})
	}))
	t.Cleanup(translateAPI.Close)

	return []Option{
		WithImageService(genAPI.URL, "test-token"),
		WithTranslationService(translateAPI.URL, "test-token", ""),
		WithFormulaService(imageHost.URL + "/formula"),
		WithRetryPolicy(2, 3, time.Millisecond),
		WithMarkerConcurrency(2),
	}
}

const sampleProse = `## 1. Kirish

Sun'iy intellekt haqida **muhim** mulohazalar.

[RASM 1: neyron tarmoq sxemasi]

2. Asosiy qism

2.1. Matematik asoslar

Aylana yuzi $S = \pi r^2$ formula bilan topiladi.

$$
E = mc^2
$$

| Yil | Hodisa |
|-----|--------|
| 1956 | Dartmut konferensiyasi |

3. Xulosa

Yakuniy fikrlar.

4. Foydalanilgan adabiyotlar

1. Turing A. Computing Machinery and Intelligence.

(Izoh: matn avtomatik yaratilgan)`

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder(testServices(t)...)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	result, err := b.Build(context.Background(), Input{
		Topic:   "Sun'iy intellekt",
		Content: sampleProse,
		Year:    2026,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	doc := string(result.HTML)

	t.Run("document is complete word html", func(t *testing.T) {
		for _, want := range []string{
			"<html", "urn:schemas-microsoft-com:office:word",
			"<title>Referat - Sun&#39;iy intellekt</title>",
			"@page", "title-page",
		} {
			if !strings.Contains(doc, want) {
				t.Errorf("document missing %q", want)
			}
		}
	})

	t.Run("cover carries topic and year", func(t *testing.T) {
		if !strings.Contains(doc, "2026") {
			t.Error("cover year missing")
		}
		if !strings.Contains(doc, "Mavzu: <b>“Sun&#39;iy intellekt”</b>") {
			t.Error("cover topic missing or unquoted")
		}
		for _, want := range []string{"UNIVERSITETI", "FAKULTETI", "KAFEDRASI"} {
			if !strings.Contains(doc, want) {
				t.Errorf("cover missing %q blank line", want)
			}
		}
	})

	t.Run("no markers survive", func(t *testing.T) {
		if strings.Contains(doc, "[RASM") {
			t.Error("image marker survived")
		}
		if strings.Contains(doc, "$S =") || strings.Contains(doc, "$$") {
			t.Error("formula delimiters survived")
		}
		if strings.Contains(doc, "(Izoh:") {
			t.Error("trailing note survived")
		}
	})

	t.Run("images are inlined as data URIs", func(t *testing.T) {
		if !strings.Contains(doc, "data:image/png;base64,") {
			t.Error("no inlined image found")
		}
	})

	t.Run("caption keeps original description", func(t *testing.T) {
		if !strings.Contains(doc, "Rasm 1. neyron tarmoq sxemasi") {
			t.Error("caption missing or altered")
		}
	})

	t.Run("sections classified", func(t *testing.T) {
		for _, want := range []string{
			`<h1 class="section-title-main">1. Kirish</h1>`,
			`<h2 class="section-title-sub">2.1. Matematik asoslar</h2>`,
			"<strong>muhim</strong>",
			"<th>Yil</th>",
			"<td>Dartmut konferensiyasi</td>",
			"page-break-before:always",
		} {
			if !strings.Contains(doc, want) {
				t.Errorf("document missing %q", want)
			}
		}
	})

	t.Run("table separator row dropped", func(t *testing.T) {
		if strings.Contains(doc, "-----") {
			t.Error("separator row leaked into output")
		}
	})
}

func TestBuilder_Build_Validation(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder(WithRetryPolicy(1, 1, time.Millisecond))
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"empty content", Input{Topic: "T", Content: "   "}, ErrEmptyContent},
		{"empty topic", Input{Topic: " ", Content: "matn"}, ErrEmptyTopic},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := b.Build(context.Background(), tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuilder_Build_WithoutTokensUsesPlaceholders(t *testing.T) {
	t.Parallel()

	// No services configured at all: generation falls back to the
	// placeholder URL, inlining of the unreachable placeholder falls
	// back to the URL itself, and the document still assembles.
	b, err := NewBuilder(
		WithRetryPolicy(1, 1, time.Millisecond),
		WithPlaceholderURL("https://ph.invalid/img.png"),
	)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	result, err := b.Build(context.Background(), Input{
		Topic:   "Mavzu",
		Content: "Matn [RASM 1: tasvir] davomi.",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(string(result.HTML), "https://ph.invalid/img.png") {
		t.Error("placeholder URL missing from document")
	}
}

func TestBuilder_Build_CancelledContext(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder(WithRetryPolicy(1, 1, time.Millisecond))
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = b.Build(ctx, Input{Topic: "T", Content: "[RASM 1: x]"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestBuilder_Build_DefaultsWorkTypeAndYear(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	result, err := b.Build(context.Background(), Input{Topic: "Mavzu", Content: "Matn."})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	doc := string(result.HTML)
	if !strings.Contains(doc, "<title>Referat - Mavzu</title>") {
		t.Error("default work type missing from title")
	}
	if !strings.Contains(doc, fmt.Sprint(time.Now().Year())) {
		t.Error("current year missing from cover")
	}
}

func TestBuilder_WriteDoc(t *testing.T) {
	t.Parallel()

	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	path, cleanup, err := b.WriteDoc(context.Background(), Input{
		Topic:   "Quyosh tizimi",
		Content: "Matn.",
	})
	if err != nil {
		t.Fatalf("WriteDoc() error = %v", err)
	}

	if !strings.Contains(path, "Quyosh_tizimi-") || !strings.HasSuffix(path, ".doc") {
		t.Errorf("unexpected doc path %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading doc: %v", err)
	}
	if !strings.Contains(string(data), "<html") {
		t.Error("doc file does not contain the document")
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cleanup did not remove the doc file")
	}
}

func TestNewBuilder_ConfigErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"zero max jobs", []Option{WithRetryPolicy(0, 12, time.Second)}, ErrInvalidRetryPolicy},
		{"negative poll interval", []Option{WithRetryPolicy(5, 12, -time.Second)}, ErrInvalidRetryPolicy},
		{"zero concurrency", []Option{WithMarkerConcurrency(0)}, ErrInvalidConcurrency},
		{"unknown style", []Option{WithStyle("no-such-style")}, ErrStyleNotFound},
		{"bad asset path", []Option{WithAssetPath("/no/such/dir/tgbotq")}, ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewBuilder(tt.opts...); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewBuilder() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) did not panic")
		}
	}()
	WithTimeout(0)
}
