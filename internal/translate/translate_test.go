package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatHandler(t *testing.T, reply string, check func(r chatRequest)) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	})
}

func TestClient_Translate(t *testing.T) {
	t.Parallel()

	t.Run("returns translated text", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(chatHandler(t, "  solar system diagram  ", func(req chatRequest) {
			if req.Model != DefaultModel {
				t.Errorf("model = %q, want %q", req.Model, DefaultModel)
			}
			if req.Temperature != 0.3 || req.MaxTokens != 256 {
				t.Errorf("sampling params = %v/%v", req.Temperature, req.MaxTokens)
			}
			if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
				t.Errorf("messages = %+v", req.Messages)
			}
			if req.Messages[1].Content != "quyosh tizimi" {
				t.Errorf("user content = %q", req.Messages[1].Content)
			}
		}))
		t.Cleanup(srv.Close)

		c := New(srv.URL, "tok", "", nil, nil)
		got := c.Translate(context.Background(), "quyosh tizimi")
		if got != "solar system diagram" {
			t.Errorf("Translate() = %q", got)
		}
	})

	t.Run("empty token returns input unchanged", func(t *testing.T) {
		t.Parallel()
		c := New("http://unused.invalid", "", "", nil, nil)
		if got := c.Translate(context.Background(), "matn"); got != "matn" {
			t.Errorf("Translate() = %q", got)
		}
	})

	t.Run("server error falls back to input", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		c := New(srv.URL, "tok", "", nil, nil)
		if got := c.Translate(context.Background(), "matn"); got != "matn" {
			t.Errorf("Translate() = %q", got)
		}
	})

	t.Run("malformed response falls back to input", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		t.Cleanup(srv.Close)

		c := New(srv.URL, "tok", "", nil, nil)
		if got := c.Translate(context.Background(), "matn"); got != "matn" {
			t.Errorf("Translate() = %q", got)
		}
	})

	t.Run("empty choices falls back to input", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		t.Cleanup(srv.Close)

		c := New(srv.URL, "tok", "", nil, nil)
		if got := c.Translate(context.Background(), "matn"); got != "matn" {
			t.Errorf("Translate() = %q", got)
		}
	})

	t.Run("unreachable host falls back to input", func(t *testing.T) {
		t.Parallel()
		c := New("http://127.0.0.1:1", "tok", "", nil, nil)
		if got := c.Translate(context.Background(), "matn"); got != "matn" {
			t.Errorf("Translate() = %q", got)
		}
	})

	t.Run("blank translation falls back to input", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(chatHandler(t, "   ", nil))
		t.Cleanup(srv.Close)

		c := New(srv.URL, "tok", "", nil, nil)
		if got := c.Translate(context.Background(), "matn"); got != "matn" {
			t.Errorf("Translate() = %q", got)
		}
	})
}
