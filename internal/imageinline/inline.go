// Package imageinline downloads remote images and re-encodes them as
// data URIs so the assembled document is self-contained.
package imageinline

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
)

// maxImageBytes caps a single inlined image. Anything larger stays a
// remote reference rather than bloating the document.
const maxImageBytes = 8 << 20

const defaultContentType = "image/png"

// Inliner fetches image URLs and converts them to data URIs. Failures
// never propagate: the original URL is returned unchanged so the
// document keeps a working remote reference.
type Inliner struct {
	client *http.Client
	logger *slog.Logger
}

// New creates an Inliner. A nil client gets a default with a modest
// timeout; a nil logger defaults to slog.Default().
func New(client *http.Client, logger *slog.Logger) *Inliner {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Inliner{client: client, logger: logger}
}

// Inline returns a data URI for the image at url, or url itself when
// the fetch fails. URLs that are already data URIs pass through.
func (in *Inliner) Inline(ctx context.Context, url string) string {
	if strings.HasPrefix(url, "data:") {
		return url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		in.logger.Warn("image inline skipped, bad URL", "url", url, "error", err)
		return url
	}

	resp, err := in.client.Do(req)
	if err != nil {
		in.logger.Warn("image inline skipped, fetch failed", "url", url, "error", err)
		return url
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		in.logger.Warn("image inline skipped, bad status", "url", url, "status", resp.StatusCode)
		return url
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		in.logger.Warn("image inline skipped, read failed", "url", url, "error", err)
		return url
	}
	if len(body) > maxImageBytes {
		in.logger.Warn("image inline skipped, image too large", "url", url)
		return url
	}

	return "data:" + contentType(resp.Header.Get("Content-Type")) +
		";base64," + base64.StdEncoding.EncodeToString(body)
}

// contentType extracts the media type, defaulting to image/png when
// the header is missing or unparseable.
func contentType(header string) string {
	if header == "" {
		return defaultContentType
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return defaultContentType
	}
	return mediaType
}
