package genimage

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Defaults for the retry policy and fallback image.
const (
	DefaultBaseURL         = "https://api.deapi.ai/api/v1/client"
	DefaultMaxJobs         = 5
	DefaultMaxPollAttempts = 12
	DefaultPollInterval    = 3 * time.Second
	DefaultPlaceholderURL  = "https://via.placeholder.com/800x600.png?text=AI+Image"
)

// Config parameterizes a Generator. Zero values pick the defaults.
type Config struct {
	BaseURL         string
	Token           string
	PlaceholderURL  string
	MaxJobs         int
	MaxPollAttempts int
	PollInterval    time.Duration
	HTTPClient      *http.Client
	Logger          *slog.Logger
}

// Generator resolves prompts to image URLs with bounded retries. An
// unconfigured (tokenless) generator short-circuits to the
// placeholder so the document pipeline keeps working offline.
type Generator struct {
	client          *client
	placeholderURL  string
	maxJobs         int
	maxPollAttempts int
	pollInterval    time.Duration
	logger          *slog.Logger
}

// New creates a Generator from cfg, filling unset fields with
// defaults.
func New(cfg Config) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PlaceholderURL == "" {
		cfg.PlaceholderURL = DefaultPlaceholderURL
	}
	if cfg.MaxJobs == 0 {
		cfg.MaxJobs = DefaultMaxJobs
	}
	if cfg.MaxPollAttempts == 0 {
		cfg.MaxPollAttempts = DefaultMaxPollAttempts
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Generator{
		client: &client{
			baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
			token:      cfg.Token,
			httpClient: cfg.HTTPClient,
		},
		placeholderURL:  cfg.PlaceholderURL,
		maxJobs:         cfg.MaxJobs,
		maxPollAttempts: cfg.MaxPollAttempts,
		pollInterval:    cfg.PollInterval,
		logger:          cfg.Logger,
	}
}

// PlaceholderURL returns the fallback image URL.
func (g *Generator) PlaceholderURL() string {
	return g.placeholderURL
}

// GenerateImage resolves prompt to an image URL. It submits up to
// MaxJobs jobs, polling each at most MaxPollAttempts times at
// PollInterval. Every failure path returns the placeholder URL; the
// only error condition surfaced to callers is context cancellation,
// signalled through ctx (callers check ctx.Err() after the build).
func (g *Generator) GenerateImage(ctx context.Context, prompt string) string {
	if g.client.token == "" {
		g.logger.Info("image generation disabled, using placeholder")
		return g.placeholderURL
	}

	for job := 0; job < g.maxJobs; job++ {
		if ctx.Err() != nil {
			return g.placeholderURL
		}

		requestID, err := g.client.submit(ctx, prompt)
		if err != nil {
			g.logger.Warn("image job submit failed", "job", job+1, "error", err)
			continue
		}

		url, done := g.pollUntilReady(ctx, requestID, job)
		if done {
			return url
		}
	}

	g.logger.Warn("image generation budget exhausted, using placeholder",
		"max_jobs", g.maxJobs)
	return g.placeholderURL
}

// pollUntilReady polls one job until it yields a URL, fails, or the
// attempt budget runs out. done is true only when url is usable.
func (g *Generator) pollUntilReady(ctx context.Context, requestID string, job int) (url string, done bool) {
	for attempt := 0; attempt < g.maxPollAttempts; attempt++ {
		if !g.sleep(ctx) {
			return "", false
		}

		result, err := g.client.poll(ctx, requestID)
		if err != nil {
			g.logger.Warn("image job poll failed",
				"job", job+1, "attempt", attempt+1, "error", err)
			continue
		}

		switch result.state {
		case pollReady:
			return result.url, true
		case pollFailed:
			g.logger.Warn("image job reported failure, resubmitting",
				"job", job+1, "request_id", requestID)
			return "", false
		case pollOpaque:
			g.logger.Warn("image job returned non-URL result, waiting for URL",
				"job", job+1, "attempt", attempt+1)
		}
	}

	g.logger.Warn("image job timed out",
		"job", job+1, "request_id", requestID, "attempts", g.maxPollAttempts)
	return "", false
}

// sleep waits one poll interval, returning false if ctx is cancelled
// first.
func (g *Generator) sleep(ctx context.Context) bool {
	timer := time.NewTimer(g.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
