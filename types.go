package tgbotq

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Default bounds for the image-generation retry policy.
// One marker is therefore resolved in at most
// DefaultMaxJobs * DefaultMaxPollAttempts status polls.
const (
	DefaultMaxJobs         = 5
	DefaultMaxPollAttempts = 12
	DefaultPollInterval    = 3 * time.Second
)

// DefaultMarkerConcurrency bounds how many markers of one document are
// resolved in flight at the same time.
const DefaultMarkerConcurrency = 3

// defaultTimeout is used when no build timeout is specified.
const defaultTimeout = 10 * time.Minute

// DefaultStyle is the name of the built-in print stylesheet.
const DefaultStyle = "referat"

// Input contains build parameters for one document.
type Input struct {
	Topic        string // Document topic, shown on the cover (required)
	WorkTypeName string // Work type, e.g. "Referat" (default: "Referat")
	Content      string // Raw generated prose with markers (required)
	Year         int    // Cover year (0 = current year)
	PDF          bool   // Also render the document to PDF
}

// BuildResult holds the assembled document.
type BuildResult struct {
	HTML []byte // Complete Word-compatible HTML document
	PDF  []byte // PDF bytes, set only when Input.PDF is true
}

// Option configures a Builder.
type Option func(*Builder)

// builderConfig holds internal configuration for Builder.
type builderConfig struct {
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger

	imageBaseURL   string
	imageToken     string
	placeholderURL string

	translateBaseURL string
	translateToken   string
	translateModel   string

	formulaBaseURL string

	maxJobs         int
	maxPollAttempts int
	pollInterval    time.Duration
	markerFanout    int

	styleInput    string // name, file path, or raw CSS
	assetPath     string
	resolvedStyle string
	coverTemplate string // raw template override (empty = from assets)
}

// WithTimeout sets the per-build timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("tgbotq: WithTimeout duration must be positive")
	}
	return func(b *Builder) {
		b.cfg.timeout = d
	}
}

// WithLogger sets the logger used by all pipeline components.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.cfg.logger = l
	}
}

// WithHTTPClient sets the HTTP client shared by all remote-service
// calls (image generation, translation, formula rendering, inlining).
func WithHTTPClient(c *http.Client) Option {
	return func(b *Builder) {
		b.cfg.httpClient = c
	}
}

// WithImageService configures the image-generation service.
// An empty token disables generation; markers then resolve to the
// placeholder image.
func WithImageService(baseURL, token string) Option {
	return func(b *Builder) {
		if baseURL != "" {
			b.cfg.imageBaseURL = baseURL
		}
		b.cfg.imageToken = token
	}
}

// WithTranslationService configures the chat-completions endpoint used
// to translate marker descriptions into English generation prompts.
// An empty token disables translation; prompts then use the original
// description unchanged.
func WithTranslationService(baseURL, token, model string) Option {
	return func(b *Builder) {
		if baseURL != "" {
			b.cfg.translateBaseURL = baseURL
		}
		if model != "" {
			b.cfg.translateModel = model
		}
		b.cfg.translateToken = token
	}
}

// WithFormulaService sets the formula-image rendering endpoint.
func WithFormulaService(baseURL string) Option {
	return func(b *Builder) {
		if baseURL != "" {
			b.cfg.formulaBaseURL = baseURL
		}
	}
}

// WithPlaceholderURL overrides the fallback image URL used when
// generation is unavailable or exhausted.
func WithPlaceholderURL(url string) Option {
	return func(b *Builder) {
		if url != "" {
			b.cfg.placeholderURL = url
		}
	}
}

// WithRetryPolicy bounds the image-generation lifecycle: at most
// maxJobs job submissions per marker, each polled at most
// maxPollAttempts times at pollInterval.
func WithRetryPolicy(maxJobs, maxPollAttempts int, pollInterval time.Duration) Option {
	return func(b *Builder) {
		b.cfg.maxJobs = maxJobs
		b.cfg.maxPollAttempts = maxPollAttempts
		b.cfg.pollInterval = pollInterval
	}
}

// WithMarkerConcurrency bounds how many markers are resolved
// concurrently within one build.
func WithMarkerConcurrency(n int) Option {
	return func(b *Builder) {
		b.cfg.markerFanout = n
	}
}

// WithStyle sets the document stylesheet. Accepts a built-in style
// name, a path to a CSS file, or raw CSS content.
func WithStyle(style string) Option {
	return func(b *Builder) {
		b.cfg.styleInput = style
	}
}

// WithAssetPath points the builder at a directory with custom assets
// (styles/{name}.css, templates/{name}/cover.html). Built-in assets
// remain available as fallback.
func WithAssetPath(path string) Option {
	return func(b *Builder) {
		b.cfg.assetPath = path
	}
}

// WithCoverTemplate overrides the cover page template with raw
// template content.
func WithCoverTemplate(tmpl string) Option {
	return func(b *Builder) {
		b.cfg.coverTemplate = tmpl
	}
}

// validate checks configuration bounds after options are applied.
func (c *builderConfig) validate() error {
	if c.maxJobs < 1 || c.maxPollAttempts < 1 || c.pollInterval < 0 {
		return fmt.Errorf("%w: maxJobs=%d maxPollAttempts=%d pollInterval=%s",
			ErrInvalidRetryPolicy, c.maxJobs, c.maxPollAttempts, c.pollInterval)
	}
	if c.markerFanout < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidConcurrency, c.markerFanout)
	}
	return nil
}

// validateInput checks that required fields are present.
//
// This is a TRUST BOUNDARY for direct library users who build Input
// manually; CLI users have their input validated at flag-parse time.
func validateInput(input Input) error {
	if strings.TrimSpace(input.Content) == "" {
		return ErrEmptyContent
	}
	if strings.TrimSpace(input.Topic) == "" {
		return ErrEmptyTopic
	}
	return nil
}
