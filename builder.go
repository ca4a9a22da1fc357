package tgbotq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kstucoder/tgbotq/internal/assets"
	"github.com/kstucoder/tgbotq/internal/fileutil"
	"github.com/kstucoder/tgbotq/internal/formula"
	"github.com/kstucoder/tgbotq/internal/genimage"
	"github.com/kstucoder/tgbotq/internal/imageinline"
	"github.com/kstucoder/tgbotq/internal/pipeline"
	"github.com/kstucoder/tgbotq/internal/translate"
)

// defaultWorkTypeName is used when Input.WorkTypeName is empty.
const defaultWorkTypeName = "Referat"

// Builder assembles generated prose into complete documents. A
// Builder is safe for sequential reuse; for parallel builds use
// BuilderPool.
type Builder struct {
	cfg builderConfig

	cleaner     pipeline.Cleaner
	substituter pipeline.Substituter
	assembler   pipeline.Assembler
	cover       pipeline.CoverRenderer
	pdf         pdfConverter
}

// Compile-time checks that the wired stages satisfy their contracts.
var (
	_ pipeline.Cleaner         = (*pipeline.ProseCleaner)(nil)
	_ pipeline.Substituter     = (*pipeline.Engine)(nil)
	_ pipeline.Assembler       = (*pipeline.SectionAssembler)(nil)
	_ pipeline.Translator      = (*translate.Client)(nil)
	_ pipeline.ImageGenerator  = (*genimage.Generator)(nil)
	_ pipeline.AssetInliner    = (*imageinline.Inliner)(nil)
	_ pipeline.FormulaRenderer = (*formula.Renderer)(nil)
)

// NewBuilder creates a Builder with the given options. Configuration
// and asset errors surface here so a misconfigured builder fails fast.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		cfg: builderConfig{
			timeout:         defaultTimeout,
			maxJobs:         DefaultMaxJobs,
			maxPollAttempts: DefaultMaxPollAttempts,
			pollInterval:    DefaultPollInterval,
			markerFanout:    DefaultMarkerConcurrency,
			styleInput:      DefaultStyle,
		},
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.cfg.logger == nil {
		b.cfg.logger = slog.Default()
	}
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}

	resolver, err := assets.NewResolver(b.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	style, err := resolveStyle(resolver, b.cfg.styleInput)
	if err != nil {
		return nil, err
	}
	b.cfg.resolvedStyle = style

	coverSource := b.cfg.coverTemplate
	if coverSource == "" {
		coverSource, err = resolver.LoadCover(DefaultStyle)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCoverTemplateNotFound, err)
		}
	}
	cover, err := pipeline.NewTemplateCover(coverSource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoverRender, err)
	}

	translator := translate.New(
		b.cfg.translateBaseURL, b.cfg.translateToken, b.cfg.translateModel,
		b.cfg.httpClient, b.cfg.logger)

	generator := genimage.New(genimage.Config{
		BaseURL:         b.cfg.imageBaseURL,
		Token:           b.cfg.imageToken,
		PlaceholderURL:  b.cfg.placeholderURL,
		MaxJobs:         b.cfg.maxJobs,
		MaxPollAttempts: b.cfg.maxPollAttempts,
		PollInterval:    b.cfg.pollInterval,
		HTTPClient:      b.cfg.httpClient,
		Logger:          b.cfg.logger,
	})

	inliner := imageinline.New(b.cfg.httpClient, b.cfg.logger)
	formulas := formula.New(b.cfg.formulaBaseURL)

	b.cleaner = pipeline.NewProseCleaner()
	b.substituter = pipeline.NewEngine(
		translator, generator, inliner, formulas,
		b.cfg.markerFanout, b.cfg.logger)
	b.assembler = pipeline.NewSectionAssembler()
	b.cover = cover
	b.pdf = newRodConverter(b.cfg.timeout)

	return b, nil
}

// resolveStyle interprets the style input as raw CSS, a file path, or
// a built-in/custom style name, in that order.
func resolveStyle(resolver *assets.Resolver, input string) (string, error) {
	if input == "" {
		input = DefaultStyle
	}

	// Raw CSS carries rule braces; names and paths never do.
	if strings.Contains(input, "{") {
		return input, nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided style path
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrStyleNotFound, input, err)
		}
		return string(content), nil
	}

	content, err := resolver.LoadStyle(input)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, input)
		}
		return "", err
	}
	return content, nil
}

// Build assembles input into a complete document. External-service
// failures degrade to fallbacks inside the pipeline; Build fails only
// on invalid input, cover rendering errors, context cancellation, or
// (when requested) PDF rendering errors.
func (b *Builder) Build(ctx context.Context, input Input) (*BuildResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.timeout)
	defer cancel()

	if input.WorkTypeName == "" {
		input.WorkTypeName = defaultWorkTypeName
	}
	if input.Year == 0 {
		input.Year = time.Now().Year()
	}

	started := time.Now()

	cleaned := b.cleaner.Clean(input.Content)

	substituted, err := b.substituter.Substitute(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	body := b.assembler.Assemble(substituted)

	cover, err := b.cover.RenderCover(pipeline.CoverData{
		WorkTypeName: input.WorkTypeName,
		Topic:        input.Topic,
		Year:         input.Year,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoverRender, err)
	}

	doc := renderDocument(
		documentTitle(input.WorkTypeName, input.Topic),
		b.cfg.resolvedStyle, cover, body)

	result := &BuildResult{HTML: []byte(doc)}

	if input.PDF {
		pdf, err := b.pdf.ToPDF(ctx, doc)
		if err != nil {
			return nil, err
		}
		result.PDF = pdf
	}

	b.cfg.logger.Info("document built",
		"topic", input.Topic,
		"bytes", len(result.HTML),
		"pdf", input.PDF,
		"elapsed", time.Since(started))

	return result, nil
}

// WriteDoc builds the document and writes the HTML to a transient
// Word-compatible .doc file. The caller must invoke cleanup after the
// file has been consumed.
func (b *Builder) WriteDoc(ctx context.Context, input Input) (path string, cleanup func(), err error) {
	result, err := b.Build(ctx, input)
	if err != nil {
		return "", nil, err
	}
	return fileutil.WriteTempFile(string(result.HTML), fileutil.SafeBaseName(input.Topic), "doc")
}

// Close releases builder resources (the headless browser, when one
// was started for PDF output).
func (b *Builder) Close() error {
	if b.pdf != nil {
		return b.pdf.Close()
	}
	return nil
}
