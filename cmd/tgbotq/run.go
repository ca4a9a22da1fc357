package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotq "github.com/kstucoder/tgbotq"
	"github.com/kstucoder/tgbotq/internal/config"
	"github.com/kstucoder/tgbotq/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	errMissingTopic = errors.New("--topic is required")
	errReadInput    = errors.New("failed to read input")
	errWriteOutput  = errors.New("failed to write output")
)

// run executes one build with the merged configuration.
// Precedence: flags > environment > config file > defaults.
func run(ctx context.Context, flags *cliFlags) error {
	env := loadEnvConfig()
	warnUnknownEnvVars()

	cfg, err := loadConfig(flags, env)
	if err != nil {
		return err
	}

	if strings.TrimSpace(flags.build.topic) == "" {
		return errMissingTopic
	}

	content, err := readInput(flags.input)
	if err != nil {
		return err
	}

	opts, err := buildOptions(flags, env, cfg)
	if err != nil {
		return err
	}

	builder, err := tgbotq.NewBuilder(opts...)
	if err != nil {
		return err
	}
	defer builder.Close()

	input := tgbotq.Input{
		Topic:        flags.build.topic,
		WorkTypeName: flags.build.workType,
		Content:      content,
		Year:         flags.build.year,
		PDF:          flags.pdf,
	}

	result, err := builder.Build(ctx, input)
	if err != nil {
		return err
	}

	docPath := resolveOutputPath(flags, env, cfg, input.Topic)
	if err := os.WriteFile(docPath, result.HTML, 0o644); err != nil {
		return fmt.Errorf("%w: %v", errWriteOutput, err)
	}
	if !flags.common.quiet {
		fmt.Println(docPath)
	}

	if flags.pdf {
		pdfPath := strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".pdf"
		if err := os.WriteFile(pdfPath, result.PDF, 0o644); err != nil {
			return fmt.Errorf("%w: %v", errWriteOutput, err)
		}
		if !flags.common.quiet {
			fmt.Println(pdfPath)
		}
	}

	return nil
}

// loadConfig loads the YAML config named by flag or env, or returns
// defaults when neither is set.
func loadConfig(flags *cliFlags, env *envConfig) (*config.Config, error) {
	nameOrPath := flags.common.config
	if nameOrPath == "" {
		nameOrPath = env.ConfigPath
	}
	if nameOrPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(nameOrPath)
}

// readInput reads the prose from a file, or stdin for "-" or empty.
func readInput(path string) (string, error) {
	var data []byte
	var err error

	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided input path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", errReadInput, err)
	}
	return string(data), nil
}

// buildOptions merges flags, environment, and config into builder
// options. Flags win over env, env over config.
func buildOptions(flags *cliFlags, env *envConfig, cfg *config.Config) ([]tgbotq.Option, error) {
	var opts []tgbotq.Option

	logLevel := slog.LevelInfo
	switch {
	case flags.common.quiet:
		logLevel = slog.LevelError
	case flags.common.verbose:
		logLevel = slog.LevelDebug
	}
	opts = append(opts, tgbotq.WithLogger(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))))

	if timeout, err := resolveTimeout(flags.timeout, env.Timeout); err != nil {
		return nil, err
	} else if timeout > 0 {
		opts = append(opts, tgbotq.WithTimeout(timeout))
	}

	imageURL := firstNonEmpty(flags.services.imageURL, env.ImageURL, cfg.Services.Image.BaseURL)
	imageToken := firstNonEmpty(env.ImageToken, cfg.Services.Image.Token)
	if imageURL != "" || imageToken != "" {
		opts = append(opts, tgbotq.WithImageService(imageURL, imageToken))
	}

	translateURL := firstNonEmpty(flags.services.translateURL, env.TranslateURL, cfg.Services.Translate.BaseURL)
	translateToken := firstNonEmpty(env.TranslateToken, cfg.Services.Translate.Token)
	translateModel := firstNonEmpty(env.TranslateModel, cfg.Services.Translate.Model)
	if translateURL != "" || translateToken != "" || translateModel != "" {
		opts = append(opts, tgbotq.WithTranslationService(translateURL, translateToken, translateModel))
	}

	if formulaURL := firstNonEmpty(flags.services.formulaURL, env.FormulaURL, cfg.Services.Formula.BaseURL); formulaURL != "" {
		opts = append(opts, tgbotq.WithFormulaService(formulaURL))
	}

	if cfg.Build.PlaceholderURL != "" {
		opts = append(opts, tgbotq.WithPlaceholderURL(cfg.Build.PlaceholderURL))
	}

	if cfg.Retry.MaxJobs > 0 || cfg.Retry.MaxPollAttempts > 0 || cfg.Retry.PollIntervalSeconds > 0 {
		maxJobs := cfg.Retry.MaxJobs
		if maxJobs == 0 {
			maxJobs = tgbotq.DefaultMaxJobs
		}
		maxPolls := cfg.Retry.MaxPollAttempts
		if maxPolls == 0 {
			maxPolls = tgbotq.DefaultMaxPollAttempts
		}
		interval := time.Duration(cfg.Retry.PollIntervalSeconds) * time.Second
		if interval == 0 {
			interval = tgbotq.DefaultPollInterval
		}
		opts = append(opts, tgbotq.WithRetryPolicy(maxJobs, maxPolls, interval))
	}

	if fanout := flags.build.fanout; fanout > 0 {
		opts = append(opts, tgbotq.WithMarkerConcurrency(fanout))
	} else if cfg.Build.MarkerConcurrency > 0 {
		opts = append(opts, tgbotq.WithMarkerConcurrency(cfg.Build.MarkerConcurrency))
	}

	if style := firstNonEmpty(flags.build.style, env.Style, cfg.Build.Style); style != "" {
		opts = append(opts, tgbotq.WithStyle(style))
	}
	if assetPath := firstNonEmpty(flags.build.assetPath, cfg.Build.AssetsBasePath); assetPath != "" {
		opts = append(opts, tgbotq.WithAssetPath(assetPath))
	}

	return opts, nil
}

// resolveTimeout parses the flag timeout, falling back to env.
func resolveTimeout(flagTimeout string, envTimeout time.Duration) (time.Duration, error) {
	if flagTimeout != "" {
		d, err := time.ParseDuration(flagTimeout)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("invalid --timeout %q", flagTimeout)
		}
		return d, nil
	}
	return envTimeout, nil
}

// resolveOutputPath derives the .doc output path. An explicit file
// path is used as-is; a directory (or the configured default) gets a
// topic-derived filename.
func resolveOutputPath(flags *cliFlags, env *envConfig, cfg *config.Config, topic string) string {
	name := fileutil.SafeBaseName(topic) + ".doc"

	out := flags.output
	if out == "" {
		dir := firstNonEmpty(env.OutputDir, cfg.Output.DefaultDir)
		return filepath.Join(dir, name)
	}

	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
