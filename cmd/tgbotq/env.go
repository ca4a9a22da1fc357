package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// envConfig holds configuration from environment variables. Provides
// CI/CD-friendly overrides without requiring YAML files; tokens in
// particular are expected to arrive this way.
type envConfig struct {
	ConfigPath     string        // TGBOTQ_CONFIG: config file path
	ImageURL       string        // TGBOTQ_IMAGE_URL: image API base URL
	ImageToken     string        // TGBOTQ_IMAGE_TOKEN: image API token
	TranslateURL   string        // TGBOTQ_TRANSLATE_URL: translation API base URL
	TranslateToken string        // TGBOTQ_TRANSLATE_TOKEN: translation API token
	TranslateModel string        // TGBOTQ_TRANSLATE_MODEL: translation model
	FormulaURL     string        // TGBOTQ_FORMULA_URL: formula renderer base URL
	Style          string        // TGBOTQ_STYLE: CSS style name or path
	OutputDir      string        // TGBOTQ_OUTPUT_DIR: default output directory
	Timeout        time.Duration // TGBOTQ_TIMEOUT: build timeout
}

// knownEnvVars lists valid TGBOTQ_* environment variables. Used to
// detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"TGBOTQ_CONFIG":          true,
	"TGBOTQ_IMAGE_URL":       true,
	"TGBOTQ_IMAGE_TOKEN":     true,
	"TGBOTQ_TRANSLATE_URL":   true,
	"TGBOTQ_TRANSLATE_TOKEN": true,
	"TGBOTQ_TRANSLATE_MODEL": true,
	"TGBOTQ_FORMULA_URL":     true,
	"TGBOTQ_STYLE":           true,
	"TGBOTQ_OUTPUT_DIR":      true,
	"TGBOTQ_TIMEOUT":         true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("TGBOTQ_CONFIG"),
		ImageURL:       os.Getenv("TGBOTQ_IMAGE_URL"),
		ImageToken:     os.Getenv("TGBOTQ_IMAGE_TOKEN"),
		TranslateURL:   os.Getenv("TGBOTQ_TRANSLATE_URL"),
		TranslateToken: os.Getenv("TGBOTQ_TRANSLATE_TOKEN"),
		TranslateModel: os.Getenv("TGBOTQ_TRANSLATE_MODEL"),
		FormulaURL:     os.Getenv("TGBOTQ_FORMULA_URL"),
		Style:          os.Getenv("TGBOTQ_STYLE"),
		OutputDir:      os.Getenv("TGBOTQ_OUTPUT_DIR"),
	}

	if raw := os.Getenv("TGBOTQ_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			fmt.Fprintf(os.Stderr, "warning: ignoring invalid TGBOTQ_TIMEOUT %q\n", raw)
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for TGBOTQ_* variables this
// version does not recognize (likely typos).
func warnUnknownEnvVars() {
	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, "TGBOTQ_") {
			continue
		}
		if !knownEnvVars[name] {
			fmt.Fprintf(os.Stderr, "warning: unknown environment variable %s\n", name)
		}
	}
}
