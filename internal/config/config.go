// Package config loads the CLI's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kstucoder/tgbotq/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidField    = errors.New("invalid config field")
)

// Field length limits.
const (
	MaxURLLength   = 2048 // Browser limit
	MaxTokenLength = 512  // API tokens
	MaxModelLength = 100  // Model identifiers
	MaxStyleLength = 100  // Style name or path
)

// Config holds all configuration for the document CLI.
type Config struct {
	Services ServicesConfig `yaml:"services"`
	Retry    RetryConfig    `yaml:"retry"`
	Build    BuildConfig    `yaml:"build"`
	Output   OutputConfig   `yaml:"output"`
}

// ServicesConfig groups the remote-service endpoints.
type ServicesConfig struct {
	Image     ImageServiceConfig     `yaml:"image"`
	Translate TranslateServiceConfig `yaml:"translate"`
	Formula   FormulaServiceConfig   `yaml:"formula"`
}

// ImageServiceConfig configures the image-generation API.
type ImageServiceConfig struct {
	BaseURL string `yaml:"baseUrl"` // Empty = service default
	Token   string `yaml:"token"`   // Empty = placeholder images only
}

// TranslateServiceConfig configures the translation API.
type TranslateServiceConfig struct {
	BaseURL string `yaml:"baseUrl"` // Empty = service default
	Token   string `yaml:"token"`   // Empty = translation disabled
	Model   string `yaml:"model"`   // Empty = service default
}

// FormulaServiceConfig configures the formula-image renderer.
type FormulaServiceConfig struct {
	BaseURL string `yaml:"baseUrl"` // Empty = public renderer
}

// RetryConfig bounds the image-generation job lifecycle.
type RetryConfig struct {
	MaxJobs             int `yaml:"maxJobs"`             // 0 = default (5)
	MaxPollAttempts     int `yaml:"maxPollAttempts"`     // 0 = default (12)
	PollIntervalSeconds int `yaml:"pollIntervalSeconds"` // 0 = default (3)
}

// BuildConfig tunes document assembly.
type BuildConfig struct {
	Style             string `yaml:"style"`             // Style name, path, or raw CSS
	AssetsBasePath    string `yaml:"assetsBasePath"`    // Empty = embedded assets
	MarkerConcurrency int    `yaml:"markerConcurrency"` // 0 = default (3)
	PlaceholderURL    string `yaml:"placeholderUrl"`    // Empty = default placeholder
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = current directory
}

// Validate checks field lengths and numeric bounds. Called
// automatically by LoadConfig, but available for consumers who
// construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"services.image.baseUrl", c.Services.Image.BaseURL, MaxURLLength},
		{"services.image.token", c.Services.Image.Token, MaxTokenLength},
		{"services.translate.baseUrl", c.Services.Translate.BaseURL, MaxURLLength},
		{"services.translate.token", c.Services.Translate.Token, MaxTokenLength},
		{"services.translate.model", c.Services.Translate.Model, MaxModelLength},
		{"services.formula.baseUrl", c.Services.Formula.BaseURL, MaxURLLength},
		{"build.placeholderUrl", c.Build.PlaceholderURL, MaxURLLength},
	}
	for _, f := range fields {
		if len(f.value) > f.max {
			return fmt.Errorf("%w: %s (%d chars, max %d)",
				ErrInvalidField, f.name, len(f.value), f.max)
		}
	}

	if c.Retry.MaxJobs < 0 || c.Retry.MaxPollAttempts < 0 || c.Retry.PollIntervalSeconds < 0 {
		return fmt.Errorf("%w: retry bounds must not be negative", ErrInvalidField)
	}
	if c.Build.MarkerConcurrency < 0 {
		return fmt.Errorf("%w: build.markerConcurrency must not be negative", ErrInvalidField)
	}

	return nil
}

// DefaultConfig returns a neutral configuration: embedded assets,
// default retry bounds, no remote-service tokens.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent
// fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if strings.ContainsAny(nameOrPath, "/\\") {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveConfigPath searches for a config file by name in standard
// locations. Tries extensions .yaml then .yml; locations: current
// directory, then ~/.config/tgbotq/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "tgbotq", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
