package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tgbotq "github.com/kstucoder/tgbotq"
	"github.com/kstucoder/tgbotq/internal/config"
)

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	env := &envConfig{}
	cfg := config.DefaultConfig()

	t.Run("explicit file path used as-is", func(t *testing.T) {
		t.Parallel()
		flags := &cliFlags{output: "/tmp/report.doc"}
		if got := resolveOutputPath(flags, env, cfg, "Mavzu"); got != "/tmp/report.doc" {
			t.Errorf("resolveOutputPath() = %q", got)
		}
	})

	t.Run("directory gets derived filename", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		flags := &cliFlags{output: dir}
		want := filepath.Join(dir, "Quyosh_tizimi.doc")
		if got := resolveOutputPath(flags, env, cfg, "Quyosh tizimi"); got != want {
			t.Errorf("resolveOutputPath() = %q, want %q", got, want)
		}
	})

	t.Run("no output flag derives from topic", func(t *testing.T) {
		t.Parallel()
		flags := &cliFlags{}
		if got := resolveOutputPath(flags, env, cfg, "Mavzu"); got != "Mavzu.doc" {
			t.Errorf("resolveOutputPath() = %q", got)
		}
	})

	t.Run("configured default dir", func(t *testing.T) {
		t.Parallel()
		flags := &cliFlags{}
		dirCfg := config.DefaultConfig()
		dirCfg.Output.DefaultDir = "/srv/docs"
		want := filepath.Join("/srv/docs", "Mavzu.doc")
		if got := resolveOutputPath(flags, env, dirCfg, "Mavzu"); got != want {
			t.Errorf("resolveOutputPath() = %q, want %q", got, want)
		}
	})
}

func TestBuildOptions_Precedence(t *testing.T) {
	t.Parallel()

	flags := &cliFlags{}
	flags.services.imageURL = "https://flag.example"
	env := &envConfig{ImageURL: "https://env.example", ImageToken: "env-tok"}
	cfg := config.DefaultConfig()
	cfg.Services.Image.BaseURL = "https://cfg.example"
	cfg.Services.Image.Token = "cfg-tok"

	opts, err := buildOptions(flags, env, cfg)
	if err != nil {
		t.Fatalf("buildOptions() error = %v", err)
	}

	// Apply the options to a builder and make sure they compose.
	b, err := tgbotq.NewBuilder(opts...)
	if err != nil {
		t.Fatalf("NewBuilder() with merged options error = %v", err)
	}
	_ = b.Close()
}

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		flagTimeout string
		envTimeout  time.Duration
		want        time.Duration
		wantErr     bool
	}{
		{"flag wins", "2m", time.Hour, 2 * time.Minute, false},
		{"env fallback", "", 30 * time.Second, 30 * time.Second, false},
		{"neither set", "", 0, 0, false},
		{"invalid flag", "soon", 0, 0, true},
		{"non-positive flag", "-5s", 0, 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveTimeout(tt.flagTimeout, tt.envTimeout)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveTimeout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prose.txt")
	if err := os.WriteFile(path, []byte("matn"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readInput(path)
	if err != nil {
		t.Fatalf("readInput() error = %v", err)
	}
	if got != "matn" {
		t.Errorf("readInput() = %q", got)
	}

	if _, err := readInput(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("readInput() expected error for missing file")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty() = %q", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty() = %q", got)
	}
}
