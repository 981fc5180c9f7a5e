package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultPauseMs != 500 {
		t.Errorf("DefaultPauseMs = %d, want 500", cfg.DefaultPauseMs)
	}
	if cfg.Audio.Provider != "openai" {
		t.Errorf("Audio.Provider = %q, want openai", cfg.Audio.Provider)
	}
	if _, err := cfg.Voices.Resolve("female_a"); err != nil {
		t.Errorf("default voices should resolve female_a: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestDefault_IndependentCopies(t *testing.T) {
	a, b := Default(), Default()
	a.Voices["female_a"] = "changed"
	if b.Voices["female_a"] == "changed" {
		t.Error("Default() values share the voice table")
	}
}

func TestAudioDir(t *testing.T) {
	cfg := Default()
	cfg.AssetsDir = filepath.Join("app", "assets")

	if got, want := cfg.AudioDir(), filepath.Join("app", "assets", "audio"); got != want {
		t.Errorf("AudioDir() = %q, want %q", got, want)
	}
	if got, want := cfg.LockPath(), filepath.Join("app", "assets", ".levelc.lock"); got != want {
		t.Errorf("LockPath() = %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty assets", func(c *Config) { c.AssetsDir = " " }, "assets directory"},
		{"negative pause", func(c *Config) { c.DefaultPauseMs = -1 }, "default pause"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"zero fetch concurrency", func(c *Config) { c.FetchConcurrency = 0 }, "fetch concurrency"},
		{"unknown script", func(c *Config) { c.Script = "latin" }, "unknown script"},
		{"cyrillic script", func(c *Config) { c.Script = "cyrillic" }, ""},
		{"unknown provider", func(c *Config) { c.Audio.Provider = "polly" }, "unknown audio provider"},
		{"gemini provider", func(c *Config) { c.Audio.Provider = "gemini" }, ""},
		{"fallback to espeak", func(c *Config) { c.Audio.Provider = "fallback" }, ""},
		{"fallback to itself", func(c *Config) {
			c.Audio.Provider = "fallback"
			c.Audio.Fallback = "openai"
		}, "unknown fallback provider"},
		{"empty voices", func(c *Config) { c.Voices = nil }, "voice table"},
		{"empty cache dir", func(c *Config) { c.CacheDir = "" }, "cache directory"},
		{"audio checks skipped", func(c *Config) {
			c.SkipAudio = true
			c.CacheDir = ""
			c.Audio.Provider = "polly"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	cfg.Script = "latin"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"workers", "unknown script"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q is missing %q", err, want)
		}
	}
}
