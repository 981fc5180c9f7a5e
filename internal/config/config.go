// Package config holds the settings of a compiler run. The CLI builds a
// Config once from flags, the config file and the environment; everything
// below the CLI only ever sees this value.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vladimirpanonopm/levelc/internal/audio"
	"github.com/vladimirpanonopm/levelc/internal/timeline"
)

// AudioSubdir is the directory below the assets root holding card audio.
const AudioSubdir = "audio"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the effective configuration of one run.
type Config struct {
	SourceDir string
	AssetsDir string
	CacheDir  string

	// DefaultPauseMs is the silence after a line whose directive sets none.
	DefaultPauseMs int
	SkipAudio      bool
	// CleanAudio removes audio assets no level written in the run refers to.
	CleanAudio bool

	// Workers bounds parallel block resolution.
	Workers int
	// FetchConcurrency bounds clip fetches within one card.
	FetchConcurrency int

	// Script selects the target-token alphabet: "hebrew" or "cyrillic".
	Script string

	Audio  audio.Config
	Voices audio.VoiceTable
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		SourceDir:        "lessons",
		AssetsDir:        "assets",
		CacheDir:         "audio_cache",
		DefaultPauseMs:   timeline.DefaultPauseMs,
		Workers:          4,
		FetchConcurrency: timeline.DefaultConcurrency,
		Script:           "hebrew",
		Audio:            *audio.DefaultProviderConfig(),
		Voices:           audio.DefaultVoices("openai"),
	}
}

// AudioDir returns where card audio assets are written.
func (c *Config) AudioDir() string {
	return filepath.Join(c.AssetsDir, AudioSubdir)
}

// LockPath returns the lock file serializing runs over the same assets root.
func (c *Config) LockPath() string {
	return filepath.Join(c.AssetsDir, ".levelc.lock")
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.AssetsDir) == "" {
		errs = append(errs, errors.New("assets directory must be set"))
	}
	if c.DefaultPauseMs < 0 {
		errs = append(errs, fmt.Errorf("default pause must not be negative, got %d", c.DefaultPauseMs))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.FetchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("fetch concurrency must be at least 1, got %d", c.FetchConcurrency))
	}
	switch strings.ToLower(c.Script) {
	case "hebrew", "cyrillic", "russian":
	default:
		errs = append(errs, fmt.Errorf("unknown script %q", c.Script))
	}

	if !c.SkipAudio {
		if strings.TrimSpace(c.CacheDir) == "" {
			errs = append(errs, errors.New("cache directory must be set"))
		}
		switch strings.ToLower(c.Audio.Provider) {
		case "openai", "gemini", "espeak", "espeak-ng":
		case "fallback":
			switch strings.ToLower(c.Audio.Fallback) {
			case "gemini", "espeak", "espeak-ng":
			default:
				errs = append(errs, fmt.Errorf("unknown fallback provider %q", c.Audio.Fallback))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown audio provider %q", c.Audio.Provider))
		}
		if len(c.Voices) == 0 {
			errs = append(errs, errors.New("voice table is empty"))
		}
		if c.Audio.RequestsPerMinute < 0 {
			errs = append(errs, fmt.Errorf("requests per minute must not be negative, got %d", c.Audio.RequestsPerMinute))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
