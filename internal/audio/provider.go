package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrMissingAPIKey is returned when a hosted provider has no API key.
var ErrMissingAPIKey = errors.New("API key is required")

// Provider synthesizes speech. Implementations return a complete 16-bit PCM
// WAV file for the text spoken in the given provider-specific voice.
type Provider interface {
	Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // "openai", "gemini", "espeak" or "fallback"
	// Fallback names the secondary provider used when Provider is "fallback".
	Fallback string

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string

	// espeak-ng settings
	ESpeakSpeed int // words per minute
	ESpeakPitch int // 0 to 99

	// Guard settings applied to every provider
	RequestsPerMinute  int
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:           "openai",
		Fallback:           "espeak",
		OpenAIModel:        "gpt-4o-mini-tts",
		OpenAISpeed:        1.0,
		OpenAIInstruction:  "You are reading Hebrew sentences for language learners. Pronounce modern Israeli Hebrew clearly and at a calm pace.",
		GeminiModel:        "gemini-2.5-flash-preview-tts",
		ESpeakSpeed:        140,
		ESpeakPitch:        50,
		RequestsPerMinute:  120,
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// NewProvider creates the configured provider wrapped in a rate limiter and
// circuit breaker. voices is the effective voice table; the fallback provider
// uses it to translate primary voice identifiers.
func NewProvider(ctx context.Context, config *Config, voices VoiceTable, logger *log.Logger) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	if config.Provider == "fallback" {
		primary, err := newGuarded(ctx, "openai", config, logger)
		if err != nil {
			return nil, err
		}
		secondary, err := newGuarded(ctx, config.Fallback, config, logger)
		if err != nil {
			return nil, fmt.Errorf("fallback provider: %w", err)
		}
		if voices == nil {
			voices = DefaultVoices("openai")
		}
		return NewProviderWithFallback(primary, secondary,
			TranslateVoices(voices, DefaultVoices(config.Fallback)), logger,
			WithOutputFormat(Format{SampleRate: openAIPCMSampleRate, Channels: openAIPCMChannels})), nil
	}

	return newGuarded(ctx, config.Provider, config, logger)
}

func newGuarded(ctx context.Context, name string, config *Config, logger *log.Logger) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch strings.ToLower(name) {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI %w", ErrMissingAPIKey)
		}
		p, err = NewOpenAIProvider(config)
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini %w", ErrMissingAPIKey)
		}
		p, err = NewGeminiProvider(ctx, config)
	case "espeak", "espeak-ng":
		p, err = NewESpeakProvider(config)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
	if err != nil {
		return nil, err
	}

	return NewGuardedProvider(p, GuardConfig{
		RequestsPerMinute: config.RequestsPerMinute,
		MaxFailures:       config.BreakerMaxFailures,
		OpenTimeout:       config.BreakerTimeout,
	}, logger), nil
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	// voices maps primary voice identifiers to fallback ones.
	voices map[string]string
	// format is what fallback output is converted to; zero leaves it as is.
	format Format
	logger *log.Logger
}

// FallbackOption configures a ProviderWithFallback.
type FallbackOption func(*ProviderWithFallback)

// WithOutputFormat converts fallback clips to f, the format the primary
// produces, so clips of one card can be joined whichever provider made them.
func WithOutputFormat(f Format) FallbackOption {
	return func(p *ProviderWithFallback) { p.format = f }
}

// NewProviderWithFallback creates a provider that falls back to secondary if
// primary fails. Voice identifiers missing from voices are passed through.
func NewProviderWithFallback(primary, fallback Provider, voices map[string]string, logger *log.Logger, opts ...FallbackOption) Provider {
	if logger == nil {
		logger = log.Default()
	}
	p := &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		voices:   voices,
		logger:   logger.With("component", "fallback"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Synthesize tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error) {
	data, err := p.primary.Synthesize(ctx, text, voiceID)
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	fallbackVoice := voiceID
	if v, ok := p.voices[voiceID]; ok {
		fallbackVoice = v
	}
	p.logger.Warn("primary provider failed, falling back",
		"primary", p.primary.Name(), "fallback", p.fallback.Name(), "err", err)

	data, fbErr := p.fallback.Synthesize(ctx, text, fallbackVoice)
	if fbErr != nil {
		return nil, fmt.Errorf("primary=%v, fallback=%w", err, fbErr)
	}
	if p.format == (Format{}) {
		return data, nil
	}

	conformed, convErr := Conform(data, p.format)
	if convErr != nil {
		return nil, fmt.Errorf("primary=%v, fallback output: %w", err, convErr)
	}
	return conformed, nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// UnavailableProvider fails every synthesis with the reason it could not be
// created. It lets a run without credentials still serve cached clips.
type UnavailableProvider struct {
	name  string
	cause error
}

// NewUnavailableProvider returns a provider that always fails with cause.
func NewUnavailableProvider(name string, cause error) *UnavailableProvider {
	return &UnavailableProvider{name: name, cause: cause}
}

// Synthesize always fails.
func (p *UnavailableProvider) Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error) {
	return nil, fmt.Errorf("%s unavailable: %w", p.name, p.cause)
}

// Name returns the provider name
func (p *UnavailableProvider) Name() string {
	return p.name
}

// IsAvailable returns the cause
func (p *UnavailableProvider) IsAvailable() error {
	return p.cause
}
