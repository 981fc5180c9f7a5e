package audio

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

// Gemini speech output is 24kHz mono 16-bit PCM unless the MIME type says
// otherwise.
const (
	geminiSampleRate = 24000
	geminiChannels   = 1
)

// GeminiProvider implements Provider with Gemini's speech generation models.
type GeminiProvider struct {
	client *genai.Client
	config *Config
}

// NewGeminiProvider creates a Gemini TTS provider.
func NewGeminiProvider(ctx context.Context, config *Config) (*GeminiProvider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini %w", ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, config: config}, nil
}

// Synthesize asks the model for an AUDIO response in the given prebuilt voice
// and wraps the returned PCM as WAV.
func (p *GeminiProvider) Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voiceID},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(strings.TrimSpace(text)), cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini TTS API error: %w", err)
	}

	blob := firstInlineAudio(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, fmt.Errorf("no audio data received from Gemini")
	}

	return PCM16ToWAV(blob.Data, sampleRateFromMIME(blob.MIMEType, geminiSampleRate), geminiChannels)
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks that a key is configured.
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}

func firstInlineAudio(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}

// sampleRateFromMIME reads the rate parameter of a type such as
// "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMIME(mime string, def int) int {
	for _, param := range strings.Split(mime, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(key, "rate") {
			continue
		}
		if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
			return rate
		}
	}
	return def
}
