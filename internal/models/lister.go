package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when listing without an API key.
var ErrNoAPIKey = errors.New("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure audio.openai_key in .levelc.yaml")

// Client is the part of the OpenAI client the lister uses.
type Client interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// NewListerWithClient creates a lister around an existing client.
func NewListerWithClient(apiKey string, client Client) *Lister {
	return &Lister{apiKey: apiKey, client: client}
}

// SpeechModels returns the sorted IDs of text-to-speech models.
func (l *Lister) SpeechModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var tts []string
	for _, model := range models.Models {
		if isSpeechModel(model.ID) {
			tts = append(tts, model.ID)
		}
	}
	sort.Strings(tts)
	return tts, nil
}

// ListSpeechModels prints the speech models to w and marks the configured
// one.
func (l *Lister) ListSpeechModels(ctx context.Context, w io.Writer, current string) error {
	tts, err := l.SpeechModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Text-to-Speech (TTS) Models:")
	if len(tts) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
		return nil
	}
	for _, model := range tts {
		if model == current {
			fmt.Fprintf(w, "  %s (configured)\n", model)
		} else {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}
	return nil
}

// Realtime and transcription models mention audio but cannot synthesize a
// clip from text.
func isSpeechModel(id string) bool {
	if strings.Contains(id, "tts") {
		return true
	}
	return strings.Contains(id, "audio") && !strings.Contains(id, "realtime") && !strings.Contains(id, "transcribe")
}
