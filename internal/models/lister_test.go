package models

import (
	"bytes"
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

type fakeClient struct {
	ids []string
	err error
}

func (f fakeClient) ListModels(ctx context.Context) (openai.ModelsList, error) {
	if f.err != nil {
		return openai.ModelsList{}, f.err
	}
	var list openai.ModelsList
	for _, id := range f.ids {
		list.Models = append(list.Models, openai.Model{ID: id})
	}
	return list, nil
}

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestSpeechModels_NoAPIKey(t *testing.T) {
	lister := NewListerWithClient("", fakeClient{})

	if _, err := lister.SpeechModels(context.Background()); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got: %v", err)
	}
}

func TestSpeechModels_Filters(t *testing.T) {
	lister := NewListerWithClient("key", fakeClient{ids: []string{
		"tts-1-hd",
		"gpt-4o",
		"gpt-4o-mini-tts",
		"gpt-4o-realtime-audio",
		"gpt-4o-transcribe-audio",
		"gpt-4o-audio-preview",
		"tts-1",
		"dall-e-3",
	}})

	got, err := lister.SpeechModels(context.Background())
	if err != nil {
		t.Fatalf("SpeechModels() error = %v", err)
	}
	want := []string{"gpt-4o-audio-preview", "gpt-4o-mini-tts", "tts-1", "tts-1-hd"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SpeechModels() = %v, want %v", got, want)
	}
}

func TestSpeechModels_ClientError(t *testing.T) {
	lister := NewListerWithClient("key", fakeClient{err: errors.New("401")})

	if _, err := lister.SpeechModels(context.Background()); err == nil {
		t.Error("Expected error from client")
	}
}

func TestListSpeechModels(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		current string
		want    []string
	}{
		{"marks configured", []string{"tts-1", "gpt-4o-mini-tts"}, "gpt-4o-mini-tts", []string{"gpt-4o-mini-tts (configured)", "  tts-1\n"}},
		{"none found", []string{"gpt-4o"}, "tts-1", []string{"No TTS models found"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lister := NewListerWithClient("key", fakeClient{ids: tt.ids})
			if err := lister.ListSpeechModels(context.Background(), &buf, tt.current); err != nil {
				t.Fatalf("ListSpeechModels() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output %q missing %q", buf.String(), want)
				}
			}
		})
	}
}

func TestListSpeechModels_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	var buf bytes.Buffer
	if err := NewLister(apiKey).ListSpeechModels(context.Background(), &buf, ""); err != nil {
		t.Errorf("ListSpeechModels failed: %v", err)
	}
}
