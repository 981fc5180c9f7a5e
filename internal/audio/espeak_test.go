package audio

import (
	"context"
	"os/exec"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct{ v, want int }{{10, 80}, {200, 200}, {900, 450}}
	for _, tt := range tests {
		if got := clamp(tt.v, 80, 450); got != tt.want {
			t.Errorf("clamp(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestESpeakProvider_Integration(t *testing.T) {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		t.Skip("espeak-ng not installed")
	}

	p, err := NewESpeakProvider(DefaultProviderConfig())
	if err != nil {
		t.Fatalf("NewESpeakProvider: %v", err)
	}
	if p.Name() != "espeak-ng" {
		t.Errorf("Name() = %q", p.Name())
	}

	data, err := p.Synthesize(context.Background(), "שלום", DefaultVoices("espeak")["female_a"])
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	clip, err := DecodeClip(data)
	if err != nil {
		t.Fatalf("espeak output does not decode: %v", err)
	}
	if clip.DurationMs() <= 0 {
		t.Error("expected a non-empty clip")
	}
}

func TestESpeakProvider_RejectsEmptyText(t *testing.T) {
	p := &ESpeakProvider{binary: "espeak-ng", speed: 140, pitch: 50}
	if _, err := p.Synthesize(context.Background(), "   ", "he"); err == nil {
		t.Error("expected validation error")
	}
}
