package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vladimirpanonopm/levelc/internal/audio"
	"github.com/vladimirpanonopm/levelc/internal/cache"
	"github.com/vladimirpanonopm/levelc/internal/config"
	"github.com/vladimirpanonopm/levelc/internal/testutil"
)

func TestOpenCache_WithoutAPIKeyServesCachedClips(t *testing.T) {
	cfg := config.Default()
	cfg.CacheDir = filepath.Join(testutil.CreateTestDirectory(t), "cache")
	cfg.Audio.OpenAIKey = ""

	mgr, closeCache, err := openCache(context.Background(), cfg, testutil.NewTestLogger())
	if err != nil {
		t.Fatalf("openCache() error = %v", err)
	}
	t.Cleanup(closeCache)

	voiceID, err := cfg.Voices.Resolve("female_a")
	if err != nil {
		t.Fatal(err)
	}
	wav, err := testutil.ToneWAV(24000, 1, 200)
	if err != nil {
		t.Fatal(err)
	}
	testutil.CreateTestFile(t, mgr.Path(cache.Address("שלום", voiceID)), wav)

	clip, err := mgr.FetchOrSynthesize(context.Background(), "שלום", "female_a")
	if err != nil {
		t.Fatalf("cached clip should be served without a key: %v", err)
	}
	if clip.DurationMs() != 200 {
		t.Errorf("DurationMs() = %d, want 200", clip.DurationMs())
	}

	_, err = mgr.FetchOrSynthesize(context.Background(), "חדש", "female_a")
	if !errors.Is(err, cache.ErrSynthesisProviderFailure) {
		t.Errorf("miss should be a provider failure, got %v", err)
	}
	if !errors.Is(err, audio.ErrMissingAPIKey) {
		t.Errorf("miss should name the missing key, got %v", err)
	}
}

func TestOpenCache_UnknownProviderFails(t *testing.T) {
	cfg := config.Default()
	cfg.CacheDir = filepath.Join(testutil.CreateTestDirectory(t), "cache")
	cfg.Audio.Provider = "nonexistent"

	if _, _, err := openCache(context.Background(), cfg, testutil.NewTestLogger()); err == nil {
		t.Fatal("expected an error for an unknown provider")
	}
}
