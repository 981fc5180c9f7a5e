package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ESpeakProvider implements Provider interface for espeak-ng. It works
// offline and is mostly useful as a fallback or for drafting lessons.
type ESpeakProvider struct {
	binary string
	speed  int
	pitch  int
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *Config) (*ESpeakProvider, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}
	return &ESpeakProvider{
		binary: "espeak-ng",
		speed:  clamp(config.ESpeakSpeed, 80, 450),
		pitch:  clamp(config.ESpeakPitch, 0, 99),
	}, nil
}

// Synthesize renders text with espeak-ng into a temporary WAV file and
// returns its bytes. voiceID is an espeak voice such as "he+f1".
func (p *ESpeakProvider) Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error) {
	if err := ValidateText(text); err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "levelc-espeak-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputFile := filepath.Join(tmpDir, "speech.wav")
	args := []string{
		"-v", voiceID,
		"-s", strconv.Itoa(p.speed),
		"-p", strconv.Itoa(p.pitch),
		"-w", outputFile,
		strings.TrimSpace(text),
	}

	cmd := exec.CommandContext(ctx, p.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read espeak-ng output: %w", err)
	}
	return data, nil
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
