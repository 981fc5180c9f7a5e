package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/vladimirpanonopm/levelc/internal/audio"
)

const (
	// DefaultSampleRate is the rate of clips produced by MockProvider.
	DefaultSampleRate = 8000
	// DefaultMsPerRune sets the clip length of MockProvider output.
	DefaultMsPerRune = 50
)

// MockProvider is a thread-safe audio.Provider that synthesizes a tone whose
// length is proportional to the text, so durations are predictable.
type MockProvider struct {
	ProviderName string
	SampleRate   int
	Channels     int
	MsPerRune    int
	Delay        time.Duration

	// Errors fails synthesis for the given texts.
	Errors map[string]error
	// Garbage makes synthesis return undecodable bytes for the given texts.
	Garbage map[string]bool
	// Unavailable is returned from IsAvailable.
	Unavailable error

	mu    sync.Mutex
	calls []string
}

// NewMockProvider returns a mock with default format settings.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		ProviderName: "mock",
		SampleRate:   DefaultSampleRate,
		Channels:     1,
		MsPerRune:    DefaultMsPerRune,
		Errors:       map[string]error{},
		Garbage:      map[string]bool{},
	}
}

// Synthesize records the call and returns a WAV tone.
func (m *MockProvider) Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("%s|%s", text, voiceID))
	err := m.Errors[text]
	garbage := m.Garbage[text]
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	if garbage {
		return []byte("not a wav"), nil
	}
	return ToneWAV(m.SampleRate, m.Channels, m.DurationFor(text))
}

// DurationFor returns the clip length in ms the mock produces for text.
func (m *MockProvider) DurationFor(text string) int64 {
	return int64(utf8.RuneCountInString(text) * m.MsPerRune)
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	return m.ProviderName
}

// IsAvailable returns the configured error
func (m *MockProvider) IsAvailable() error {
	return m.Unavailable
}

// Calls returns a copy of the recorded "text|voice" calls.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many times Synthesize ran.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// SetError fails synthesis of text with err.
func (m *MockProvider) SetError(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[text] = err
}

// ToneWAV encodes a square wave lasting ms milliseconds. The samples are
// non-zero so tests can tell speech from inserted silence.
func ToneWAV(sampleRate, channels int, ms int64) ([]byte, error) {
	frames := int64(sampleRate) * ms / 1000
	if frames == 0 {
		frames = 1
	}
	samples := make([]int, frames*int64(channels))
	for i := range samples {
		if (i/16)%2 == 0 {
			samples[i] = 8000
		} else {
			samples[i] = -8000
		}
	}
	return audio.EncodeWAV(sampleRate, channels, samples)
}

// FixtureWAV is ToneWAV that fails the test on error.
func FixtureWAV(t *testing.T, sampleRate, channels int, ms int64) []byte {
	t.Helper()

	data, err := ToneWAV(sampleRate, channels, ms)
	if err != nil {
		t.Fatalf("Failed to build WAV fixture: %v", err)
	}
	return data
}
