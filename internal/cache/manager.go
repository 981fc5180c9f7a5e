package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"

	"github.com/vladimirpanonopm/levelc/internal"
	"github.com/vladimirpanonopm/levelc/internal/audio"
	"github.com/vladimirpanonopm/levelc/internal/fileutil"
)

const clipExt = ".wav"

var (
	// ErrSynthesisProviderFailure wraps every failure to obtain a usable clip
	// from the provider.
	ErrSynthesisProviderFailure = errors.New("synthesis provider failure")
	// ErrCorruptedCacheEntry marks a failure that followed the eviction of an
	// undecodable entry.
	ErrCorruptedCacheEntry = errors.New("corrupted cache entry")
)

// Stats counts cache activity since the manager was created.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	Synthesized int64
	StoreErrors int64
}

// Manager resolves voice keys, serves clips from disk and synthesizes
// missing ones.
type Manager struct {
	dir      string
	provider audio.Provider
	voices   audio.VoiceTable
	ledger   *Ledger
	logger   *log.Logger

	group singleflight.Group

	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	synthesized atomic.Int64
	storeErrors atomic.Int64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLedger records every stored clip in l.
func WithLedger(l *Ledger) Option {
	return func(m *Manager) { m.ledger = l }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates the cache directory if needed.
func NewManager(dir string, provider audio.Provider, voices audio.VoiceTable, opts ...Option) (*Manager, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	m := &Manager{
		dir:      dir,
		provider: provider,
		voices:   voices,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "cache")
	return m, nil
}

// Address returns the content address of text spoken by voiceID: the MD5 of
// the NFC-normalized trimmed text joined to the voice with an underscore.
func Address(text, voiceID string) string {
	return internal.HashName(norm.NFC.String(strings.TrimSpace(text)) + "_" + voiceID)
}

// Path returns the file path for an address.
func (m *Manager) Path(address string) string {
	return filepath.Join(m.dir, address+clipExt)
}

// Dir returns the cache root.
func (m *Manager) Dir() string {
	return m.dir
}

// Voices returns the voice table used for resolution.
func (m *Manager) Voices() audio.VoiceTable {
	return m.voices
}

// Stats returns a snapshot of the counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Hits:        m.hits.Load(),
		Misses:      m.misses.Load(),
		Evictions:   m.evictions.Load(),
		Synthesized: m.synthesized.Load(),
		StoreErrors: m.storeErrors.Load(),
	}
}

// FetchOrSynthesize returns the clip for text in the voice named by voiceKey.
// Concurrent calls for the same address share one lookup and at most one
// provider call.
func (m *Manager) FetchOrSynthesize(ctx context.Context, text, voiceKey string) (*audio.Clip, error) {
	voiceID, err := m.voices.Resolve(voiceKey)
	if err != nil {
		return nil, err
	}

	address := Address(text, voiceID)
	v, err, _ := m.group.Do(address, func() (interface{}, error) {
		return m.fetch(ctx, address, strings.TrimSpace(text), voiceKey, voiceID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*audio.Clip), nil
}

func (m *Manager) fetch(ctx context.Context, address, text, voiceKey, voiceID string) (*audio.Clip, error) {
	path := m.Path(address)
	evicted := false

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		clip, decErr := audio.DecodeClip(data)
		if decErr == nil {
			m.hits.Add(1)
			m.logger.Debug("cache hit", "address", address, "voice", voiceKey)
			return clip, nil
		}
		m.evict(ctx, address, path, decErr)
		evicted = true
	case !errors.Is(err, fs.ErrNotExist):
		m.logger.Warn("unreadable cache entry, treating as miss", "address", address, "err", err)
	}

	m.misses.Add(1)
	clip, err := m.synthesize(ctx, address, path, text, voiceKey, voiceID)
	if err != nil {
		if evicted {
			return nil, fmt.Errorf("%w (entry %s was evicted: %w)", err, address, ErrCorruptedCacheEntry)
		}
		return nil, err
	}
	return clip, nil
}

func (m *Manager) evict(ctx context.Context, address, path string, cause error) {
	m.evictions.Add(1)
	m.logger.Warn("corrupted cache entry, evicting", "address", address, "err", cause)

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warn("failed to remove corrupted entry", "path", path, "err", err)
	}
	if m.ledger != nil {
		if err := m.ledger.Forget(ctx, address); err != nil {
			m.logger.Warn("ledger forget failed", "address", address, "err", err)
		}
	}
}

func (m *Manager) synthesize(ctx context.Context, address, path, text, voiceKey, voiceID string) (*audio.Clip, error) {
	start := time.Now()
	data, err := m.provider.Synthesize(ctx, text, voiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSynthesisProviderFailure, m.provider.Name(), err)
	}

	clip, err := audio.DecodeClip(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s returned unusable audio: %w", ErrSynthesisProviderFailure, m.provider.Name(), err)
	}
	m.synthesized.Add(1)
	m.logger.Debug("synthesized clip", "address", address, "voice", voiceKey,
		"duration_ms", clip.DurationMs(), "took", time.Since(start))

	// Store failures are logged and the decoded clip is still returned.
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		m.storeErrors.Add(1)
		m.logger.Warn("failed to store clip", "address", address, "err", err)
		return clip, nil
	}

	if m.ledger != nil {
		entry := Entry{
			Address:    address,
			Text:       text,
			VoiceKey:   voiceKey,
			VoiceID:    voiceID,
			Provider:   m.provider.Name(),
			DurationMs: clip.DurationMs(),
			Bytes:      int64(len(data)),
			CreatedAt:  time.Now().UTC(),
		}
		if err := m.ledger.Record(ctx, entry); err != nil {
			m.logger.Warn("ledger record failed", "address", address, "err", err)
		}
	}

	return clip, nil
}
