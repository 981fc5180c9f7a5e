// Package timeline concatenates the clips of a card into one audio track and
// records where each spoken line starts and ends.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vladimirpanonopm/levelc/internal/audio"
	"github.com/vladimirpanonopm/levelc/internal/lesson"
)

const (
	// DefaultPauseMs is the silence after a line whose directive sets none.
	DefaultPauseMs = 500
	// DefaultConcurrency bounds clip fetches within one card.
	DefaultConcurrency = 4
)

var (
	// ErrFormatMismatch is returned when clips of one card differ in sample
	// rate or channel count.
	ErrFormatMismatch = errors.New("audio format mismatch")
	// ErrNoLines is returned when there is nothing to assemble.
	ErrNoLines = errors.New("no lines to assemble")
)

// Line is one spoken line and the directive that voices it.
type Line struct {
	Text      string
	Directive lesson.VoiceDirective
}

// Fetcher supplies decoded clips; *cache.Manager implements it.
type Fetcher interface {
	FetchOrSynthesize(ctx context.Context, text, voiceKey string) (*audio.Clip, error)
}

// Timeline is an assembled card track.
type Timeline struct {
	Audio      []byte
	Segments   []Segment
	DurationMs int64
	SampleRate int
	Channels   int
}

// Assembler builds card tracks from clips.
type Assembler struct {
	fetcher        Fetcher
	defaultPauseMs int
	concurrency    int
}

// NewAssembler creates an assembler. Non-positive arguments select the
// defaults.
func NewAssembler(f Fetcher, defaultPauseMs, concurrency int) *Assembler {
	if defaultPauseMs <= 0 {
		defaultPauseMs = DefaultPauseMs
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Assembler{fetcher: f, defaultPauseMs: defaultPauseMs, concurrency: concurrency}
}

// Pause returns the silence in ms that follows a line voiced by d.
func (a *Assembler) Pause(d lesson.VoiceDirective) int64 {
	if d.PauseMs > 0 {
		return int64(d.PauseMs)
	}
	return int64(a.defaultPauseMs)
}

// Assemble fetches every clip concurrently, then lays them out in line order
// with a pause after each. Any fetch failure cancels the others and fails the
// whole track.
func (a *Assembler) Assemble(ctx context.Context, lines []Line) (*Timeline, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	clips, err := a.fetchAll(ctx, lines)
	if err != nil {
		return nil, err
	}

	sampleRate, channels := clips[0].SampleRate, clips[0].Channels
	var (
		samples  []int
		segments = make([]Segment, 0, len(lines))
		// cursor counts frames; ms are derived per segment boundary.
		cursor int
	)
	for i, line := range lines {
		clip := clips[i]
		if clip.SampleRate != sampleRate || clip.Channels != channels {
			return nil, fmt.Errorf("%w: line %d is %d Hz/%d ch, line 1 is %d Hz/%d ch",
				ErrFormatMismatch, i+1, clip.SampleRate, clip.Channels, sampleRate, channels)
		}

		end := cursor + clip.Frames()
		segments = append(segments, Segment{
			Text:    strings.TrimSpace(line.Text),
			StartMs: audio.DurationMs(cursor, sampleRate),
			EndMs:   audio.DurationMs(end, sampleRate),
		})

		pause := audio.Silence(sampleRate, channels, a.Pause(line.Directive))
		samples = append(samples, clip.Samples...)
		samples = append(samples, pause...)
		cursor = end + len(pause)/channels
	}

	data, err := audio.EncodeWAV(sampleRate, channels, samples)
	if err != nil {
		return nil, err
	}

	return &Timeline{
		Audio:      data,
		Segments:   segments,
		DurationMs: audio.DurationMs(cursor, sampleRate),
		SampleRate: sampleRate,
		Channels:   channels,
	}, nil
}

func (a *Assembler) fetchAll(ctx context.Context, lines []Line) ([]*audio.Clip, error) {
	clips := make([]*audio.Clip, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, line := range lines {
		g.Go(func() error {
			clip, err := a.fetcher.FetchOrSynthesize(gctx, strings.TrimSpace(line.Text), line.Directive.Key)
			if err != nil {
				return fmt.Errorf("line %d (%s): %w", i+1, line.Directive.Key, err)
			}
			clips[i] = clip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clips, nil
}
