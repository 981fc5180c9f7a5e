package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vladimirpanonopm/levelc/internal/cache"
	"github.com/vladimirpanonopm/levelc/internal/config"
	"github.com/vladimirpanonopm/levelc/internal/fileutil"
	"github.com/vladimirpanonopm/levelc/internal/lesson"
	"github.com/vladimirpanonopm/levelc/internal/level"
	"github.com/vladimirpanonopm/levelc/internal/task"
	"github.com/vladimirpanonopm/levelc/internal/timeline"
	"github.com/vladimirpanonopm/levelc/internal/tokens"
)

// Report summarizes the compilation of one source document.
type Report struct {
	LevelID string
	Source  string
	// Path is the written level document.
	Path string
	// Cards counts emitted cards, AUDITION twins included.
	Cards     int
	WithAudio int
	// AudioFiles are the asset names the level refers to.
	AudioFiles  []string
	Diagnostics []Diagnostic
	Elapsed     time.Duration
}

// Compiler compiles source documents with one configuration.
type Compiler struct {
	cfg       *config.Config
	resolver  *task.Resolver
	assembler *timeline.Assembler
	cache     *cache.Manager
	logger    *log.Logger
	out       io.Writer
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCache enables card audio, fetching clips through m.
func WithCache(m *cache.Manager) Option {
	return func(c *Compiler) { c.cache = m }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// WithOutput sets where progress lines are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Compiler) { c.out = w }
}

// New creates a compiler. Without WithCache, or with cfg.SkipAudio set, no
// card gets audio.
func New(cfg *config.Config, opts ...Option) *Compiler {
	c := &Compiler{
		cfg:      cfg,
		resolver: task.NewResolver(tokens.ForScript(cfg.Script)),
		logger:   log.Default(),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "compiler")
	if c.cache != nil && !cfg.SkipAudio {
		c.assembler = timeline.NewAssembler(c.cache, cfg.DefaultPauseMs, cfg.FetchConcurrency)
	}
	return c
}

type resolved struct {
	rec  lesson.Record
	proj task.Projection
	err  error
}

// CompileFile compiles one source document and writes its level document into
// the assets directory. Card problems end up in the report; the error is only
// set when the document itself cannot be read or written.
func (c *Compiler) CompileFile(ctx context.Context, path string) (*Report, error) {
	start := time.Now()
	levelID := level.LevelIDFromPath(path)
	logger := c.logger.With("level", levelID)

	blocks, err := lesson.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(c.out, "\nCompiling level %s (%d blocks)\n", levelID, len(blocks))

	results, err := c.resolveAll(ctx, blocks)
	if err != nil {
		return nil, err
	}

	report := &Report{LevelID: levelID, Source: path}
	cards := make([]level.Card, 0, len(results))

	for _, r := range results {
		if r.err != nil {
			d := newDiagnostic(r.rec.Block, r.rec.TaskType, r.err)
			report.Diagnostics = append(report.Diagnostics, d)
			logger.Warn("skipping block", "block", r.rec.Block, "kind", d.Kind, "err", r.err)
			fmt.Fprintf(c.out, "  Block %d... skipped (%s)\n", r.rec.Block, d.Kind)
			continue
		}

		fmt.Fprintf(c.out, "  Card %d (%s)...", r.rec.Block, r.proj.Card.TaskType)
		card, diags, err := c.enrich(ctx, &r.rec, r.proj)
		if err != nil {
			fmt.Fprintln(c.out, " failed")
			return nil, err
		}
		report.Diagnostics = append(report.Diagnostics, diags...)
		for _, d := range diags {
			logger.Warn("audio problem", "block", d.Block, "kind", d.Kind, "err", d.Err)
		}

		switch {
		case card.HasAudio():
			report.WithAudio++
			report.AudioFiles = append(report.AudioFiles, *card.AudioFilename)
			fmt.Fprintf(c.out, " Audio OK (%d lines)\n", len(card.Segments))
		case len(diags) > 0:
			fmt.Fprintf(c.out, " no audio (%s)\n", diags[len(diags)-1].Kind)
		default:
			fmt.Fprintln(c.out, " OK")
		}

		cards = append(cards, card)
		if card.TaskType == string(task.Audition) {
			cards = append(cards, card.WithTaskType(string(task.AssembleTranslation)))
			if card.HasAudio() {
				report.WithAudio++
			}
		}
	}

	doc := level.Document{LevelID: levelID, Cards: cards}
	report.Path, err = level.Write(c.cfg.AssetsDir, doc)
	if err != nil {
		return nil, err
	}
	report.Cards = len(cards)
	report.Elapsed = time.Since(start)

	logger.Info("level written", "path", report.Path, "cards", report.Cards,
		"audio", report.WithAudio, "diagnostics", len(report.Diagnostics))
	return report, nil
}

// resolveAll parses and resolves every block in parallel. Results keep block
// order.
func (c *Compiler) resolveAll(ctx context.Context, blocks []lesson.Block) ([]resolved, error) {
	results := make([]resolved, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for i, b := range blocks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := lesson.Parse(b)
			proj, err := c.resolver.Resolve(&rec)
			results[i] = resolved{rec: rec, proj: proj, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// enrich attaches audio to the card when it wants some and its VOICES are
// usable. Audio problems come back as diagnostics and leave the card without
// audio. The error is set only when the asset cannot be written or the run
// was cancelled.
func (c *Compiler) enrich(ctx context.Context, rec *lesson.Record, p task.Projection) (level.Card, []Diagnostic, error) {
	card := p.Card
	if c.assembler == nil || !p.WantsAudio() {
		return card, nil, nil
	}

	voiceLines := rec.Lines(lesson.FieldVoices)
	if len(voiceLines) == 0 {
		return card, nil, nil
	}

	diag := func(err error) []Diagnostic {
		return []Diagnostic{newDiagnostic(rec.Block, card.TaskType, blockError(rec.Block, card.TaskType, err))}
	}

	directives, err := lesson.ParseVoices(voiceLines)
	if err != nil {
		return card, diag(err), nil
	}
	if len(directives) == 0 {
		return card, nil, nil
	}
	if len(directives) != len(p.AudioLines) {
		return card, diag(fmt.Errorf("%w: %d directives for %d lines",
			ErrVoiceCountMismatch, len(directives), len(p.AudioLines))), nil
	}

	lines := make([]timeline.Line, len(directives))
	for i, d := range directives {
		lines[i] = timeline.Line{Text: p.AudioLines[i], Directive: d}
	}

	evictedBefore := c.cache.Stats().Evictions
	tl, err := c.assembler.Assemble(ctx, lines)
	if err != nil {
		if ctx.Err() != nil {
			return card, nil, ctx.Err()
		}
		return card, diag(err), nil
	}

	var diags []Diagnostic
	if n := c.cache.Stats().Evictions - evictedBefore; n > 0 {
		diags = diag(fmt.Errorf("%w: %d entries evicted and re-synthesized", cache.ErrCorruptedCacheEntry, n))
	}

	name := level.AudioAssetName(p.HashSource)
	if err := c.writeAsset(name, tl.Audio); err != nil {
		return card, diags, err
	}
	c.logger.Debug("card audio written", "block", rec.Block, "asset", name,
		"segments", len(tl.Segments), "duration_ms", tl.DurationMs)

	return card.WithAudio(name, tl.Segments), diags, nil
}

func (c *Compiler) writeAsset(name string, data []byte) error {
	dir := c.cfg.AudioDir()
	if err := fileutil.EnsureDir(dir); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write audio asset %s: %w", name, err)
	}
	return nil
}
