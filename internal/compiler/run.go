package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vladimirpanonopm/levelc/internal/level"
)

// SourceFiles lists the level_*.txt files of dir in name order.
func SourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !level.IsSourceFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// CompileFiles compiles every path in order. A document that fails does not
// stop the others; the failures are joined into the returned error. Audio
// pruning runs only when every document was written.
func (c *Compiler) CompileFiles(ctx context.Context, paths []string) ([]*Report, error) {
	var (
		reports []*Report
		errs    []error
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report, err := c.CompileFile(ctx, path)
		if err != nil {
			c.logger.Error("level failed", "source", path, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
			continue
		}
		reports = append(reports, report)
	}

	if len(errs) > 0 {
		return reports, errors.Join(errs...)
	}

	if c.cfg.CleanAudio {
		keep := make(map[string]bool)
		for _, r := range reports {
			for _, name := range r.AudioFiles {
				keep[name] = true
			}
		}
		removed, err := PruneAudio(c.cfg.AudioDir(), keep)
		if err != nil {
			return reports, err
		}
		if len(removed) > 0 {
			fmt.Fprintf(c.out, "\nRemoved %d unreferenced audio assets\n", len(removed))
			c.logger.Info("pruned audio assets", "count", len(removed))
		}
	}

	return reports, nil
}

// CompileDir compiles every source document in the configured source
// directory.
func (c *Compiler) CompileDir(ctx context.Context) ([]*Report, error) {
	files, err := SourceFiles(c.cfg.SourceDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		c.logger.Warn("no level sources found", "dir", c.cfg.SourceDir)
		return nil, nil
	}
	return c.CompileFiles(ctx, files)
}

// PruneAudio removes audio assets in dir whose names are not in keep and
// returns the removed names. A missing dir is not an error.
func PruneAudio(dir string, keep map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audio directory: %w", err)
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != level.AudioExt || keep[name] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	sort.Strings(removed)
	return removed, nil
}

// RenderSummary renders one row per report plus a diagnostics breakdown.
func RenderSummary(reports []*Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Level", "Cards", "Audio", "Diagnostics", "Time"})

	var cards, withAudio, diags int
	kinds := make(map[Kind]int)
	for _, r := range reports {
		tw.AppendRow(table.Row{
			r.LevelID,
			strconv.Itoa(r.Cards),
			strconv.Itoa(r.WithAudio),
			strconv.Itoa(len(r.Diagnostics)),
			r.Elapsed.Round(time.Millisecond).String(),
		})
		cards += r.Cards
		withAudio += r.WithAudio
		diags += len(r.Diagnostics)
		for _, d := range r.Diagnostics {
			kinds[d.Kind]++
		}
	}
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(cards), strconv.Itoa(withAudio), strconv.Itoa(diags), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	var sb strings.Builder
	sb.WriteString(tw.Render())

	if len(kinds) > 0 {
		names := make([]string, 0, len(kinds))
		for k := range kinds {
			names = append(names, string(k))
		}
		sort.Strings(names)

		kt := table.NewWriter()
		kt.SetStyle(table.StyleRounded)
	kt.Style().Format.Header = text.FormatDefault
		kt.AppendHeader(table.Row{"Diagnostic", "Count"})
		for _, name := range names {
			kt.AppendRow(table.Row{name, strconv.Itoa(kinds[Kind(name)])})
		}
		kt.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
		sb.WriteString("\n")
		sb.WriteString(kt.Render())
	}

	return sb.String()
}
