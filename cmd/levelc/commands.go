package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vladimirpanonopm/levelc/internal/archive"
	"github.com/vladimirpanonopm/levelc/internal/cache"
	"github.com/vladimirpanonopm/levelc/internal/cli"
	"github.com/vladimirpanonopm/levelc/internal/models"
)

func newCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the speech clip cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show clip totals per voice",
		Args:  cobra.NoArgs,
		RunE:  runCacheStats,
	})
	return cacheCmd
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.CacheDir); os.IsNotExist(err) {
		fmt.Printf("Cache directory %s does not exist yet\n", cfg.CacheDir)
		return nil
	}

	ledger, err := cache.OpenLedgerIn(cfg.CacheDir)
	if err != nil {
		return err
	}
	defer ledger.Close()

	summary, err := ledger.Summary(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(summary.Voices)+1)
	for _, v := range summary.Voices {
		rows = append(rows, []string{
			v.VoiceKey,
			v.VoiceID,
			strconv.FormatInt(v.Clips, 10),
			formatBytes(v.Bytes),
			formatMs(v.DurationMs),
		})
	}
	rows = append(rows, []string{"total", "", strconv.FormatInt(summary.Clips, 10),
		formatBytes(summary.Bytes), formatMs(summary.DurationMs)})

	fmt.Printf("Cache: %s\n", cfg.CacheDir)
	fmt.Println(renderTable(
		[]string{"Voice", "ID", "Clips", "Size", "Audio"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))

	if onDisk, err := filepath.Glob(filepath.Join(cfg.CacheDir, "*.wav")); err == nil && int64(len(onDisk)) != summary.Clips {
		fmt.Printf("Note: %d clip files on disk, %d in the ledger\n", len(onDisk), summary.Clips)
	}
	return nil
}

func newVoicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "Print the effective voice table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(cfg.Voices))
			for _, key := range cfg.Voices.Keys() {
				rows = append(rows, []string{key, cfg.Voices[key]})
			}
			fmt.Printf("Provider: %s\n", cfg.Audio.Provider)
			fmt.Println(renderTable([]string{"Key", "Voice"}, rows, nil))
			return nil
		},
	}
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List OpenAI TTS models available for the configured key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			lister := models.NewLister(cli.GetOpenAIKey())
			return lister.ListSpeechModels(cmd.Context(), os.Stdout, cfg.Audio.OpenAIModel)
		},
	}
}

func newArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Move the assets directory to a timestamped archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			unlock, err := lockAssets(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			// The lock file moves with the directory
			defer unlock()

			path, err := archive.ArchiveAssets(cfg.AssetsDir)
			if err != nil {
				return fmt.Errorf("failed to archive assets: %w", err)
			}
			fmt.Printf("Assets directory archived to: %s\n", path)
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatMs(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(time.Second).String()
}
