package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vladimirpanonopm/levelc/internal/audio"
	"github.com/vladimirpanonopm/levelc/internal/cache"
	"github.com/vladimirpanonopm/levelc/internal/cli"
	"github.com/vladimirpanonopm/levelc/internal/compiler"
	"github.com/vladimirpanonopm/levelc/internal/config"
	"github.com/vladimirpanonopm/levelc/internal/fileutil"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Bare invocation compiles
	rootCmd.RunE = runCompile
	rootCmd.AddCommand(
		newCompileCommand(),
		newCacheCommand(),
		newVoicesCommand(),
		newModelsCommand(),
		newArchiveCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newCompileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile level sources (all of --source when no files are given)",
		RunE:  runCompile,
	}
}

// setup loads the effective configuration and the logger.
func setup() (*config.Config, *log.Logger, error) {
	logger := cli.NewLogger(os.Stderr, viper.GetBool("debug"))
	cfg, err := cli.BuildConfig(viper.GetViper())
	if err != nil {
		return nil, logger, err
	}
	return cfg, logger, nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	unlock, err := lockAssets(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer unlock()

	opts := []compiler.Option{compiler.WithLogger(logger)}

	var mgr *cache.Manager
	if !cfg.SkipAudio {
		var closeCache func()
		mgr, closeCache, err = openCache(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeCache()
		opts = append(opts, compiler.WithCache(mgr))
	}

	comp := compiler.New(cfg, opts...)

	start := time.Now()
	var reports []*compiler.Report
	if len(args) > 0 {
		reports, err = comp.CompileFiles(ctx, args)
	} else {
		reports, err = comp.CompileDir(ctx)
	}

	if len(reports) > 0 {
		fmt.Printf("\n%s\n", compiler.RenderSummary(reports))
	}
	if mgr != nil {
		s := mgr.Stats()
		fmt.Printf("Cache: %d hits, %d misses, %d synthesized, %d evicted\n",
			s.Hits, s.Misses, s.Synthesized, s.Evictions)
	}
	fmt.Printf("\nDone in %s. Levels saved to: %s\n", time.Since(start).Round(time.Millisecond), cfg.AssetsDir)

	return err
}

// lockAssets serializes runs that write into the same assets directory.
func lockAssets(ctx context.Context, cfg *config.Config, logger *log.Logger) (func(), error) {
	if err := fileutil.EnsureDir(cfg.AssetsDir); err != nil {
		return nil, err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		logger.Info("another run holds the assets lock, waiting", "lock", cfg.LockPath())
		if _, err := lock.TryLockContext(ctx, 250*time.Millisecond); err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release assets lock", "err", err)
		}
	}, nil
}

// openCache builds the guarded provider and the cache manager. Without an
// API key cached clips are still served and misses fail per card. A ledger
// that cannot be opened only costs the cache stats.
func openCache(ctx context.Context, cfg *config.Config, logger *log.Logger) (*cache.Manager, func(), error) {
	provider, err := audio.NewProvider(ctx, &cfg.Audio, cfg.Voices, logger)
	switch {
	case errors.Is(err, audio.ErrMissingAPIKey):
		logger.Warn("no API key, only cached clips can be used", "provider", cfg.Audio.Provider, "err", err)
		provider = audio.NewUnavailableProvider(cfg.Audio.Provider, err)
	case err != nil:
		return nil, nil, fmt.Errorf("audio provider: %w", err)
	default:
		if err := provider.IsAvailable(); err != nil {
			logger.Warn("audio provider not available", "provider", provider.Name(), "err", err)
		}
	}

	if err := fileutil.EnsureDir(cfg.CacheDir); err != nil {
		return nil, nil, err
	}

	opts := []cache.Option{cache.WithLogger(logger)}
	closeFn := func() {}
	ledger, err := cache.OpenLedgerIn(cfg.CacheDir)
	if err != nil {
		logger.Warn("cache ledger unavailable", "err", err)
	} else {
		opts = append(opts, cache.WithLedger(ledger))
		closeFn = func() {
			if err := ledger.Close(); err != nil {
				logger.Warn("failed to close cache ledger", "err", err)
			}
		}
	}

	mgr, err := cache.NewManager(cfg.CacheDir, provider, cfg.Voices, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	logger.Debug("speech cache ready", "dir", cfg.CacheDir, "provider", provider.Name())
	return mgr, closeFn, nil
}
