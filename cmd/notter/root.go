package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/notterhq/notter"
	"github.com/notterhq/notter/internal/config"
	"github.com/notterhq/notter/pkg/core"
	"github.com/notterhq/notter/pkg/i18n"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notter",
	Short: "A local-first note manager backed by a hosted store",
	Long: `Notter keeps your notes synchronized with a hosted PostgREST backend
while staying fully usable offline through a local sqlite mirror.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to notter.yaml (default: search upwards)")
}

// loadConfig resolves the configuration file: an explicit --config path
// wins, otherwise the nearest notter.yaml above the working directory is
// used, otherwise defaults plus environment.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			if found, err := notter.FindConfig(wd); err == nil {
				path = found
			}
		}
	}
	return config.Load(path)
}

// newEngine builds a loaded engine from the resolved configuration.
func newEngine(ctx context.Context) (*notter.Engine, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	engine, err := notter.New(
		notter.WithRemoteCredentials(cfg.RemoteURL, cfg.RemoteKey),
		notter.WithCachePath(cfg.CachePath),
		notter.WithDebounceWindow(cfg.Debounce()),
		notter.WithLogger(slog.Default()),
	)
	if err != nil {
		return nil, config.Config{}, err
	}

	if err := engine.Load(ctx); err != nil {
		// A recoverable fetch failure still leaves the cached collection
		// usable; surface it and keep going.
		var serr *core.SyncError
		if !errors.As(err, &serr) {
			engine.Close()
			return nil, config.Config{}, err
		}
		fmt.Fprintf(os.Stderr, "warning: %s (showing cached notes)\n", serr.Message)
	}
	return engine, cfg, nil
}

func tr(cfg config.Config, key string) string {
	return i18n.T(i18n.Language(cfg.Language), key)
}
