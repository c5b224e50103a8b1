package cmd

import (
	"fmt"
	"os"

	"asset-extractor/core/config"
	"asset-extractor/core/loader"
	"asset-extractor/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "asset-extractor",
	Short: "Game asset extraction toolkit",
	Long: `Asset Extractor parses game content containers, discovers species and
structures, and exports wiki-ready data documents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// setup loads the application configuration and builds the logger every
// command starts from.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}

// buildLoader wires the asset loader from configuration. A missing mods
// file downgrades to an empty mod map with a warning, since base-game
// extraction does not need one.
func buildLoader(cfg *config.Config, logg *zap.Logger) (*loader.AssetLoader, error) {
	var resolver loader.ModResolver = loader.NewIniModResolver(cfg.Assets.ModsFile)
	if _, err := os.Stat(cfg.Assets.ModsFile); err != nil {
		logg.Warn("Mods file not found, mod paths will not resolve",
			zap.String("path", cfg.Assets.ModsFile))
		resolver = loader.NewStaticModResolver(nil)
	}

	return loader.New(cfg.Assets, resolver, logg, loader.Options{
		CacheConfig: cfg.Cache,
	})
}
