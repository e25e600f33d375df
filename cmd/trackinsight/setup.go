package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/trackinsight/trackinsight/internal/category"
	"github.com/trackinsight/trackinsight/internal/compare"
	"github.com/trackinsight/trackinsight/internal/config"
	"github.com/trackinsight/trackinsight/internal/coordinator"
	"github.com/trackinsight/trackinsight/internal/log"
	"github.com/trackinsight/trackinsight/internal/pattern"
	"github.com/trackinsight/trackinsight/internal/scoring"
	"github.com/trackinsight/trackinsight/internal/storage"
	"github.com/trackinsight/trackinsight/internal/timeline"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the sanitizing structured logger and installs it as
// the process default.
func setupLogger(verbose bool) *slog.Logger {
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)
	return logger
}

// buildConfig creates a Config from the config file and cobra flags.
// File values apply first so that explicit flags win.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cmd.Flags().Lookup("config") != nil {
		cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
		if err != nil {
			return nil, err
		}
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// openDB opens the event database in the configured data directory.
func openDB(cfg *config.Config) (*storage.EventDB, error) {
	db, err := storage.Open(cfg.DBDir, storage.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open event database: %w", err)
	}
	return db, nil
}

// newProvider loads the category benchmark provider, preferring a
// user-supplied dataset over the built-in one.
func newProvider(cfg *config.Config) (category.Provider, error) {
	if cfg.CategoryDataPath != "" {
		provider, err := category.LoadStaticProvider(cfg.CategoryDataPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load category data %s: %w", cfg.CategoryDataPath, err)
		}
		return provider, nil
	}
	return category.NewStaticProvider(), nil
}

// newEngines wires the four analysis engines with their default thresholds.
func newEngines(provider category.Provider, logger *slog.Logger) coordinator.Engines {
	scorer := scoring.NewEngine(scoring.DefaultConfig(), logger)
	return coordinator.Engines{
		Scorer:   scorer,
		Patterns: pattern.NewDetector(pattern.DefaultConfig(), logger),
		Timeline: timeline.NewAnalyzer(timeline.DefaultConfig(), logger),
		Compare:  compare.NewEngine(provider, scorer, logger),
	}
}

// newCoordinator assembles the analysis coordinator over the database.
func newCoordinator(cfg *config.Config, db *storage.EventDB, logger *slog.Logger, opts ...coordinator.Option) (*coordinator.Coordinator, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	base := []coordinator.Option{
		coordinator.WithLogger(logger),
		coordinator.WithDebounce(cfg.Debounce),
		coordinator.WithEventLimit(cfg.RecentLimit),
		coordinator.WithWindow(cfg.Window),
		coordinator.WithAssumeHTTPS(cfg.AssumeHTTPS),
	}
	return coordinator.New(db, newEngines(provider, logger), append(base, opts...)...), nil
}
