package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/zeon-ai/zeon/internal/catalog"
	"github.com/zeon-ai/zeon/internal/composition"
	"github.com/zeon-ai/zeon/internal/config"
)

// setupLogging configures the default slog logger. Logs go to stderr so
// stdout stays clean for command output and stdio transports.
func setupLogging(cmd *cli.Command, quiet bool) {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig loads the config file named by the --config flag, falling back
// to defaults when the file is absent.
func loadConfig(cmd *cli.Command) *config.Config {
	configPath := cmd.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Debug("config not found, using defaults", "path", configPath, "error", err)
		cfg = config.Default()
	}
	return cfg
}

// catalogSource assembles the skill definition source from config.
func catalogSource(cfg *config.Config) catalog.Source {
	var sources catalog.MultiSource
	if len(cfg.Catalog.Dirs) > 0 {
		sources = append(sources, &catalog.DirSource{
			Dirs:     cfg.Catalog.Dirs,
			Patterns: cfg.Catalog.Patterns,
		})
	}
	if cfg.Catalog.SQLitePath != "" {
		sources = append(sources, &catalog.SQLiteSource{Path: cfg.Catalog.SQLitePath})
	}
	if len(sources) == 1 {
		return sources[0]
	}
	return sources
}

// loadCatalog loads the catalog and builds a composition store over it.
func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, *composition.Store, error) {
	cat := catalog.New(catalogSource(cfg))
	if err := cat.Load(ctx); err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	for _, w := range cat.Warnings() {
		slog.Warn("skill definition skipped", "source", w.Source, "reason", w.Reason)
	}
	return cat, composition.NewStore(cat.Snapshot()), nil
}
