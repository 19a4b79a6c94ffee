package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zeon-ai/zeon/internal/config"
	"github.com/zeon-ai/zeon/internal/events"
	"github.com/zeon-ai/zeon/internal/gateway"
	"github.com/zeon-ai/zeon/internal/heartbeat"
	"github.com/zeon-ai/zeon/internal/models"
	"github.com/zeon-ai/zeon/internal/planner"
	"github.com/zeon-ai/zeon/internal/scheduler"
)

// NewGatewayCommand returns the gateway subcommand.
func NewGatewayCommand() *cli.Command {
	return &cli.Command{
		Name:  "gateway",
		Usage: "Start the Zeon gateway server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runGateway,
	}
}

func runGateway(_ context.Context, cmd *cli.Command) error {
	setupLogging(cmd, false)
	cfg := loadConfig(cmd)

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = cmd.Int("port")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat, store, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Info("catalog loaded", "skills", cat.Len(), "warnings", len(cat.Warnings()))

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	if cfg.Events.LogDir != "" {
		logger := events.NewLogger(cfg.Events.LogDir, bus)
		defer logger.Close()
	}

	registry := models.NewRegistry(cfg.Models)
	p := planner.New(cat, &planner.ModelResolver{Registry: registry}, cfg.Planner.Timeout.Duration())

	reload := func(ctx context.Context) error {
		if err := cat.Load(ctx); err != nil {
			return err
		}
		view := store.Swap(cat.Snapshot())
		bus.Publish(events.NewEvent(events.EventCatalogReloaded, events.SourceCatalog, map[string]any{
			"total_skills": view.Catalog.Len(),
			"warnings":     len(view.Catalog.Warnings()),
		}))
		for _, w := range view.Catalog.Warnings() {
			bus.Publish(events.NewEvent(events.EventCatalogWarning, events.SourceCatalog, map[string]any{
				"source": w.Source,
				"reason": w.Reason,
			}))
		}
		return nil
	}

	// SIGHUP re-reads .env + config and triggers a catalog reload
	reloader := config.NewReloader(cmd.String("config"), config.DotenvPath(), cfg)
	reloader.OnReload(func(*config.Config) {
		if err := reload(ctx); err != nil {
			slog.Error("catalog reload failed", "error", err)
		}
	})
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for range hup {
			if err := reloader.Reload(); err != nil {
				slog.Error("config reload failed", "error", err)
			}
		}
	}()

	if cfg.Catalog.ReloadCron != "" {
		sched, err := scheduler.New(cfg.Catalog.ReloadCron, bus, reload)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
	hb := heartbeat.NewWriter(filepath.Join(config.ZeonPath(), "heartbeat.json"), func() heartbeat.Info {
		return heartbeat.Info{Addr: addr, TotalSkills: store.View().Catalog.Len()}
	})
	hb.Start()
	defer hb.Stop()

	server := gateway.NewServer(gateway.Config{
		Host:    cfg.Gateway.Host,
		Port:    cfg.Gateway.Port,
		Bus:     bus,
		Catalog: cat,
		Store:   store,
		Planner: p,
		Reload:  reload,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
