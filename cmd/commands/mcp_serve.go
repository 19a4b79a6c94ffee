package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	zeonmcp "github.com/zeon-ai/zeon/internal/mcp"
	"github.com/zeon-ai/zeon/internal/models"
	"github.com/zeon-ai/zeon/internal/planner"
)

// NewMCPServeCommand returns the mcp-serve subcommand.
func NewMCPServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp-serve",
		Usage:  "Expose the skill catalog as an MCP server (stdio)",
		Action: runMCPServe,
	}
}

func runMCPServe(_ context.Context, cmd *cli.Command) error {
	// stdout carries the MCP stdio transport; logs must go to stderr
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	}

	cfg := loadConfig(cmd)

	ctx := context.Background()
	cat, store, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Debug("starting MCP server", "skills", cat.Len())

	registry := models.NewRegistry(cfg.Models)
	p := planner.New(cat, &planner.ModelResolver{Registry: registry}, cfg.Planner.Timeout.Duration())

	server := zeonmcp.NewServer(store, p)
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}
