package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// NewExportCommand returns the export subcommand.
func NewExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the composition graph for visualization",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file (empty = stdout)",
			},
		},
		Action: runExport,
	}
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, true)
	cfg := loadConfig(cmd)

	_, store, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store.View().Analyzer.Export(), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		return nil
	}

	_, err = os.Stdout.Write(data)
	return err
}
