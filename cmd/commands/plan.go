package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zeon-ai/zeon/internal/models"
	"github.com/zeon-ai/zeon/internal/planner"
)

// NewPlanCommand returns the plan subcommand.
func NewPlanCommand() *cli.Command {
	return &cli.Command{
		Name:      "plan",
		Usage:     "Generate a validated plan for a task",
		ArgsUsage: "<task>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Model provider to use (empty = default)",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Model override for the provider",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Provider call deadline",
			},
			&cli.StringFlag{
				Name:  "context",
				Usage: "Task context as a JSON object",
			},
		},
		Action: runPlan,
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate plan steps from a JSON file (- for stdin)",
				ArgsUsage: "<file>",
				Action:    runPlanValidate,
			},
		},
	}
}

func runPlan(ctx context.Context, cmd *cli.Command) error {
	task := cmd.Args().First()
	if task == "" {
		return fmt.Errorf("usage: zeon plan <task>")
	}

	setupLogging(cmd, true)
	cfg := loadConfig(cmd)

	cat, _, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	registry := models.NewRegistry(cfg.Models)
	p := planner.New(cat, &planner.ModelResolver{Registry: registry}, cfg.Planner.Timeout.Duration())

	req := planner.Request{
		Task:     task,
		Provider: cmd.String("provider"),
		Model:    cmd.String("model"),
		Timeout:  cmd.Duration("timeout"),
	}
	if raw := cmd.String("context"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Context); err != nil {
			return fmt.Errorf("parse context: %w", err)
		}
	}

	start := time.Now()
	plan, err := p.Plan(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "plan generated in %s\n", time.Since(start).Truncate(time.Millisecond))

	return printJSON(plan)
}

func runPlanValidate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("usage: zeon plan validate <file>")
	}

	setupLogging(cmd, true)
	cfg := loadConfig(cmd)

	cat, _, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read steps: %w", err)
	}

	var body struct {
		Task  string            `json:"task"`
		Steps []planner.RawStep `json:"steps"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("parse steps: %w", err)
	}

	p := planner.New(cat, nil, cfg.Planner.Timeout.Duration())
	plan, err := p.Validate(body.Task, body.Steps)
	if err != nil {
		return err
	}

	return printJSON(plan)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
