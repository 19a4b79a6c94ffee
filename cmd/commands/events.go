package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	wsclient "github.com/zeon-ai/zeon/clients/ws"
	wsprotocol "github.com/zeon-ai/zeon/internal/gateway/ws"
)

// NewEventsCommand returns the events subcommand.
func NewEventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Stream gateway events to stdout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "gateway",
				Usage: "Gateway WebSocket URL",
				Value: "ws://127.0.0.1:18500/api/ws",
			},
			&cli.IntFlag{
				Name:  "history",
				Usage: "Number of past events to replay before streaming",
			},
		},
		Action: runEvents,
	}
}

func runEvents(_ context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := wsclient.Dial(ctx, cmd.String("gateway"))
	if err != nil {
		return fmt.Errorf("connect to gateway: %w", err)
	}
	defer client.Close()

	if n := cmd.Int("history"); n > 0 {
		if err := client.History(n); err != nil {
			return err
		}
	}

	for {
		frame, err := client.ReadFrame()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		switch frame.Type {
		case wsprotocol.FrameTypeEvent:
			fmt.Printf("%s %s\n", frame.Event, compactJSON(frame.Payload))
		case wsprotocol.FrameTypeResponse:
			if frame.Error != "" {
				fmt.Fprintf(os.Stderr, "error: %s\n", frame.Error)
				continue
			}
			// History responses carry a batch of past events
			var batch []json.RawMessage
			if err := json.Unmarshal(frame.Payload, &batch); err == nil {
				for _, e := range batch {
					fmt.Println(compactJSON(e))
				}
			}
		}
	}
}

func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return string(raw)
}
