package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/zeon-ai/zeon/internal/secrets"
)

// NewSecretCommand returns the secret subcommand.
func NewSecretCommand() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Manage encrypted config values",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Generate the age key if it does not exist",
				Action: runSecretInit,
			},
			{
				Name:      "encrypt",
				Usage:     "Encrypt a value for use in config",
				ArgsUsage: "<value>",
				Action:    runSecretEncrypt,
			},
			{
				Name:      "decrypt",
				Usage:     "Decrypt an ENC[age:...] value",
				ArgsUsage: "<blob>",
				Action:    runSecretDecrypt,
			},
		},
	}
}

func runSecretInit(_ context.Context, cmd *cli.Command) error {
	path := secrets.KeyPath()
	if err := secrets.GenerateIdentity(path); err != nil {
		return err
	}
	fmt.Printf("key ready at %s\n", path)
	return nil
}

func runSecretEncrypt(_ context.Context, cmd *cli.Command) error {
	value := cmd.Args().First()
	if value == "" {
		return fmt.Errorf("usage: zeon secret encrypt <value>")
	}

	path := secrets.KeyPath()
	if err := secrets.GenerateIdentity(path); err != nil {
		return err
	}
	identity, err := secrets.LoadIdentity(path)
	if err != nil {
		return err
	}

	blob, err := secrets.Encrypt(value, identity.Recipient())
	if err != nil {
		return err
	}
	fmt.Println(blob)
	return nil
}

func runSecretDecrypt(_ context.Context, cmd *cli.Command) error {
	blob := cmd.Args().First()
	if blob == "" {
		return fmt.Errorf("usage: zeon secret decrypt <blob>")
	}
	if !secrets.IsEncrypted(blob) {
		return fmt.Errorf("value is not an ENC[age:...] blob")
	}

	plaintext, err := secrets.Resolve(blob)
	if err != nil {
		return err
	}
	fmt.Println(plaintext)
	return nil
}
