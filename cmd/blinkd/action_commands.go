package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/brojonat/blinkd/client"
	"github.com/brojonat/blinkd/service/server"
	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
)

func actionCommands() *cli.Command {
	return &cli.Command{
		Name:  "action",
		Usage: "Transfer action commands",
		Subcommands: []*cli.Command{
			actionGetCommand(),
			actionSendCommand(),
		},
	}
}

func actionGetCommand() *cli.Command {
	return &cli.Command{
		Name:    "get",
		Aliases: []string{"describe"},
		Usage:   "Fetch the action descriptor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "jq",
				Usage:   "jq filter expression applied to the JSON output",
				Aliases: []string{"q"},
			},
		},
		Action: func(c *cli.Context) error {
			cl := newClient(c)

			descriptor, err := cl.GetAction(context.Background())
			if err != nil {
				return fmt.Errorf("failed to fetch action descriptor: %w", err)
			}

			return printJSON(descriptor, c.String("jq"))
		},
	}
}

func actionSendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Aliases:   []string{"build"},
		Usage:     "Build an unsigned SOL transfer transaction",
		ArgsUsage: "ACCOUNT_ADDRESS",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Usage:    "Recipient wallet address",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "Amount of SOL to send (decimal, e.g. 1.5)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "jq",
				Usage:   "jq filter expression applied to the JSON output",
				Aliases: []string{"q"},
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("account address is required")
			}

			account := c.Args().Get(0)
			cl := newClient(c)

			transfer, err := cl.BuildTransfer(context.Background(), account, c.String("to"), c.String("amount"))
			if err != nil {
				return fmt.Errorf("failed to build transfer: %w", err)
			}

			if c.Bool("json") || c.String("jq") != "" {
				return printJSON(transfer, c.String("jq"))
			}

			fmt.Printf("✓ Transfer transaction built\n")
			fmt.Printf("  %s\n", transfer.Message)
			fmt.Printf("  Transaction (base64, unsigned):\n  %s\n", transfer.Transaction)
			return nil
		},
	}
}

// newClient builds an action client from the global flags.
func newClient(c *cli.Context) *client.Client {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	return client.NewClient(c.String("server-url"), server.ActionPath, nil, logger)
}

// printJSON marshals v, optionally piping it through a jq filter, and prints
// each result on its own line.
func printJSON(v interface{}, jqExpr string) error {
	if jqExpr == "" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	query, err := gojq.Parse(jqExpr)
	if err != nil {
		return fmt.Errorf("failed to parse jq filter %q: %w", jqExpr, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("failed to compile jq filter %q: %w", jqExpr, err)
	}

	// Round-trip through JSON so gojq sees plain maps and slices.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal output: %w", err)
	}

	iter := code.Run(doc)
	for {
		result, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := result.(error); isErr {
			return fmt.Errorf("jq filter error: %w", err)
		}
		out, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to marshal jq result: %w", err)
		}
		fmt.Println(string(out))
	}

	return nil
}
