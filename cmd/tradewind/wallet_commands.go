package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/brojonat/tradewind/client"
	"github.com/brojonat/tradewind/solana"
)

func walletCommands() *cli.Command {
	return &cli.Command{
		Name:  "wallet",
		Usage: "SOL movement commands",
		Subcommands: []*cli.Command{
			walletDistributeCommand(),
			walletConsolidateCommand(),
			walletMixCommand(),
			walletBalanceCommand(),
		},
	}
}

func walletDistributeCommand() *cli.Command {
	return &cli.Command{
		Name:  "distribute",
		Usage: "Distribute SOL from a sender to recipient wallets",
		Flags: append(apiFlags(),
			&cli.StringFlag{
				Name:     "sender-key",
				Aliases:  []string{"s"},
				Usage:    "Sender wallet secret key",
				EnvVars:  []string{"TRADEWIND_SENDER_KEY"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "recipients-file",
				Aliases:  []string{"f"},
				Usage:    "JSON file of {\"secret_key\", \"amount\"} recipients",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "batch",
				Usage: "Split recipients into paced outer groups",
			},
		),
		Action: func(c *cli.Context) error {
			cl, err := newSDKClient(c)
			if err != nil {
				return err
			}
			recipients, err := loadRecipients(c.String("recipients-file"))
			if err != nil {
				return err
			}

			params := client.DistributeParams{
				Sender:     client.Wallet{SecretKey: c.String("sender-key")},
				Recipients: recipients,
			}

			if c.Bool("batch") {
				res, err := cl.BatchDistribute(context.Background(), params)
				if err != nil {
					// Completed groups survive a mid-batch failure; show them
					// alongside the error.
					if res != nil && len(res.Results) > 0 {
						_ = printResult(c, res)
					}
					return fmt.Errorf("distribute failed: %w", err)
				}
				return printResult(c, res)
			}

			out, err := cl.Distribute(context.Background(), params)
			if err != nil {
				return fmt.Errorf("distribute failed: %w", err)
			}
			return printResult(c, out)
		},
	}
}

func walletConsolidateCommand() *cli.Command {
	return &cli.Command{
		Name:  "consolidate",
		Usage: "Drain source wallets into a destination wallet",
		Flags: append(apiFlags(),
			&cli.StringFlag{
				Name:     "destination-key",
				Usage:    "Destination wallet secret key",
				EnvVars:  []string{"TRADEWIND_DESTINATION_KEY"},
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "source-key",
				Usage:    "Source wallet secret key (repeatable)",
				Required: true,
			},
		),
		Action: func(c *cli.Context) error {
			cl, err := newSDKClient(c)
			if err != nil {
				return err
			}

			out, err := cl.Consolidate(context.Background(), client.ConsolidateParams{
				Destination: client.Wallet{SecretKey: c.String("destination-key")},
				Sources:     walletsFromKeys(c.StringSlice("source-key")),
			})
			if err != nil {
				return fmt.Errorf("consolidate failed: %w", err)
			}
			return printResult(c, out)
		},
	}
}

func walletMixCommand() *cli.Command {
	return &cli.Command{
		Name:  "mix",
		Usage: "Mix SOL to recipient wallets, one recipient per hop",
		Flags: append(apiFlags(),
			&cli.StringFlag{
				Name:     "sender-key",
				Aliases:  []string{"s"},
				Usage:    "Sender wallet secret key",
				EnvVars:  []string{"TRADEWIND_SENDER_KEY"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "recipients-file",
				Aliases:  []string{"f"},
				Usage:    "JSON file of {\"secret_key\", \"amount\"} recipients",
				Required: true,
			},
		),
		Action: func(c *cli.Context) error {
			cl, err := newSDKClient(c)
			if err != nil {
				return err
			}
			recipients, err := loadRecipients(c.String("recipients-file"))
			if err != nil {
				return err
			}

			res, err := cl.BatchMix(context.Background(), client.MixParams{
				Sender:     client.Wallet{SecretKey: c.String("sender-key")},
				Recipients: recipients,
			})
			if err != nil {
				if res != nil && len(res.Results) > 0 {
					_ = printResult(c, res)
				}
				return fmt.Errorf("mix failed: %w", err)
			}
			return printResult(c, res)
		},
	}
}

func walletBalanceCommand() *cli.Command {
	return &cli.Command{
		Name:      "balance",
		Usage:     "Show a wallet's SOL balance",
		ArgsUsage: "WALLET_ADDRESS",
		Flags: append(apiFlags(),
			&cli.BoolFlag{
				Name:  "lamports",
				Usage: "Print the raw lamport balance",
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("wallet address is required")
			}
			rpcURL := c.String("rpc-url")
			if rpcURL == "" {
				rpcURL = os.Getenv("TRADEWIND_RPC_URL")
			}
			if rpcURL == "" {
				return fmt.Errorf("--rpc-url (or TRADEWIND_RPC_URL) is required")
			}

			address := c.Args().Get(0)
			balances := solana.NewBalanceClient(solana.NewRPCClient(rpcURL), rpcURL, nil, nil)
			lamports, err := balances.GetBalance(context.Background(), address)
			if err != nil {
				return fmt.Errorf("failed to get balance: %w", err)
			}

			if c.Bool("json") || c.String("jq") != "" {
				return printResult(c, map[string]any{
					"address":  address,
					"lamports": lamports,
					"sol":      solana.LamportsToSOL(lamports),
				})
			}
			if c.Bool("lamports") {
				fmt.Println(lamports)
				return nil
			}
			fmt.Printf("%s: %.9f SOL\n", address, solana.LamportsToSOL(lamports))
			return nil
		},
	}
}
