package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/brojonat/tradewind/client"
)

func tokenCommands() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Token trading commands",
		Subcommands: []*cli.Command{
			tokenBuyCommand(),
			tokenSellCommand(),
			tokenCreateCommand(),
			tokenTransferCommand(),
			tokenBurnCommand(),
			tokenQuoteCommand(),
		},
	}
}

func tokenBuyCommand() *cli.Command {
	return &cli.Command{
		Name:      "buy",
		Usage:     "Buy a token with one or more wallets",
		ArgsUsage: "MINT_ADDRESS",
		Flags: append(apiFlags(),
			&cli.StringSliceFlag{
				Name:    "wallet-key",
				Aliases: []string{"w"},
				Usage:   "Wallet secret key (first is the primary buyer; repeatable)",
				EnvVars: []string{"TRADEWIND_WALLET_KEYS"},
			},
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "SOL to spend per wallet (decimal string)",
				Required: true,
			},
			&cli.Float64Flag{
				Name:  "slippage",
				Usage: "Slippage tolerance percent",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  "protocol",
				Usage: "Trading protocol (pump, raydium, jupiter)",
				Value: client.ProtocolPump,
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("mint address is required")
			}
			cl, err := newSDKClient(c)
			if err != nil {
				return err
			}

			out, err := cl.Buy(context.Background(), client.BuyParams{
				Wallets:         walletsFromKeys(c.StringSlice("wallet-key")),
				Mint:            c.Args().Get(0),
				AmountSOL:       c.String("amount"),
				SlippagePercent: c.Float64("slippage"),
				Protocol:        c.String("protocol"),
			})
			if err != nil {
				return fmt.Errorf("buy failed: %w", err)
			}
			return printResult(c, out)
		},
	}
}

func tokenSellCommand() *cli.Command {
	return &cli.Command{
		Name:      "sell",
		Usage:     "Sell a percentage of token holdings",
		ArgsUsage: "MINT_ADDRESS",
		Flags: append(apiFlags(),
			&cli.StringSliceFlag{
				Name:    "wallet-key",
				Aliases: []string{"w"},
				Usage:   "Wallet secret key (repeatable)",
				EnvVars: []string{"TRADEWIND_WALLET_KEYS"},
			},
			&cli.Float64Flag{
				Name:     "percent",
				Usage:    "Percentage of holdings to sell (1-100)",
				Required: true,
			},
			&cli.Float64Flag{
				Name:  "slippage",
				Usage: "Slippage tolerance percent",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  "protocol",
				Usage: "Trading protocol (pump, raydium, jupiter)",
				Value: client.ProtocolPump,
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("mint address is required")
			}
			cl, err := newSDKClient(c)
			if err != nil {
				return err
			}

			out, err := cl.Sell(context.Background(), client.SellParams{
				Wallets:         walletsFromKeys(c.StringSlice("wallet-key")),
				Mint:            c.Args().Get(0),
				SellPercent:     c.Float64("percent"),
				SlippagePercent: c.Float64("slippage"),
				Protocol:        c.String("protocol"),
			})
			if err != nil {
				return fmt.Errorf("sell failed: %w", err)
			}
			return printResult(c, out)
		},
	}
}

func tokenCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Launch a token, optionally with bundled first buys",
		Flags: append(apiFlags(),
			&cli.StringFlag{
				Name:     "creator-key",
				Usage:    "Creator wallet secret key",
				EnvVars:  []string{"TRADEWIND_CREATOR_KEY"},
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "buyer-key",
				Usage: "Buyer wallet secret key for bundled first buys (repeatable)",
			},
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Token name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "symbol",
				Usage:    "Token symbol (1-10 characters)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Token description",
			},
			&cli.StringFlag{
				Name:  "image-url",
				Usage: "Token image URL",
			},
			&cli.StringFlag{
				Name:  "initial-buy",
				Usage: "SOL amount of the creator's initial buy",
			},
			&cli.StringFlag{
				Name:  "protocol",
				Usage: "Launch protocol",
				Value: client.ProtocolPump,
			},
		),
		Action: func(c *cli.Context) error {
			cl, err := newSDKClient(c)
			if err != nil {
				return err
			}

			out, err := cl.CreateToken(context.Background(), client.CreateParams{
				Wallet:        client.Wallet{SecretKey: c.String("creator-key")},
				BuyerWallets:  walletsFromKeys(c.StringSlice("buyer-key")),
				Name:          c.String("name"),
				Symbol:        c.String("symbol"),
				Description:   c.String("description"),
				ImageURL:      c.String("image-url"),
				InitialBuySOL: c.String("initial-buy"),
				Protocol:      c.String("protocol"),
			})
			if err != nil {
				return fmt.Errorf("create failed: %w", err)
			}
			return printResult(c, out)
		},
	}
}

func tokenTransferCommand() *cli.Command {
	return &cli.Command{
		Name:      "transfer",
		Usage:     "Transfer tokens to a recipient address",
		ArgsUsage: "MINT_ADDRESS",
		Flags: append(apiFlags(),
			&cli.StringFlag{
				Name:     "wallet-key",
				Aliases:  []string{"w"},
				Usage:    "Sending wallet secret key",
				EnvVars:  []string{"TRADEWIND_WALLET_KEY"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "recipient",
				Usage:    "Recipient wallet address",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "Token amount to transfer",
				Required: true,
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("mint address is required")
			}
			cl, err := newSDKClient(c)
			if err != nil {
				return err
			}

			out, err := cl.Transfer(context.Background(), client.TransferParams{
				Wallet:    client.Wallet{SecretKey: c.String("wallet-key")},
				Recipient: c.String("recipient"),
				Mint:      c.Args().Get(0),
				Amount:    c.String("amount"),
			})
			if err != nil {
				return fmt.Errorf("transfer failed: %w", err)
			}
			return printResult(c, out)
		},
	}
}

func tokenBurnCommand() *cli.Command {
	return &cli.Command{
		Name:      "burn",
		Usage:     "Burn tokens held by a wallet",
		ArgsUsage: "MINT_ADDRESS",
		Flags: append(apiFlags(),
			&cli.StringFlag{
				Name:     "wallet-key",
				Aliases:  []string{"w"},
				Usage:    "Wallet secret key",
				EnvVars:  []string{"TRADEWIND_WALLET_KEY"},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "Token amount to burn",
				Required: true,
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("mint address is required")
			}
			cl, err := newSDKClient(c)
			if err != nil {
				return err
			}

			out, err := cl.Burn(context.Background(), client.BurnParams{
				Wallet: client.Wallet{SecretKey: c.String("wallet-key")},
				Mint:   c.Args().Get(0),
				Amount: c.String("amount"),
			})
			if err != nil {
				return fmt.Errorf("burn failed: %w", err)
			}
			return printResult(c, out)
		},
	}
}

func tokenQuoteCommand() *cli.Command {
	return &cli.Command{
		Name:      "quote",
		Usage:     "Fetch a route quote without producing transactions",
		ArgsUsage: "MINT_ADDRESS",
		Flags: append(apiFlags(),
			&cli.StringFlag{
				Name:     "side",
				Usage:    "Quote side (buy or sell)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "amount",
				Usage:    "Input amount",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "protocol",
				Usage: "Trading protocol",
				Value: client.ProtocolJupiter,
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("mint address is required")
			}
			cl, err := newSDKClient(c)
			if err != nil {
				return err
			}

			quote, err := cl.GetQuote(context.Background(), client.QuoteParams{
				Mint:     c.Args().Get(0),
				Side:     c.String("side"),
				Amount:   c.String("amount"),
				Protocol: c.String("protocol"),
			})
			if err != nil {
				return fmt.Errorf("quote failed: %w", err)
			}
			return printResult(c, quote)
		},
	}
}
