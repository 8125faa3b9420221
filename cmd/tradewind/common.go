package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/itchyny/gojq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/brojonat/tradewind/client"
	"github.com/brojonat/tradewind/config"
	"github.com/brojonat/tradewind/events"
	"github.com/brojonat/tradewind/journal"
)

// apiFlags are the connection flags shared by every operation command.
// Unset flags fall back to the TRADEWIND_* environment configuration.
func apiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-url",
			Aliases: []string{"a"},
			Usage:   "Trading API base URL (overrides TRADEWIND_API_URL)",
		},
		&cli.StringFlag{
			Name:  "submit-url",
			Usage: "Broadcast endpoint URL (defaults to API_URL/transactions/submit)",
		},
		&cli.StringFlag{
			Name:  "rpc-url",
			Usage: "Solana RPC URL for pre-flight balance checks",
		},
		&cli.IntFlag{
			Name:  "rate-limit",
			Usage: "Bundle submissions allowed per second",
			Value: 2,
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug logging to stderr",
		},
		&cli.BoolFlag{
			Name:    "json",
			Aliases: []string{"j"},
			Usage:   "Output as JSON",
		},
		&cli.StringFlag{
			Name:  "jq",
			Usage: "jq expression applied to the JSON output",
		},
	}
}

// resolveConfig merges command-line flags over the environment configuration.
// When --api-url is given the environment is optional; otherwise the env
// config must validate.
func resolveConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		if c.String("api-url") == "" {
			return nil, err
		}
		cfg = &config.Config{
			NATSURL:     os.Getenv("NATS_URL"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		}
	}

	if v := c.String("api-url"); v != "" {
		cfg.APIURL = v
	}
	if v := c.String("submit-url"); v != "" {
		cfg.SubmitURL = v
	}
	if v := c.String("rpc-url"); v != "" {
		cfg.RPCURL = v
	}
	if c.IsSet("rate-limit") || cfg.RateLimit == 0 {
		cfg.RateLimit = c.Int("rate-limit")
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	return cfg, nil
}

// newSDKClient builds an SDK client from flags and environment. When
// DATABASE_URL or NATS_URL is configured, the bundle journal and the
// operation event publisher are wired in as well.
func newSDKClient(c *cli.Context) (*client.Client, error) {
	cfg, err := resolveConfig(c)
	if err != nil {
		return nil, err
	}

	level := slog.LevelError
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	opts := []client.Option{client.WithLogger(logger)}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to journal database: %w", err)
		}
		store := journal.NewStore(pool)
		if err := store.Migrate(context.Background()); err != nil {
			return nil, err
		}
		opts = append(opts, client.WithJournal(store))
	}

	if cfg.NATSURL != "" {
		pub, err := events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithPublisher(pub))
	}

	return client.NewClient(client.Config{
		APIURL:    cfg.APIURL,
		SubmitURL: cfg.SubmitURL,
		RPCURL:    cfg.RPCURL,
		RateLimit: cfg.RateLimit,
		Debug:     cfg.Debug,
	}, opts...), nil
}

// printResult renders any result value. With --json (or --jq) the value is
// printed as indented JSON, optionally transformed by the jq expression.
func printResult(c *cli.Context, v any) error {
	if filter := c.String("jq"); filter != "" {
		return printFiltered(v, filter)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printFiltered(v any, filter string) error {
	query, err := gojq.Parse(filter)
	if err != nil {
		return fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
	}

	// Round-trip through JSON so gojq sees plain maps and slices.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode output: %w", err)
	}

	iter := code.Run(doc)
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if jqErr, isErr := out.(error); isErr {
			return fmt.Errorf("jq filter error: %w", jqErr)
		}
		line, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to marshal jq result: %w", err)
		}
		fmt.Println(string(line))
	}
	return nil
}

// walletsFromKeys builds operation wallets from plain secret key strings.
func walletsFromKeys(keys []string) []client.Wallet {
	wallets := make([]client.Wallet, len(keys))
	for i, k := range keys {
		wallets[i] = client.Wallet{SecretKey: k}
	}
	return wallets
}

// recipientEntry is one row of a --recipients-file JSON array.
type recipientEntry struct {
	SecretKey string `json:"secret_key"`
	Amount    string `json:"amount"`
}

// loadRecipients reads recipient wallets from a JSON file of
// {"secret_key": ..., "amount": ...} objects.
func loadRecipients(path string) ([]client.Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipients file: %w", err)
	}
	var entries []recipientEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse recipients file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("recipients file %s is empty", path)
	}
	wallets := make([]client.Wallet, len(entries))
	for i, e := range entries {
		wallets[i] = client.Wallet{SecretKey: e.SecretKey, Amount: e.Amount}
	}
	return wallets, nil
}
