package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/brojonat/tradewind/journal"
)

func journalCommands() *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Bundle submission journal commands",
		Subcommands: []*cli.Command{
			journalMigrateCommand(),
			journalUnresolvedCommand(),
		},
	}
}

func journalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "Postgres connection URL",
			EnvVars: []string{"DATABASE_URL"},
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

func openJournal(c *cli.Context) (*journal.Store, *pgxpool.Pool, error) {
	dbURL := c.String("database-url")
	if dbURL == "" {
		return nil, nil, fmt.Errorf("--database-url (or DATABASE_URL) is required")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return journal.NewStore(pool), pool, nil
}

func journalMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the journal schema",
		Flags: journalFlags(),
		Action: func(c *cli.Context) error {
			store, pool, err := openJournal(c)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.Migrate(context.Background()); err != nil {
				return err
			}
			fmt.Println("journal schema is up to date")
			return nil
		},
	}
}

func journalUnresolvedCommand() *cli.Command {
	return &cli.Command{
		Name:    "unresolved",
		Aliases: []string{"pending"},
		Usage:   "List bundles whose broadcast outcome was never observed",
		Flags:   journalFlags(),
		Action: func(c *cli.Context) error {
			store, pool, err := openJournal(c)
			if err != nil {
				return err
			}
			defer pool.Close()

			entries, err := store.ListUnresolved(context.Background())
			if err != nil {
				return err
			}

			if c.Bool("json") || c.String("jq") != "" {
				return printResult(c, entries)
			}
			if len(entries) == 0 {
				fmt.Println("No unresolved bundles")
				return nil
			}
			for _, e := range entries {
				fmt.Println(e.Summary())
			}
			return nil
		},
	}
}
