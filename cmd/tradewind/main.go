package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:  "tradewind",
		Usage: "Solana trading automation CLI",
		Description: `A command-line tool for driving the trading API.

Operations fetch partially signed transactions from the remote API, complete
their signatures with locally supplied keys, and broadcast the results in
rate-limited bundles.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			tokenCommands(),
			walletCommands(),
			journalCommands(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
