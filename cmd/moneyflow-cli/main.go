// Command moneyflow-cli manages the ledger from the terminal against the
// same backend as the server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/google/subcommands"

	"moneyflow/internal/backend"
	"moneyflow/internal/cli"
	"moneyflow/internal/ledger"
	"moneyflow/internal/log"
)

func main() {
	cli.LoadEnvFile()

	// stdout carries the reports, so logs go to stderr and stay quiet by default.
	level := slog.LevelWarn
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = log.ParseLevel(v)
	}
	logger := log.New(log.Config{Level: level, Component: log.ComponentCLI, Output: os.Stderr})
	log.SetDefault(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	raw := flag.Bool("raw", false, "Print plain markdown instead of styled terminal output.")

	app := &cli.App{
		Open: func(ctx context.Context) (*ledger.Book, backend.CleanupFunc, error) {
			return cli.OpenLedger(ctx, cfg, logger, cli.LedgerOptions{})
		},
		Out:    os.Stdout,
		Err:    os.Stderr,
		Now:    time.Now,
		Render: cli.GlamourRenderer(),
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range cli.Commands(app) {
		commander.Register(c, "ledger")
	}

	flag.Parse()
	if *raw {
		app.Render = nil
	}

	os.Exit(int(cli.Execute(commander, logger)))
}
