// Package cli provides common initialization for the moneyflow binaries.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"moneyflow/internal/backend"
	"moneyflow/internal/config"
	"moneyflow/internal/ledger"
	"moneyflow/internal/log"
	"moneyflow/internal/metrics"
)

// SetupLogger builds the process logger for the given LOG_LEVEL value and
// installs it as the slog default.
func SetupLogger(level string) *log.Logger {
	lvl := log.ParseLevel(level)
	logger := log.New(log.Config{
		Level:     lvl,
		Component: log.ComponentCLI,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// LedgerOptions tune OpenLedger.
type LedgerOptions struct {
	// DisableEvents skips the AMQP publisher even when AMQP_URL is set.
	DisableEvents bool
	Metrics       *metrics.Metrics
}

// OpenLedger creates the configured backend, opens the book on it and seeds
// the default wallets when enabled. The returned cleanup closes the backend.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger, opts LedgerOptions) (*ledger.Book, backend.CleanupFunc, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	if opts.DisableEvents {
		bcfg.AMQPURL = ""
	}

	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	bookOpts := []ledger.Option{ledger.WithLogger(logger), ledger.WithMetrics(opts.Metrics)}
	if res.Publisher != nil {
		bookOpts = append(bookOpts, ledger.WithPublisher(res.Publisher))
	}

	book, err := ledger.Open(ctx, res.Store, bookOpts...)
	if err != nil {
		_ = res.Cleanup()
		return nil, nil, err
	}

	if cfg.SeedDefaultWallets {
		seeded, err := book.SeedDefaultWallets(ctx)
		if err != nil {
			_ = res.Cleanup()
			return nil, nil, fmt.Errorf("seed default wallets: %w", err)
		}
		if seeded {
			logger.InfoContext(ctx, "Created default wallets")
		}
	}

	return book, res.Cleanup, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
	}()
	return ctx, stop
}

// Execute runs commander under SignalContext and releases the signal
// handler before handing back the exit status, so callers can os.Exit.
func Execute(commander *subcommands.Commander, logger *log.Logger) subcommands.ExitStatus {
	ctx, stop := SignalContext(logger)
	defer stop()
	return commander.Execute(ctx)
}
