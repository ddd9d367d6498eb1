package main

import (
	"context"
	"errors"
	"os"

	"moneyflow/internal/amqp"
	"moneyflow/internal/cli"
	"moneyflow/internal/log"
	gsheet "moneyflow/internal/sheets/google"
	"moneyflow/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration invalid", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	mirror, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	syncWorker := worker.NewSyncWorker(mirror, logger)

	logger.Info("Starting moneyflow-worker",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName,
		"queue", cfg.AMQPQueue)

	if err := client.ConsumeWithRetry(ctx, syncWorker.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
