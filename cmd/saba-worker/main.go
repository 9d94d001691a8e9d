package main

import (
	"context"
	"errors"
	"os"
	"time"

	"saba/internal/amqp"
	"saba/internal/cli"
	"saba/internal/config"
	"saba/internal/log"
	gsheet "saba/internal/sheets/google"
	"saba/internal/worker"
)

func main() {
	cfg, logger := cli.MustSetup(log.ComponentWorker, (*config.Config).ValidateWorker)
	logger.Info("Starting saba-worker")

	// The worker only reads the ledger; it never publishes events itself.
	storeCfg := *cfg
	storeCfg.AMQPURL = ""
	res := cli.MustOpenBackend(context.Background(), &storeCfg, logger, nil)

	sheetsClient, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, gsheet.Credentials{
		JSON: cfg.GoogleServiceAccountJSON,
		File: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPPrefetch, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	mirror := worker.NewMirrorWorker(res.Ledger, sheetsClient, logger)

	ctx, stop, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		logger.Info("Shutting down worker...")
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close error", log.FieldError, err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Record store cleanup error", log.FieldError, err)
		}
	})

	// Changes made while the worker was down are covered by one full push.
	logger.Info("Performing startup sync...")
	if err := mirror.StartupSync(ctx); err != nil {
		logger.Error("Startup sync incomplete", log.FieldError, err)
	}

	go func() {
		if err := amqpClient.Consume(ctx, mirror.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
			stop()
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
