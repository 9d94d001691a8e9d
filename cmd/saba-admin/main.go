package main

import (
	"context"
	"fmt"
	"os"

	"saba/internal/cli"
	"saba/internal/config"
	"saba/internal/log"
	gsheet "saba/internal/sheets/google"
	"saba/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, err := cli.LoadConfig((*config.Config).Validate)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if os.Getenv("LOG_FORMAT") == "" {
		cfg.LogFormat = "pretty"
	}
	logger, err := cli.NewLogger(cfg, log.ComponentCLI, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Admin commands edit the ledger directly; the worker is not notified.
	storeCfg := *cfg
	storeCfg.AMQPURL = ""
	ctx := context.Background()
	res := cli.MustOpenBackend(ctx, &storeCfg, logger, nil)

	env := Env{Out: os.Stdout, Rates: cfg.PayrollRates()}
	if cfg.GoogleSpreadsheetID != "" {
		env.Push = func(ctx context.Context) error {
			client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, gsheet.Credentials{
				JSON: cfg.GoogleServiceAccountJSON,
				File: cfg.GoogleServiceAccountFile,
			}, logger)
			if err != nil {
				return err
			}
			return worker.NewMirrorWorker(res.Ledger, client, logger).StartupSync(ctx)
		}
	}

	runErr := BuildCLI(res.Ledger, env).Run(ctx, os.Args)
	if err := res.Cleanup(); err != nil {
		logger.Error("Record store cleanup error", log.FieldError, err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
