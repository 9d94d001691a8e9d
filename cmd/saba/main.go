package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"saba/internal/cli"
	"saba/internal/config"
	apphttp "saba/internal/http"
	"saba/internal/log"
	"saba/internal/metrics"
	"saba/internal/middleware/ratelimit"
	"saba/internal/scheduler"
)

func main() {
	cfg, logger := cli.MustSetup(log.ComponentApp, (*config.Config).Validate)
	m := metrics.New()

	res := cli.MustOpenBackend(context.Background(), cfg, logger, m)

	var sched *scheduler.Scheduler
	if cfg.LowStockCron != "" {
		sched = scheduler.New(res.Ledger, m, logger)
		if err := sched.Start(cfg.LowStockCron); err != nil {
			logger.Error("Failed to start scheduler", log.FieldError, err)
			os.Exit(1)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, res, apphttp.Options{
		PayrollRates: cfg.PayrollRates(),
		RateLimit:    ratelimit.DefaultConfig(),
		Metrics:      m,
		Logger:       logger,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if sched != nil {
			sched.Stop()
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Record store cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting saba server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"low_stock_cron", cfg.LowStockCron)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		stop()
		<-done
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
