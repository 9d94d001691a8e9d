// Package cli provides common process initialization utilities shared by
// cmd/saba, cmd/saba-worker and cmd/saba-admin.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"saba/internal/backend"
	"saba/internal/config"
	"saba/internal/log"
	"saba/internal/metrics"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// makes it the slog default.
func NewLogger(cfg *config.Config, component string, w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: component,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads the environment and runs validate on the result.
func LoadConfig(validate func(*config.Config) error) (*config.Config, error) {
	cfg := config.Load()
	if validate != nil {
		if err := validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// MustSetup loads .env, the configuration and the logger, exiting the
// process when any of them is invalid.
func MustSetup(component string, validate func(*config.Config) error) (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg, err := LoadConfig(validate)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := NewLogger(cfg, component, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenBackend opens the record store described by cfg.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *log.Logger, m *metrics.Metrics) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger, m).CreateBackend(ctx, bcfg)
}

// MustOpenBackend is OpenBackend that exits the process on failure.
func MustOpenBackend(ctx context.Context, cfg *config.Config, logger *log.Logger, m *metrics.Metrics) *backend.BackendResult {
	res, err := OpenBackend(ctx, cfg, logger, m)
	if err != nil {
		logger.Error("Failed to initialize record store", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return res
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// The returned context is cancelled on SIGINT/SIGTERM or by calling stop;
// either way cleanup runs once with a bounded context and done is closed
// afterwards.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (ctx context.Context, stop context.CancelFunc, done <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(finished)
	}()

	return ctx, cancel, finished
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
