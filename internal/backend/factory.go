package backend

import (
	"context"
	"errors"
	"fmt"

	"saba/internal/amqp"
	"saba/internal/catalog"
	"saba/internal/log"
	"saba/internal/metrics"
	"saba/internal/services"
	"saba/internal/store"
	"saba/internal/store/file"
	"saba/internal/store/memory"
	"saba/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger  *log.Logger
	metrics *metrics.Metrics
}

// NewFactory creates a new backend factory. m may be nil.
func NewFactory(logger *log.Logger, m *metrics.Metrics) Factory {
	if logger == nil {
		logger = log.Nop()
	}
	return &DefaultFactory{
		logger:  logger.WithComponent(log.ComponentBackend),
		metrics: m,
	}
}

// CreateBackend opens the record store, loads the catalog and connects the
// optional event publisher. A publisher that cannot connect is logged and
// skipped; the ledger still works without it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cat, err := catalog.Load(config.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	records, ready, err := f.openStore(config)
	if err != nil {
		return nil, err
	}
	records = metrics.InstrumentBackend(records, f.metrics)

	var publisher services.EventPublisher
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, config.AMQPPrefetch, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", log.FieldError, err)
			amqpClient = nil
		} else {
			publisher = amqpClient
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	ledger := services.NewLedger(records, cat, publisher, f.logger)
	f.logger.InfoContext(ctx, "Initialized record store",
		"type", config.Type.String(),
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Ledger: ledger,
		Ready:  ready,
		Cleanup: func() error {
			var errs []error
			if amqpClient != nil {
				errs = append(errs, amqpClient.Close())
			}
			errs = append(errs, ledger.Close())
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) openStore(config Config) (store.Backend, func(context.Context) error, error) {
	alwaysReady := func(context.Context) error { return nil }
	switch config.Type {
	case FileBackend:
		b, err := file.New(config.Paths, config.LockTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return b, alwaysReady, nil
	case SQLiteBackend:
		b, err := sqlite.Open(config.SQLiteDBPath, config.LockTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return b, b.Ping, nil
	case MemoryBackend:
		return memory.New(), alwaysReady, nil
	}
	return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
}
