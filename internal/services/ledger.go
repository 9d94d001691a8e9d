// Package services implements the ledger operations behind every view. Each
// write is one locked read-modify-write cycle on a single record kind;
// input is validated before anything is persisted.
package services

import (
	"context"

	"github.com/google/uuid"

	"saba/internal/catalog"
	"saba/internal/core"
	"saba/internal/log"
	"saba/internal/store"
)

// EventPublisher announces ledger changes. It is optional.
type EventPublisher interface {
	PublishRecordSaved(ctx context.Context, kind, operation, recordID string, rows int) error
	PublishStockLow(ctx context.Context, items []string) error
}

// Ledger is the entry point for every ledger operation.
type Ledger struct {
	backend   store.Backend
	catalog   *catalog.Catalog
	publisher EventPublisher
	logger    *log.Logger

	newID func() string
	today func() core.Date
}

// NewLedger wires a ledger. cat, publisher and logger may be nil.
func NewLedger(backend store.Backend, cat *catalog.Catalog, publisher EventPublisher, logger *log.Logger) *Ledger {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Ledger{
		backend:   backend,
		catalog:   cat,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
		newID:     uuid.NewString,
		today:     core.Today,
	}
}

// Catalog returns the reference lists used for validation.
func (l *Ledger) Catalog() *catalog.Catalog {
	return l.catalog
}

// Close releases the backend.
func (l *Ledger) Close() error {
	if l.backend == nil {
		return nil
	}
	return l.backend.Close()
}

// saved logs a completed write and publishes record.saved. Publishing
// failures are logged only; the write already happened.
func (l *Ledger) saved(ctx context.Context, op string, kind store.Kind, id string, rows int) {
	l.logger.InfoContext(ctx, "Record saved",
		log.FieldOperation, op,
		log.FieldKind, string(kind),
		log.FieldRecordID, id,
		log.FieldRows, rows)
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishRecordSaved(ctx, string(kind), op, id, rows); err != nil {
		l.logger.WarnContext(ctx, "Failed to publish record.saved",
			log.FieldKind, string(kind),
			log.FieldError, err)
	}
}

func (l *Ledger) failed(ctx context.Context, op string, kind store.Kind, err error) error {
	l.logger.WarnContext(ctx, "Write rejected",
		log.FieldOperation, op,
		log.FieldKind, string(kind),
		log.FieldError, err)
	return err
}

func (l *Ledger) stockLow(ctx context.Context, items []string) {
	if len(items) == 0 {
		return
	}
	l.logger.WarnContext(ctx, "Stock at or below alert threshold", log.FieldItems, items)
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishStockLow(ctx, items); err != nil {
		l.logger.WarnContext(ctx, "Failed to publish stock.low", log.FieldError, err)
	}
}

func indexByID[T any](rows []T, id string, key func(T) string) int {
	for i, r := range rows {
		if key(r) == id {
			return i
		}
	}
	return -1
}
