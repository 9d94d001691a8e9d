package worker

import (
	"context"
	"fmt"

	"saba/internal/amqp"
	"saba/internal/export"
	"saba/internal/log"
	"saba/internal/sheets"
	"saba/internal/store"
)

// TableSource renders the current content of a record kind.
type TableSource interface {
	Table(ctx context.Context, kind store.Kind) (export.Table, error)
}

// MirrorWorker copies changed tables to a spreadsheet. Events only name the
// kind that changed; the whole table is re-read and pushed, so replaying or
// reordering events is harmless.
type MirrorWorker struct {
	source TableSource
	sheets sheets.TableWriter
	logger *log.Logger
}

func NewMirrorWorker(source TableSource, writer sheets.TableWriter, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Nop()
	}
	return &MirrorWorker{
		source: source,
		sheets: writer,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent processes one message from the queue.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.Event) error {
	switch ev.Type {
	case amqp.EventRecordSaved:
		kind, ok := store.ParseKind(ev.Kind)
		if !ok {
			// Unknown kinds cannot succeed on retry.
			w.logger.WarnContext(ctx, "Ignoring event for unknown kind", log.FieldKind, ev.Kind)
			return nil
		}
		w.logger.InfoContext(ctx, "Processing record.saved",
			log.FieldKind, ev.Kind,
			log.FieldOperation, ev.Operation,
			log.FieldRecordID, ev.RecordID)
		return w.Mirror(ctx, kind)
	case amqp.EventStockLow:
		w.logger.WarnContext(ctx, "Low stock reported", log.FieldItems, ev.Items)
		return w.Mirror(ctx, store.KindStock)
	}
	return fmt.Errorf("unsupported event type %q", ev.Type)
}

// Mirror pushes the current content of kind.
func (w *MirrorWorker) Mirror(ctx context.Context, kind store.Kind) error {
	t, err := w.source.Table(ctx, kind)
	if err != nil {
		return fmt.Errorf("load %s: %w", kind, err)
	}
	if err := w.sheets.PushTable(ctx, t); err != nil {
		return fmt.Errorf("push %s: %w", kind, err)
	}
	w.logger.InfoContext(ctx, "Table mirrored",
		log.FieldKind, string(kind),
		log.FieldRows, len(t.Rows))
	return nil
}

// StartupSync pushes every table once, covering changes made while the
// worker was down. Failures are logged and counted; the first is returned.
func (w *MirrorWorker) StartupSync(ctx context.Context) error {
	var first error
	synced := 0
	for _, kind := range store.Kinds {
		if err := w.Mirror(ctx, kind); err != nil {
			w.logger.ErrorContext(ctx, "Startup mirror failed", log.FieldKind, string(kind), log.FieldError, err)
			if first == nil {
				first = err
			}
			continue
		}
		synced++
	}
	w.logger.InfoContext(ctx, "Startup sync completed",
		"total", len(store.Kinds),
		"synced", synced)
	return first
}
