package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"saba/internal/amqp"
	"saba/internal/core"
	"saba/internal/export"
	"saba/internal/services"
	"saba/internal/sheets/memory"
	"saba/internal/store"
	storemem "saba/internal/store/memory"
)

func newLedger(t *testing.T) *services.Ledger {
	t.Helper()
	l := services.NewLedger(storemem.New(), nil, nil, nil)
	_, err := l.RecordSale(context.Background(), services.SaleInput{
		Date:        core.NewDate(2025, 3, 1),
		Product:     "Cookie pistache",
		Quantity:    2,
		PaymentMode: "Espèces",
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	return l
}

func TestHandleEvent_RecordSaved(t *testing.T) {
	sheet := memory.New()
	w := NewMirrorWorker(newLedger(t), sheet, nil)

	if err := w.HandleEvent(context.Background(), amqp.NewRecordSaved("sales", "create", "x", 1)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	got, ok := sheet.Table("Ventes")
	if !ok || len(got.Rows) != 1 {
		t.Fatalf("mirrored table = %+v, %v", got, ok)
	}
	if got.Rows[0][4] != "7.00" {
		t.Errorf("total cell = %q", got.Rows[0][4])
	}
}

func TestHandleEvent_StockLow(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	if _, err := l.SetStockItem(ctx, core.StockItem{Name: "Lait", Quantity: decimal.Zero, AlertThreshold: decimal.NewFromInt(1)}); err != nil {
		t.Fatal(err)
	}
	sheet := memory.New()
	w := NewMirrorWorker(l, sheet, nil)
	if err := w.HandleEvent(ctx, amqp.NewStockLow([]string{"Lait"})); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if _, ok := sheet.Table("Stock"); !ok {
		t.Error("stock table not mirrored")
	}
}

func TestHandleEvent_UnknownKindIsDropped(t *testing.T) {
	sheet := memory.New()
	w := NewMirrorWorker(newLedger(t), sheet, nil)
	if err := w.HandleEvent(context.Background(), amqp.NewRecordSaved("invoices", "create", "", 0)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if sheet.Pushes() != 0 {
		t.Errorf("pushes = %d, want 0", sheet.Pushes())
	}
	if err := w.HandleEvent(context.Background(), &amqp.Event{Type: "bogus"}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

type failingWriter struct{}

func (failingWriter) PushTable(context.Context, export.Table) error {
	return errors.New("quota exceeded")
}

func TestStartupSync(t *testing.T) {
	sheet := memory.New()
	w := NewMirrorWorker(newLedger(t), sheet, nil)
	if err := w.StartupSync(context.Background()); err != nil {
		t.Fatalf("StartupSync: %v", err)
	}
	if sheet.Pushes() != len(store.Kinds) {
		t.Errorf("pushes = %d, want %d", sheet.Pushes(), len(store.Kinds))
	}

	w = NewMirrorWorker(newLedger(t), failingWriter{}, nil)
	if err := w.StartupSync(context.Background()); err == nil {
		t.Error("expected error")
	}
}
