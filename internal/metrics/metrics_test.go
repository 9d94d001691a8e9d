package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"saba/internal/store"
	"saba/internal/store/memory"
)

func TestInstrumentBackend(t *testing.T) {
	m := New()
	b := InstrumentBackend(memory.New(), m)
	ctx := context.Background()

	if _, err := b.Read(ctx, store.KindSales); !errors.Is(err, store.ErrNotExist) {
		t.Fatalf("Read: %v", err)
	}
	unlock, err := b.Lock(ctx, store.KindSales)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if err := b.Write(ctx, store.KindSales, []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	unlock()

	tests := []struct {
		op   string
		want float64
	}{
		{"read", 1},
		{"write", 1},
		{"lock", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.StoreOps.WithLabelValues("sales", tt.op, "ok"))
		if got != tt.want {
			t.Errorf("%s ok = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestInstrumentBackend_NilMetrics(t *testing.T) {
	b := memory.New()
	if got := InstrumentBackend(b, nil); got != store.Backend(b) {
		t.Error("expected the backend unchanged")
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/sales", 200, 15*time.Millisecond)
	m.LowStockItems.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`saba_http_requests_total{method="GET",route="/sales",status="200"} 1`,
		`saba_low_stock_items 3`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
