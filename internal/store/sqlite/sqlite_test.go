package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"saba/internal/core"
	"saba/internal/store"
)

func openTemp(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(filepath.Join(t.TempDir(), "saba.db"), time.Second)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestReadMissingKind(t *testing.T) {
	b := openTemp(t)
	if _, err := b.Read(context.Background(), store.KindRecipes); !errors.Is(err, store.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestUpsertReplacesBody(t *testing.T) {
	b := openTemp(t)
	ctx := context.Background()
	for _, body := range []string{"first", "second"} {
		if err := b.Write(ctx, store.KindDishes, []byte(body)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	got, err := b.Read(ctx, store.KindDishes)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("got %q", got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saba.db")
	ctx := context.Background()

	b, err := Open(path, time.Second)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	stock := map[string]core.StockItem{"Farine": {Quantity: decimal.NewFromInt(4), AlertThreshold: decimal.NewFromInt(1)}}
	if err := store.Save(ctx, b, store.Stock, stock); err != nil {
		t.Fatalf("save: %v", err)
	}
	b.Close()

	b, err = Open(path, time.Second)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	got, err := store.Load(ctx, b, store.Stock)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got["Farine"].Quantity.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("unexpected stock: %+v", got)
	}
}

func newSale(id string) core.Sale {
	s := core.NewSale(core.NewDate(2025, 3, 14), "Café", 1, decimal.RequireFromString("1.5"), "Espèces")
	s.ID = id
	return s
}

func appendSale(ctx context.Context, b store.Backend, id string) error {
	_, err := store.Update(ctx, b, store.Sales, func(rows *[]core.Sale) error {
		*rows = append(*rows, newSale(id))
		return nil
	})
	return err
}

func TestLockExcludesOtherHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saba.db")
	ctx := context.Background()
	a, err := Open(path, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer a.Close()
	b, err := Open(path, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.Close()

	var nested error
	_, err = store.Update(ctx, a, store.Sales, func(rows *[]core.Sale) error {
		nested = appendSale(ctx, b, "from-b")
		*rows = append(*rows, newSale("from-a"))
		return nil
	})
	if err != nil {
		t.Fatalf("update a: %v", err)
	}
	if !errors.Is(nested, core.ErrPersistence) {
		t.Fatalf("update b while a holds the lock: err = %v, want persistence error", nested)
	}

	if err := appendSale(ctx, b, "from-b"); err != nil {
		t.Fatalf("update b after a: %v", err)
	}
	got, err := store.Load(ctx, a, store.Sales)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].ID != "from-a" || got[1].ID != "from-b" {
		t.Fatalf("rows = %+v", got)
	}
}

func TestConcurrentUpdatesFromTwoHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saba.db")
	ctx := context.Background()
	var handles []*Backend
	for i := 0; i < 2; i++ {
		h, err := Open(path, 30*time.Second)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer h.Close()
		handles = append(handles, h)
	}

	const perHandle = 20
	var wg sync.WaitGroup
	errs := make(chan error, 2*perHandle)
	for hi, h := range handles {
		for i := 0; i < perHandle; i++ {
			wg.Add(1)
			go func(h *Backend, id string) {
				defer wg.Done()
				errs <- appendSale(ctx, h, id)
			}(h, fmt.Sprintf("h%d-%d", hi, i))
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	got, err := store.Load(ctx, handles[0], store.Sales)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2*perHandle {
		t.Fatalf("persisted %d rows, want %d", len(got), 2*perHandle)
	}
}
