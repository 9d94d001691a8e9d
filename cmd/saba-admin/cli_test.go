package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"saba/internal/core"
	"saba/internal/payroll"
	"saba/internal/services"
	"saba/internal/store/memory"
)

func newTestLedger(t *testing.T) *services.Ledger {
	t.Helper()
	l := services.NewLedger(memory.New(), nil, nil, nil)
	t.Cleanup(func() { l.Close() })
	return l
}

func run(t *testing.T, l Ledger, env Env, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	env.Out = &out
	if env.Now == nil {
		env.Now = func() time.Time { return time.Date(2025, time.March, 31, 18, 0, 0, 0, time.UTC) }
	}
	err := BuildCLI(l, env).Run(context.Background(), append([]string{"saba-admin"}, args...))
	return out.String(), err
}

func TestPayrollCommand(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	if _, err := l.SaveEmployee(ctx, core.Employee{
		Name:          "Zoé",
		Contract:      "CDI",
		HoursMonth:    decimal.NewFromInt(100),
		OvertimeHours: decimal.NewFromInt(10),
		Bonus:         decimal.NewFromInt(50),
	}); err != nil {
		t.Fatalf("SaveEmployee: %v", err)
	}

	pdf := filepath.Join(t.TempDir(), "paie.pdf")
	out, err := run(t, l, Env{Rates: payroll.DefaultRates()},
		"payroll", "--hourly", "10", "--overtime", "18", "--pdf", pdf)
	if err != nil {
		t.Fatalf("payroll: %v", err)
	}
	if !strings.Contains(out, "Zoé") || !strings.Contains(out, "1230.00") {
		t.Errorf("output missing payslip:\n%s", out)
	}
	b, err := os.ReadFile(pdf)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Errorf("pdf file does not start with %%PDF")
	}

	if _, err := run(t, l, Env{}, "payroll", "--hourly", "dix"); !errors.Is(err, core.ErrValidation) {
		t.Errorf("bad rate err = %v, want validation error", err)
	}
}

func TestCookAndLowStock(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	if _, err := l.SetStockItem(ctx, core.StockItem{
		Name:           "Farine",
		Quantity:       decimal.NewFromInt(1),
		AlertThreshold: decimal.RequireFromString("0.5"),
	}); err != nil {
		t.Fatalf("SetStockItem: %v", err)
	}
	if _, err := l.SaveRecipe(ctx, core.Recipe{
		Name:        "Crêpes",
		Ingredients: map[string]decimal.Decimal{"farine": decimal.RequireFromString("0.2")},
	}); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}

	out, err := run(t, l, Env{}, "low-stock")
	if err != nil || !strings.Contains(out, "no ingredient below threshold") {
		t.Fatalf("low-stock before cook = %q, %v", out, err)
	}

	out, err = run(t, l, Env{}, "cook", "--portions", "3", "Crêpes")
	if err != nil {
		t.Fatalf("cook: %v", err)
	}
	if !strings.Contains(out, "Farine: 1 -> 0.4") || !strings.Contains(out, "low stock: Farine") {
		t.Errorf("cook output:\n%s", out)
	}

	out, err = run(t, l, Env{}, "low-stock")
	if err != nil || strings.TrimSpace(out) != "Farine" {
		t.Errorf("low-stock after cook = %q, %v", out, err)
	}

	if _, err := run(t, l, Env{}, "cook", "Tarte"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown recipe err = %v, want not found", err)
	}
	if _, err := run(t, l, Env{}, "cook"); !errors.Is(err, core.ErrValidation) {
		t.Errorf("missing recipe err = %v, want validation error", err)
	}
}

func TestExportCommand(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.SaveDish(context.Background(), core.Dish{Name: "Café", Price: decimal.RequireFromString("1.5")}); err != nil {
		t.Fatalf("SaveDish: %v", err)
	}

	out, err := run(t, l, Env{}, "export", "dishes")
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	if !strings.Contains(out, "Café,1.50") {
		t.Errorf("csv output:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "all.xlsx")
	if _, err := run(t, l, Env{}, "export", "--format", "xlsx", "--out", path, "all"); err != nil {
		t.Fatalf("export xlsx: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("xlsx file = %v, %v", fi, err)
	}

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown kind", []string{"export", "menus"}, core.ErrNotFound},
		{"all as csv", []string{"export", "all"}, core.ErrValidation},
		{"bad format", []string{"export", "--format", "ods", "sales"}, core.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, l, Env{}, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPushCommand(t *testing.T) {
	l := newTestLedger(t)
	if _, err := run(t, l, Env{}, "push"); !errors.Is(err, errNoSheets) {
		t.Errorf("push without sheets err = %v", err)
	}

	called := false
	push := func(context.Context) error { called = true; return nil }
	if _, err := run(t, l, Env{Push: push}, "push"); err != nil || !called {
		t.Errorf("push = %v, called=%v", err, called)
	}
}
