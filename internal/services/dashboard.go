package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"saba/internal/core"
	"saba/internal/inventory"
	"saba/internal/report"
	"saba/internal/store"
)

// Dashboard loads the independent tables concurrently and summarises them
// for year/month.
func (l *Ledger) Dashboard(ctx context.Context, year, month int) (core.Dashboard, error) {
	var (
		sales     []core.Sale
		purchases []core.Purchase
		movements []core.TreasuryMovement
		stock     map[string]core.StockItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = store.Load(gctx, l.backend, store.Sales)
		return err
	})
	g.Go(func() (err error) {
		purchases, err = store.Load(gctx, l.backend, store.Purchases)
		return err
	})
	g.Go(func() (err error) {
		movements, err = store.Load(gctx, l.backend, store.Treasury)
		return err
	})
	g.Go(func() (err error) {
		stock, err = store.Load(gctx, l.backend, store.Stock)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Dashboard{}, err
	}

	return core.Dashboard{
		Year:      year,
		Month:     month,
		Sales:     report.SalesStats(sales, year, month),
		Purchases: report.PurchaseStats(purchases),
		Treasury:  report.Treasury(movements),
		LowStock:  inventory.LowStockItems(stock),
	}, nil
}

// SalesStats summarises sales for the views.
func (l *Ledger) SalesStats(ctx context.Context, year, month int) (core.SalesStats, error) {
	sales, err := l.Sales(ctx)
	if err != nil {
		return core.SalesStats{}, err
	}
	return report.SalesStats(sales, year, month), nil
}

func (l *Ledger) PurchaseStats(ctx context.Context) (core.PurchaseStats, error) {
	purchases, err := l.Purchases(ctx)
	if err != nil {
		return core.PurchaseStats{}, err
	}
	return report.PurchaseStats(purchases), nil
}
