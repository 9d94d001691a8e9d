package services

import (
	"context"

	"saba/internal/core"
	"saba/internal/export"
	"saba/internal/store"
)

// Table loads kind and renders it for export. Table rows are in stored
// order.
func (l *Ledger) Table(ctx context.Context, kind store.Kind) (export.Table, error) {
	switch kind {
	case store.KindSales:
		rows, err := l.Sales(ctx)
		return export.Sales(rows), err
	case store.KindPurchases:
		rows, err := l.Purchases(ctx)
		return export.Purchases(rows), err
	case store.KindTreasury:
		rows, err := store.Load(ctx, l.backend, store.Treasury)
		return export.Treasury(rows), err
	case store.KindStock:
		stock, err := l.Stock(ctx)
		return export.Stock(stock), err
	case store.KindRecipes:
		recipes, err := l.Recipes(ctx)
		return export.Recipes(recipes), err
	case store.KindEmployees:
		employees, err := l.Employees(ctx)
		return export.Employees(employees), err
	case store.KindSchedule:
		week, err := l.Schedule(ctx)
		return export.Schedule(week), err
	case store.KindBankBalances:
		b, err := l.BankBalances(ctx)
		return export.BankBalances(b), err
	case store.KindDishes:
		dishes, err := l.Dishes(ctx)
		return export.Dishes(dishes), err
	}
	return export.Table{}, &core.NotFoundError{Kind: "table", Key: string(kind)}
}
