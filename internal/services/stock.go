package services

import (
	"context"
	"strings"

	"saba/internal/core"
	"saba/internal/inventory"
	"saba/internal/log"
	"saba/internal/store"
)

func (l *Ledger) Stock(ctx context.Context) (inventory.Stock, error) {
	return store.Load(ctx, l.backend, store.Stock)
}

// SetStockItem adds or replaces a stock item. An existing entry whose name
// has the same ingredient key is replaced rather than duplicated.
func (l *Ledger) SetStockItem(ctx context.Context, item core.StockItem) (core.StockItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Unit = strings.TrimSpace(item.Unit)
	if err := item.Validate(); err != nil {
		return core.StockItem{}, l.failed(ctx, log.OpUpdate, store.KindStock, err)
	}

	stock, err := store.Update(ctx, l.backend, store.Stock, func(m *map[string]core.StockItem) error {
		key := core.IngredientKey(item.Name)
		for name := range *m {
			if name != item.Name && core.IngredientKey(name) == key {
				delete(*m, name)
			}
		}
		(*m)[item.Name] = item
		return nil
	})
	if err != nil {
		return core.StockItem{}, err
	}
	l.saved(ctx, log.OpUpdate, store.KindStock, item.Name, len(stock))
	if item.IsLow() {
		l.stockLow(ctx, []string{item.Name})
	}
	return item, nil
}

// LowStock lists the items at or below their alert threshold.
func (l *Ledger) LowStock(ctx context.Context) ([]core.StockItem, error) {
	stock, err := l.Stock(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.LowStockItems(stock), nil
}

// CheckLowStock runs the low-stock alert over the whole stock and publishes
// stock.low when anything is flagged.
func (l *Ledger) CheckLowStock(ctx context.Context) ([]string, error) {
	stock, err := l.Stock(ctx)
	if err != nil {
		return nil, err
	}
	names := inventory.LowStock(stock)
	l.stockLow(ctx, names)
	return names, nil
}
