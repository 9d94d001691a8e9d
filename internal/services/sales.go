package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"saba/internal/catalog"
	"saba/internal/core"
	"saba/internal/log"
	"saba/internal/store"
)

// SaleInput is a submitted sale. A zero UnitPrice takes the dish price.
type SaleInput struct {
	Date        core.Date
	Product     string
	Quantity    int
	UnitPrice   decimal.Decimal
	PaymentMode string
}

func (l *Ledger) Sales(ctx context.Context) ([]core.Sale, error) {
	return store.Load(ctx, l.backend, store.Sales)
}

// RecordSale appends a sale with its derived total.
func (l *Ledger) RecordSale(ctx context.Context, in SaleInput) (core.Sale, error) {
	if in.Date.IsZero() {
		in.Date = l.today()
	}
	if in.UnitPrice.IsZero() {
		dishes, err := l.Dishes(ctx)
		if err != nil {
			return core.Sale{}, err
		}
		if price, ok := catalog.DishPrice(dishes, strings.TrimSpace(in.Product)); ok {
			in.UnitPrice = price
		}
	}

	sale := core.NewSale(in.Date, in.Product, in.Quantity, in.UnitPrice, in.PaymentMode)
	if err := sale.Validate(); err != nil {
		return core.Sale{}, l.failed(ctx, log.OpCreate, store.KindSales, err)
	}
	if err := catalog.Check("payment_mode", sale.PaymentMode, l.catalog.SalePaymentModes); err != nil {
		return core.Sale{}, l.failed(ctx, log.OpCreate, store.KindSales, err)
	}
	sale.ID = l.newID()

	rows, err := store.Update(ctx, l.backend, store.Sales, func(rows *[]core.Sale) error {
		*rows = append(*rows, sale)
		return nil
	})
	if err != nil {
		return core.Sale{}, err
	}
	l.saved(ctx, log.OpCreate, store.KindSales, sale.ID, len(rows))
	return sale, nil
}

// Dishes returns the stored dish list, or the catalog defaults when none
// has been saved yet.
func (l *Ledger) Dishes(ctx context.Context) (map[string]core.Dish, error) {
	dishes, err := store.Load(ctx, l.backend, store.Dishes)
	if err != nil {
		return nil, err
	}
	if len(dishes) == 0 {
		return l.catalog.Dishes(), nil
	}
	return dishes, nil
}

// SaveDish adds or replaces a dish. The first save starts from the catalog
// defaults so they are kept.
func (l *Ledger) SaveDish(ctx context.Context, d core.Dish) (core.Dish, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := d.Validate(); err != nil {
		return core.Dish{}, l.failed(ctx, log.OpUpdate, store.KindDishes, err)
	}
	dishes, err := store.Update(ctx, l.backend, store.Dishes, func(m *map[string]core.Dish) error {
		if len(*m) == 0 {
			*m = l.catalog.Dishes()
		}
		(*m)[d.Name] = d
		return nil
	})
	if err != nil {
		return core.Dish{}, err
	}
	l.saved(ctx, log.OpUpdate, store.KindDishes, d.Name, len(dishes))
	return d, nil
}
