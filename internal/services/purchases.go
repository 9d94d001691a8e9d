package services

import (
	"context"

	"saba/internal/catalog"
	"saba/internal/core"
	"saba/internal/log"
	"saba/internal/store"
)

func purchaseID(p core.Purchase) string { return p.ID }

func (l *Ledger) Purchases(ctx context.Context) ([]core.Purchase, error) {
	return store.Load(ctx, l.backend, store.Purchases)
}

func (l *Ledger) validatePurchase(p core.Purchase) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := catalog.Check("payment_mode", p.PaymentMode, l.catalog.PurchasePaymentModes); err != nil {
		return err
	}
	return catalog.Check("category", p.Category, l.catalog.PurchaseCategories)
}

func normalizePurchase(p core.Purchase) core.Purchase {
	return core.NewPurchase(p.Date, p.Supplier, p.Product, p.Quantity, p.Unit, p.UnitPrice, p.PaymentMode, p.Category)
}

// RecordPurchase appends a purchase. The total is always recomputed.
func (l *Ledger) RecordPurchase(ctx context.Context, in core.Purchase) (core.Purchase, error) {
	if in.Date.IsZero() {
		in.Date = l.today()
	}
	p := normalizePurchase(in)
	if err := l.validatePurchase(p); err != nil {
		return core.Purchase{}, l.failed(ctx, log.OpCreate, store.KindPurchases, err)
	}
	p.ID = l.newID()

	rows, err := store.Update(ctx, l.backend, store.Purchases, func(rows *[]core.Purchase) error {
		*rows = append(*rows, p)
		return nil
	})
	if err != nil {
		return core.Purchase{}, err
	}
	l.saved(ctx, log.OpCreate, store.KindPurchases, p.ID, len(rows))
	return p, nil
}

// UpdatePurchase replaces the purchase identified by id in place. Every
// other row keeps its values and position.
func (l *Ledger) UpdatePurchase(ctx context.Context, id string, in core.Purchase) (core.Purchase, error) {
	p := normalizePurchase(in)
	if err := l.validatePurchase(p); err != nil {
		return core.Purchase{}, l.failed(ctx, log.OpUpdate, store.KindPurchases, err)
	}
	p.ID = id

	rows, err := store.Update(ctx, l.backend, store.Purchases, func(rows *[]core.Purchase) error {
		i := indexByID(*rows, id, purchaseID)
		if i < 0 {
			return &core.NotFoundError{Kind: "purchase", Key: id}
		}
		(*rows)[i] = p
		return nil
	})
	if err != nil {
		return core.Purchase{}, err
	}
	l.saved(ctx, log.OpUpdate, store.KindPurchases, id, len(rows))
	return p, nil
}

// DeletePurchase removes exactly one row.
func (l *Ledger) DeletePurchase(ctx context.Context, id string) error {
	rows, err := store.Update(ctx, l.backend, store.Purchases, func(rows *[]core.Purchase) error {
		i := indexByID(*rows, id, purchaseID)
		if i < 0 {
			return &core.NotFoundError{Kind: "purchase", Key: id}
		}
		*rows = append((*rows)[:i:i], (*rows)[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	l.saved(ctx, log.OpDelete, store.KindPurchases, id, len(rows))
	return nil
}
