package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"saba/internal/catalog"
	"saba/internal/core"
	"saba/internal/log"
	"saba/internal/report"
	"saba/internal/store"
)

// Movements returns treasury movements, most recent first.
func (l *Ledger) Movements(ctx context.Context) ([]core.TreasuryMovement, error) {
	rows, err := store.Load(ctx, l.backend, store.Treasury)
	if err != nil {
		return nil, err
	}
	return report.NewestFirst(rows), nil
}

// RecordMovement appends a treasury movement. It is not linked to any sale
// or purchase.
func (l *Ledger) RecordMovement(ctx context.Context, m core.TreasuryMovement) (core.TreasuryMovement, error) {
	if m.Date.IsZero() {
		m.Date = l.today()
	}
	m.Label = strings.TrimSpace(m.Label)
	m.Mode = strings.TrimSpace(m.Mode)
	m.Category = strings.TrimSpace(m.Category)
	if err := m.Validate(); err != nil {
		return core.TreasuryMovement{}, l.failed(ctx, log.OpCreate, store.KindTreasury, err)
	}
	if err := catalog.Check("mode", m.Mode, l.catalog.TreasuryModes); err != nil {
		return core.TreasuryMovement{}, l.failed(ctx, log.OpCreate, store.KindTreasury, err)
	}
	if err := catalog.Check("category", m.Category, l.catalog.TreasuryCategories); err != nil {
		return core.TreasuryMovement{}, l.failed(ctx, log.OpCreate, store.KindTreasury, err)
	}
	m.ID = l.newID()

	rows, err := store.Update(ctx, l.backend, store.Treasury, func(rows *[]core.TreasuryMovement) error {
		*rows = append(*rows, m)
		return nil
	})
	if err != nil {
		return core.TreasuryMovement{}, err
	}
	l.saved(ctx, log.OpCreate, store.KindTreasury, m.ID, len(rows))
	return m, nil
}

// Treasury returns inflow, outflow and balance over every movement.
func (l *Ledger) Treasury(ctx context.Context) (core.TreasurySummary, error) {
	rows, err := store.Load(ctx, l.backend, store.Treasury)
	if err != nil {
		return core.TreasurySummary{}, err
	}
	return report.Treasury(rows), nil
}

func (l *Ledger) BankBalances(ctx context.Context) (core.BankBalances, error) {
	return store.Load(ctx, l.backend, store.BankBalances)
}

// SetBankBalance records the end-of-month balance of an account. Balances
// may be negative.
func (l *Ledger) SetBankBalance(ctx context.Context, account, month string, balance decimal.Decimal) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return l.failed(ctx, log.OpUpdate, store.KindBankBalances, &core.ValidationError{Field: "account", Reason: "required"})
	}
	label := core.NormalizeMonth(month)
	if label == "" {
		return l.failed(ctx, log.OpUpdate, store.KindBankBalances, &core.ValidationError{Field: "month", Reason: "unknown month " + month})
	}
	all, err := store.Update(ctx, l.backend, store.BankBalances, func(b *core.BankBalances) error {
		if (*b)[account] == nil {
			(*b)[account] = map[string]decimal.Decimal{}
		}
		(*b)[account][label] = balance
		return nil
	})
	if err != nil {
		return err
	}
	l.saved(ctx, log.OpUpdate, store.KindBankBalances, account+"/"+label, len(all))
	return nil
}
