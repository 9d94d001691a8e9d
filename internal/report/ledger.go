package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"saba/internal/core"
)

func saleTotal(s core.Sale) decimal.Decimal { return s.Total }

func saleDate(s core.Sale) core.Date { return s.Date }

func purchaseTotal(p core.Purchase) decimal.Decimal { return p.Total }

// SalesStats summarises sales overall and for year/month.
func SalesStats(sales []core.Sale, year, month int) core.SalesStats {
	inMonth := FilterByMonth(sales, saleDate, year, month)
	return core.SalesStats{
		Count:        len(sales),
		Revenue:      Total(sales, saleTotal),
		MonthCount:   len(inMonth),
		MonthRevenue: Total(inMonth, saleTotal),
		ByPaymentMode: SortedByAmountDesc(GroupSum(sales,
			func(s core.Sale) string { return s.PaymentMode }, saleTotal)),
	}
}

// PurchaseStats summarises purchases with a per-category breakdown.
func PurchaseStats(purchases []core.Purchase) core.PurchaseStats {
	return core.PurchaseStats{
		Count: len(purchases),
		Total: Total(purchases, purchaseTotal),
		ByCategory: SortedByAmountDesc(GroupSum(purchases,
			func(p core.Purchase) string { return p.Category }, purchaseTotal)),
	}
}

// Treasury computes inflow, outflow, balance and a per-month series in
// ascending month order.
func Treasury(movements []core.TreasuryMovement) core.TreasurySummary {
	sum := core.TreasurySummary{TotalIn: decimal.Zero, TotalOut: decimal.Zero}
	months := map[string]*core.MonthFlow{}
	for _, m := range movements {
		key := m.Date.MonthKey()
		flow, ok := months[key]
		if !ok {
			flow = &core.MonthFlow{Month: key, Inflow: decimal.Zero, Outflow: decimal.Zero}
			months[key] = flow
		}
		switch m.Kind {
		case core.Inflow:
			sum.TotalIn = sum.TotalIn.Add(m.Amount)
			flow.Inflow = flow.Inflow.Add(m.Amount)
		case core.Outflow:
			sum.TotalOut = sum.TotalOut.Add(m.Amount)
			flow.Outflow = flow.Outflow.Add(m.Amount)
		}
	}
	sum.Balance = sum.TotalIn.Sub(sum.TotalOut)
	for _, f := range months {
		sum.ByMonth = append(sum.ByMonth, *f)
	}
	sort.Slice(sum.ByMonth, func(i, j int) bool { return sum.ByMonth[i].Month < sum.ByMonth[j].Month })
	return sum
}

// NewestFirst returns movements ordered by date, most recent first. Entries
// on the same day keep their recorded order.
func NewestFirst(movements []core.TreasuryMovement) []core.TreasuryMovement {
	out := append([]core.TreasuryMovement(nil), movements...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out
}

// BankSeries returns an account's balances in calendar month order,
// skipping months with no recorded balance.
func BankSeries(balances core.BankBalances, account string) []core.GroupAmount {
	var out []core.GroupAmount
	for _, month := range core.MonthLabels {
		if v, ok := balances[account][month]; ok {
			out = append(out, core.GroupAmount{Name: month, Amount: v})
		}
	}
	return out
}
