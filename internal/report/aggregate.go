// Package report holds read-only projections over ledger tables: sums,
// group-by totals and monthly filters used by the dashboard views.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"saba/internal/core"
)

// Total sums amount over rows.
func Total[T any](rows []T, amount func(T) decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(amount(r))
	}
	return sum
}

// GroupSum sums amount per group. Groups are returned in the order they
// are first seen in rows.
func GroupSum[T any](rows []T, group func(T) string, amount func(T) decimal.Decimal) []core.GroupAmount {
	pos := make(map[string]int)
	var out []core.GroupAmount
	for _, r := range rows {
		g := group(r)
		i, ok := pos[g]
		if !ok {
			i = len(out)
			pos[g] = i
			out = append(out, core.GroupAmount{Name: g, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(amount(r))
	}
	return out
}

// SortedByAmountDesc returns a copy of groups sorted by descending amount.
// Equal amounts keep their first-seen order.
func SortedByAmountDesc(groups []core.GroupAmount) []core.GroupAmount {
	out := append([]core.GroupAmount(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// FilterByMonth keeps the rows whose date falls in year/month.
func FilterByMonth[T any](rows []T, date func(T) core.Date, year, month int) []T {
	var out []T
	for _, r := range rows {
		d := date(r)
		if d.Year() == year && int(d.Month()) == month {
			out = append(out, r)
		}
	}
	return out
}
