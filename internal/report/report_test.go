package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"saba/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// groups renders amounts as strings so cmp can compare them.
func groups(gs []core.GroupAmount) map[string]string {
	out := map[string]string{}
	for _, g := range gs {
		out[g.Name] = g.Amount.String()
	}
	return out
}

func names(gs []core.GroupAmount) []string {
	var out []string
	for _, g := range gs {
		out = append(out, g.Name)
	}
	return out
}

func TestTreasuryBalance(t *testing.T) {
	mv := []core.TreasuryMovement{
		{Date: core.NewDate(2025, 1, 3), Kind: core.Inflow, Amount: d("100")},
		{Date: core.NewDate(2025, 1, 9), Kind: core.Outflow, Amount: d("30")},
		{Date: core.NewDate(2025, 2, 1), Kind: core.Inflow, Amount: d("20")},
	}
	sum := Treasury(mv)
	if !sum.TotalIn.Equal(d("120")) || !sum.TotalOut.Equal(d("30")) || !sum.Balance.Equal(d("90")) {
		t.Fatalf("unexpected summary: in=%s out=%s balance=%s", sum.TotalIn, sum.TotalOut, sum.Balance)
	}
	if len(sum.ByMonth) != 2 || sum.ByMonth[0].Month != "2025-01" || !sum.ByMonth[0].Outflow.Equal(d("30")) {
		t.Fatalf("unexpected month series: %+v", sum.ByMonth)
	}

	newest := NewestFirst(mv)
	if !newest[0].Date.Equal(core.NewDate(2025, 2, 1).Time) {
		t.Fatalf("expected newest first, got %s", newest[0].Date)
	}
	if !mv[0].Date.Equal(core.NewDate(2025, 1, 3).Time) {
		t.Fatalf("input must not be reordered")
	}
}

func TestGroupSumFirstSeenOrder(t *testing.T) {
	sales := []core.Sale{
		{PaymentMode: "Carte bancaire", Total: d("10")},
		{PaymentMode: "Espèces", Total: d("20")},
		{PaymentMode: "Carte bancaire", Total: d("10")},
		{PaymentMode: "Ticket restaurant", Total: d("5")},
	}
	got := GroupSum(sales, func(s core.Sale) string { return s.PaymentMode }, saleTotal)
	if diff := cmp.Diff([]string{"Carte bancaire", "Espèces", "Ticket restaurant"}, names(got)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"Carte bancaire": "20", "Espèces": "20", "Ticket restaurant": "5"}, groups(got)); diff != "" {
		t.Fatalf("sums mismatch (-want +got):\n%s", diff)
	}

	// Ties keep first-seen order when sorted for display.
	sorted := SortedByAmountDesc(got)
	if diff := cmp.Diff([]string{"Carte bancaire", "Espèces", "Ticket restaurant"}, names(sorted)); diff != "" {
		t.Fatalf("sorted order mismatch (-want +got):\n%s", diff)
	}
}

func TestSalesStats(t *testing.T) {
	sales := []core.Sale{
		core.NewSale(core.NewDate(2025, 3, 1), "Cookie", 2, d("8"), "Espèces"),
		core.NewSale(core.NewDate(2025, 3, 15), "Thé", 1, d("3.5"), "Carte bancaire"),
		core.NewSale(core.NewDate(2025, 4, 1), "Cookie", 3, d("8"), "Carte bancaire"),
	}
	st := SalesStats(sales, 2025, 3)
	if st.Count != 3 || !st.Revenue.Equal(d("43.5")) {
		t.Fatalf("unexpected totals: %+v", st)
	}
	if st.MonthCount != 2 || !st.MonthRevenue.Equal(d("19.5")) {
		t.Fatalf("unexpected month totals: count=%d revenue=%s", st.MonthCount, st.MonthRevenue)
	}
	if diff := cmp.Diff([]string{"Carte bancaire", "Espèces"}, names(st.ByPaymentMode)); diff != "" {
		t.Fatalf("payment mode order (-want +got):\n%s", diff)
	}
}

func TestPurchaseStats(t *testing.T) {
	ps := []core.Purchase{
		{Category: "Matières premières", Total: d("12.5")},
		{Category: "Emballages", Total: d("40")},
		{Category: "Matières premières", Total: d("7.5")},
	}
	st := PurchaseStats(ps)
	if st.Count != 3 || !st.Total.Equal(d("60")) {
		t.Fatalf("unexpected totals: %+v", st)
	}
	if diff := cmp.Diff([]string{"Emballages", "Matières premières"}, names(st.ByCategory)); diff != "" {
		t.Fatalf("category order (-want +got):\n%s", diff)
	}
}

func TestFilterByMonthAndTotal(t *testing.T) {
	sales := []core.Sale{
		{Date: core.NewDate(2024, 3, 1), Total: d("1")},
		{Date: core.NewDate(2025, 3, 31), Total: d("2")},
		{Date: core.NewDate(2025, 4, 1), Total: d("4")},
	}
	got := FilterByMonth(sales, saleDate, 2025, 3)
	if len(got) != 1 || !Total(got, saleTotal).Equal(d("2")) {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if !Total[core.Sale](nil, saleTotal).IsZero() {
		t.Fatalf("empty total should be zero")
	}
}

func TestBankSeriesCalendarOrder(t *testing.T) {
	b := core.BankBalances{"Courant": {"Mars": d("300"), "Janvier": d("-20"), "Février": d("150")}}
	got := BankSeries(b, "Courant")
	if diff := cmp.Diff([]string{"Janvier", "Février", "Mars"}, names(got)); diff != "" {
		t.Fatalf("month order (-want +got):\n%s", diff)
	}
	if BankSeries(b, "Épargne") != nil {
		t.Fatalf("unknown account should be empty")
	}
}
