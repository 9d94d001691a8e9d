package http

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"saba/internal/core"
	"saba/internal/inventory"
	"saba/internal/payroll"
)

// money renders with two decimals and banker's rounding. Quantities keep
// full precision and are sent as plain decimals.
type money decimal.Decimal

func (m money) MarshalJSON() ([]byte, error) {
	return json.Marshal(core.FormatAmount(decimal.Decimal(m)))
}

type saleView struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Product     string `json:"product"`
	Quantity    int    `json:"quantity"`
	UnitPrice   money  `json:"unit_price"`
	Total       money  `json:"total"`
	PaymentMode string `json:"payment_mode"`
}

func newSaleView(s core.Sale) saleView {
	return saleView{
		ID:          s.ID,
		Date:        s.Date.String(),
		Product:     s.Product,
		Quantity:    s.Quantity,
		UnitPrice:   money(s.UnitPrice),
		Total:       money(s.Total),
		PaymentMode: s.PaymentMode,
	}
}

type purchaseView struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Supplier    string          `json:"supplier"`
	Product     string          `json:"product"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   money           `json:"unit_price"`
	Total       money           `json:"total"`
	PaymentMode string          `json:"payment_mode"`
	Category    string          `json:"category"`
}

func newPurchaseView(p core.Purchase) purchaseView {
	return purchaseView{
		ID:          p.ID,
		Date:        p.Date.String(),
		Supplier:    p.Supplier,
		Product:     p.Product,
		Quantity:    p.Quantity,
		Unit:        p.Unit,
		UnitPrice:   money(p.UnitPrice),
		Total:       money(p.Total),
		PaymentMode: p.PaymentMode,
		Category:    p.Category,
	}
}

type movementView struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Amount   money  `json:"amount"`
	Mode     string `json:"mode"`
	Category string `json:"category"`
}

func newMovementView(m core.TreasuryMovement) movementView {
	return movementView{
		ID:       m.ID,
		Date:     m.Date.String(),
		Label:    m.Label,
		Kind:     string(m.Kind),
		Amount:   money(m.Amount),
		Mode:     m.Mode,
		Category: m.Category,
	}
}

type stockItemView struct {
	Name           string           `json:"name"`
	Quantity       decimal.Decimal  `json:"quantity"`
	AlertThreshold decimal.Decimal  `json:"alert_threshold"`
	Unit           string           `json:"unit,omitempty"`
	Status         inventory.Status `json:"status"`
}

func newStockItemView(item core.StockItem) stockItemView {
	return stockItemView{
		Name:           item.Name,
		Quantity:       item.Quantity,
		AlertThreshold: item.AlertThreshold,
		Unit:           item.Unit,
		Status:         inventory.StockStatus(item),
	}
}

// stockViews lists items in name order.
func stockViews(stock inventory.Stock) []stockItemView {
	out := make([]stockItemView, 0, len(stock))
	for _, item := range stock {
		out = append(out, newStockItemView(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type dishView struct {
	Name  string `json:"name"`
	Price money  `json:"price"`
}

func dishViews(dishes map[string]core.Dish) []dishView {
	out := make([]dishView, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, dishView{Name: d.Name, Price: money(d.Price)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type groupView struct {
	Name   string `json:"name"`
	Amount money  `json:"amount"`
}

func groupViews(groups []core.GroupAmount) []groupView {
	out := make([]groupView, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupView{Name: g.Name, Amount: money(g.Amount)})
	}
	return out
}

type salesStatsView struct {
	Count         int         `json:"count"`
	Revenue       money       `json:"revenue"`
	MonthCount    int         `json:"month_count"`
	MonthRevenue  money       `json:"month_revenue"`
	ByPaymentMode []groupView `json:"by_payment_mode"`
}

func newSalesStatsView(s core.SalesStats) salesStatsView {
	return salesStatsView{
		Count:         s.Count,
		Revenue:       money(s.Revenue),
		MonthCount:    s.MonthCount,
		MonthRevenue:  money(s.MonthRevenue),
		ByPaymentMode: groupViews(s.ByPaymentMode),
	}
}

type purchaseStatsView struct {
	Count      int         `json:"count"`
	Total      money       `json:"total"`
	ByCategory []groupView `json:"by_category"`
}

func newPurchaseStatsView(p core.PurchaseStats) purchaseStatsView {
	return purchaseStatsView{Count: p.Count, Total: money(p.Total), ByCategory: groupViews(p.ByCategory)}
}

type monthFlowView struct {
	Month   string `json:"month"`
	Inflow  money  `json:"inflow"`
	Outflow money  `json:"outflow"`
}

type treasuryView struct {
	TotalIn  money           `json:"total_in"`
	TotalOut money           `json:"total_out"`
	Balance  money           `json:"balance"`
	ByMonth  []monthFlowView `json:"by_month"`
}

func newTreasuryView(t core.TreasurySummary) treasuryView {
	v := treasuryView{
		TotalIn:  money(t.TotalIn),
		TotalOut: money(t.TotalOut),
		Balance:  money(t.Balance),
		ByMonth:  make([]monthFlowView, 0, len(t.ByMonth)),
	}
	for _, m := range t.ByMonth {
		v.ByMonth = append(v.ByMonth, monthFlowView{Month: m.Month, Inflow: money(m.Inflow), Outflow: money(m.Outflow)})
	}
	return v
}

type dashboardView struct {
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	Sales     salesStatsView    `json:"sales"`
	Purchases purchaseStatsView `json:"purchases"`
	Treasury  treasuryView      `json:"treasury"`
	LowStock  []stockItemView   `json:"low_stock"`
}

func newDashboardView(d core.Dashboard) dashboardView {
	low := make([]stockItemView, 0, len(d.LowStock))
	for _, item := range d.LowStock {
		low = append(low, newStockItemView(item))
	}
	return dashboardView{
		Year:      d.Year,
		Month:     d.Month,
		Sales:     newSalesStatsView(d.Sales),
		Purchases: newPurchaseStatsView(d.Purchases),
		Treasury:  newTreasuryView(d.Treasury),
		LowStock:  low,
	}
}

// bankView keeps months in calendar order for each account.
type bankView struct {
	Account  string         `json:"account"`
	Balances []monthBalance `json:"balances"`
}

type monthBalance struct {
	Month   string `json:"month"`
	Balance money  `json:"balance"`
}

func bankViews(b core.BankBalances) []bankView {
	accounts := make([]string, 0, len(b))
	for a := range b {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	out := make([]bankView, 0, len(accounts))
	for _, a := range accounts {
		v := bankView{Account: a, Balances: []monthBalance{}}
		for _, m := range core.MonthLabels {
			if bal, ok := b[a][m]; ok {
				v.Balances = append(v.Balances, monthBalance{Month: m, Balance: money(bal)})
			}
		}
		out = append(out, v)
	}
	return out
}

type payslipView struct {
	Employee      string          `json:"employee"`
	Hours         decimal.Decimal `json:"hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	HourlyRate    money           `json:"hourly_rate"`
	OvertimeRate  money           `json:"overtime_rate"`
	Bonus         money           `json:"bonus"`
	Gross         money           `json:"gross"`
	Contribution  money           `json:"contribution"`
	Net           money           `json:"net"`
}

type payrollView struct {
	Rates struct {
		Hourly           money           `json:"hourly"`
		Overtime         money           `json:"overtime"`
		ContributionRate decimal.Decimal `json:"contribution_rate"`
	} `json:"rates"`
	Payslips []payslipView `json:"payslips"`
	Totals   struct {
		Gross        money `json:"gross"`
		Contribution money `json:"contribution"`
		Net          money `json:"net"`
	} `json:"totals"`
}

func newPayrollView(res payroll.Result) payrollView {
	var v payrollView
	v.Rates.Hourly = money(res.Rates.Hourly)
	v.Rates.Overtime = money(res.Rates.Overtime)
	v.Rates.ContributionRate = res.Rates.ContributionRate
	v.Payslips = make([]payslipView, 0, len(res.Payslips))
	for _, p := range res.Payslips {
		v.Payslips = append(v.Payslips, payslipView{
			Employee:      p.Employee,
			Hours:         p.Hours,
			OvertimeHours: p.OvertimeHours,
			HourlyRate:    money(p.HourlyRate),
			OvertimeRate:  money(p.OvertimeRate),
			Bonus:         money(p.Bonus),
			Gross:         money(p.Gross),
			Contribution:  money(p.Contribution),
			Net:           money(p.Net),
		})
	}
	v.Totals.Gross = money(res.Totals.Gross)
	v.Totals.Contribution = money(res.Totals.Contribution)
	v.Totals.Net = money(res.Totals.Net)
	return v
}

// sortedValues returns map values ordered by key.
func sortedValues[V any](m map[string]V) []V {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
