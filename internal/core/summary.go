package core

import "github.com/shopspring/decimal"

// GroupAmount represents an amount aggregated by a grouping value
// (payment mode, category, ...).
type GroupAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthFlow is the treasury inflow/outflow for one YYYY-MM bucket.
type MonthFlow struct {
	Month   string          `json:"month"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
}

// SalesStats is the summary shown on the sales view.
type SalesStats struct {
	Count         int             `json:"count"`
	Revenue       decimal.Decimal `json:"revenue"`
	MonthCount    int             `json:"month_count"`
	MonthRevenue  decimal.Decimal `json:"month_revenue"`
	ByPaymentMode []GroupAmount   `json:"by_payment_mode"`
}

// PurchaseStats is the summary shown on the purchases view.
type PurchaseStats struct {
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	ByCategory []GroupAmount   `json:"by_category"`
}

// TreasurySummary is the overall cash position.
type TreasurySummary struct {
	TotalIn  decimal.Decimal `json:"total_in"`
	TotalOut decimal.Decimal `json:"total_out"`
	Balance  decimal.Decimal `json:"balance"`
	ByMonth  []MonthFlow     `json:"by_month"`
}

// Dashboard is a compact snapshot across every ledger.
type Dashboard struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"` // 1-12
	Sales     SalesStats      `json:"sales"`
	Purchases PurchaseStats   `json:"purchases"`
	Treasury  TreasurySummary `json:"treasury"`
	LowStock  []StockItem     `json:"low_stock"`
}
