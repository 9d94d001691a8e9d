// Package inventory scales recipes to a portion count and applies them to
// on-hand stock.
//
// Recipe ingredients and stock items are matched by core.IngredientKey, so
// "Beurre doux" in a recipe and "beurre  doux" in stock refer to the same
// item. An ingredient with no stock entry is reported in Deduction.Missing
// rather than skipped silently.
package inventory

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"saba/internal/core"
)

// Stock is the on-hand inventory keyed by item name as persisted.
type Stock map[string]core.StockItem

// Status is the alert state of a single stock item.
type Status string

const (
	StatusOK  Status = "ok"
	StatusLow Status = "low"
)

// ErrInvalidPortions is returned for portion counts below one.
var ErrInvalidPortions = errors.New("portions must be at least 1")

// Line is one ingredient applied during a deduction.
type Line struct {
	Ingredient string          `json:"ingredient"`
	StockItem  string          `json:"stock_item"`
	Used       decimal.Decimal `json:"used"`
	Before     decimal.Decimal `json:"before"`
	After      decimal.Decimal `json:"after"`
}

// Deduction describes what Deduct did to the stock.
type Deduction struct {
	Recipe   string   `json:"recipe"`
	Portions int      `json:"portions"`
	Applied  []Line   `json:"applied"`
	Missing  []string `json:"missing"`
	Negative []string `json:"negative"`
	LowStock []string `json:"low_stock"`
}

// Shortage is an ingredient that must be bought before cooking.
type Shortage struct {
	Ingredient string          `json:"ingredient"`
	Required   decimal.Decimal `json:"required"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Shortfall  decimal.Decimal `json:"shortfall"`
}

// Options tune Deduct.
type Options struct {
	// Strict makes a missing ingredient a NotFoundError. Stock is left
	// untouched in that case.
	Strict bool
}

// RequiredQuantities returns quantity-per-portion x portions for every
// ingredient of the recipe, keyed by the ingredient name used in the recipe.
func RequiredQuantities(recipe core.Recipe, portions int) (map[string]decimal.Decimal, error) {
	if portions < 1 {
		return nil, ErrInvalidPortions
	}
	p := decimal.NewFromInt(int64(portions))
	out := make(map[string]decimal.Decimal, len(recipe.Ingredients))
	for name, qty := range recipe.Ingredients {
		out[name] = qty.Mul(p)
	}
	return out, nil
}

// Deduct subtracts the quantities required for portions of recipe from
// stock in place. Items may go below zero; those are listed in
// Deduction.Negative.
func Deduct(recipe core.Recipe, portions int, stock Stock, opts Options) (Deduction, error) {
	required, err := RequiredQuantities(recipe, portions)
	if err != nil {
		return Deduction{}, err
	}

	index := stock.index()
	report := Deduction{Recipe: recipe.Name, Portions: portions}
	for _, name := range sortedKeys(required) {
		if _, ok := index[core.IngredientKey(name)]; !ok {
			report.Missing = append(report.Missing, name)
		}
	}
	if opts.Strict && len(report.Missing) > 0 {
		return report, &core.NotFoundError{Kind: "stock item", Key: report.Missing[0]}
	}

	for _, name := range sortedKeys(required) {
		stockName, ok := index[core.IngredientKey(name)]
		if !ok {
			continue
		}
		item := stock[stockName]
		used := required[name]
		line := Line{Ingredient: name, StockItem: stockName, Used: used, Before: item.Quantity}
		item.Quantity = item.Quantity.Sub(used)
		line.After = item.Quantity
		stock[stockName] = item

		report.Applied = append(report.Applied, line)
		if item.Quantity.IsNegative() {
			report.Negative = append(report.Negative, stockName)
		}
		if item.IsLow() {
			report.LowStock = append(report.LowStock, stockName)
		}
	}
	return report, nil
}

// LowStock returns the names of items whose quantity is at or below their
// alert threshold, sorted by name.
func LowStock(stock Stock) []string {
	var names []string
	for name, item := range stock {
		if item.IsLow() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// LowStockItems is LowStock returning the items themselves.
func LowStockItems(stock Stock) []core.StockItem {
	names := LowStock(stock)
	items := make([]core.StockItem, 0, len(names))
	for _, name := range names {
		item := stock[name]
		if item.Name == "" {
			item.Name = name
		}
		items = append(items, item)
	}
	return items
}

// StockStatus reports whether an item needs restocking.
func StockStatus(item core.StockItem) Status {
	if item.IsLow() {
		return StatusLow
	}
	return StatusOK
}

// ShoppingList lists the ingredients whose on-hand quantity does not cover
// portions of recipe. An ingredient absent from stock counts as zero on hand.
func ShoppingList(recipe core.Recipe, portions int, stock Stock) ([]Shortage, error) {
	required, err := RequiredQuantities(recipe, portions)
	if err != nil {
		return nil, err
	}
	// Names sharing a key draw on the same stock entry, so they are compared
	// as one total under the first name.
	totals := make(map[string]decimal.Decimal, len(required))
	var names []string
	for _, name := range sortedKeys(required) {
		key := core.IngredientKey(name)
		if _, ok := totals[key]; !ok {
			names = append(names, name)
		}
		totals[key] = totals[key].Add(required[name])
	}
	index := stock.index()
	var list []Shortage
	for _, name := range names {
		key := core.IngredientKey(name)
		onHand := decimal.Zero
		if stockName, ok := index[key]; ok {
			onHand = stock[stockName].Quantity
		}
		shortfall := totals[key].Sub(onHand)
		if !shortfall.IsPositive() {
			continue
		}
		list = append(list, Shortage{
			Ingredient: name,
			Required:   totals[key],
			OnHand:     onHand,
			Shortfall:  shortfall,
		})
	}
	return list, nil
}

// index maps ingredient keys to the stock entry name.
func (s Stock) index() map[string]string {
	idx := make(map[string]string, len(s))
	for _, name := range sortedKeys(s) {
		key := core.IngredientKey(name)
		if _, dup := idx[key]; !dup {
			idx[key] = name
		}
	}
	return idx
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
