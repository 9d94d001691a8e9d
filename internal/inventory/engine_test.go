package inventory

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"saba/internal/core"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cookie() core.Recipe {
	return core.Recipe{
		Name: "Cookie",
		Ingredients: map[string]decimal.Decimal{
			"Farine":      d("0.05"),
			"Beurre doux": d("0.02"),
			"Chocolat":    d("0.015"),
		},
	}
}

func TestRequiredQuantities(t *testing.T) {
	r := cookie()
	for _, p := range []int{1, 2, 7, 40} {
		got, err := RequiredQuantities(r, p)
		if err != nil {
			t.Fatalf("portions=%d: %v", p, err)
		}
		for name, per := range r.Ingredients {
			want := per.Mul(decimal.NewFromInt(int64(p)))
			if !got[name].Equal(want) {
				t.Fatalf("portions=%d %s: got %s want %s", p, name, got[name], want)
			}
		}
	}
	if _, err := RequiredQuantities(r, 0); !errors.Is(err, ErrInvalidPortions) {
		t.Fatalf("expected ErrInvalidPortions, got %v", err)
	}
}

func TestDeductMatchingAndMissing(t *testing.T) {
	stock := Stock{
		"farine":       {Name: "farine", Quantity: d("10"), AlertThreshold: d("2")},
		"Beurre  Doux": {Name: "Beurre  Doux", Quantity: d("1"), AlertThreshold: d("0.5")},
		"Sucre":        {Name: "Sucre", Quantity: d("3"), AlertThreshold: d("1")},
	}
	rep, err := Deduct(cookie(), 20, stock, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stock["farine"].Quantity.Equal(d("9")) {
		t.Errorf("farine = %s, want 9", stock["farine"].Quantity)
	}
	if !stock["Beurre  Doux"].Quantity.Equal(d("0.6")) {
		t.Errorf("beurre = %s, want 0.6", stock["Beurre  Doux"].Quantity)
	}
	if !stock["Sucre"].Quantity.Equal(d("3")) {
		t.Errorf("sucre should be untouched, got %s", stock["Sucre"].Quantity)
	}
	if diff := cmp.Diff([]string{"Chocolat"}, rep.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if len(rep.Applied) != 2 {
		t.Fatalf("expected 2 applied lines, got %d", len(rep.Applied))
	}
	first := rep.Applied[0]
	if first.Ingredient != "Beurre doux" || !first.Used.Equal(d("0.4")) || !first.Before.Equal(d("1")) || !first.After.Equal(d("0.6")) {
		t.Errorf("unexpected line: %+v", first)
	}
}

func TestDeductStrictLeavesStockUntouched(t *testing.T) {
	stock := Stock{"Farine": {Name: "Farine", Quantity: d("10")}}
	_, err := Deduct(cookie(), 1, stock, Options{Strict: true})
	var nf *core.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound match")
	}
	if !stock["Farine"].Quantity.Equal(d("10")) {
		t.Fatalf("stock changed in strict mode: %s", stock["Farine"].Quantity)
	}
}

func TestDeductReportsNegativeAndLow(t *testing.T) {
	stock := Stock{
		"Farine":      {Name: "Farine", Quantity: d("1"), AlertThreshold: d("0")},
		"Beurre doux": {Name: "Beurre doux", Quantity: d("5"), AlertThreshold: d("4.6")},
		"Chocolat":    {Name: "Chocolat", Quantity: d("5"), AlertThreshold: d("1")},
	}
	rep, err := Deduct(cookie(), 30, stock, Options{Strict: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stock["Farine"].Quantity.Equal(d("-0.5")) {
		t.Fatalf("farine = %s, want -0.5", stock["Farine"].Quantity)
	}
	if diff := cmp.Diff([]string{"Farine"}, rep.Negative); diff != "" {
		t.Errorf("negative mismatch (-want +got):\n%s", diff)
	}
	// beurre: 5 - 0.6 = 4.4 <= 4.6
	if diff := cmp.Diff([]string{"Beurre doux", "Farine"}, rep.LowStock); diff != "" {
		t.Errorf("low stock mismatch (-want +got):\n%s", diff)
	}
}

func TestLowStockInclusive(t *testing.T) {
	stock := Stock{
		"A": {Quantity: d("2"), AlertThreshold: d("2")},
		"B": {Quantity: d("2.01"), AlertThreshold: d("2")},
		"C": {Quantity: d("0"), AlertThreshold: d("1")},
	}
	if diff := cmp.Diff([]string{"A", "C"}, LowStock(stock)); diff != "" {
		t.Fatalf("low stock mismatch (-want +got):\n%s", diff)
	}
	items := LowStockItems(stock)
	if len(items) != 2 || items[0].Name != "A" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if StockStatus(stock["A"]) != StatusLow || StockStatus(stock["B"]) != StatusOK {
		t.Fatalf("unexpected status")
	}
}

func TestShoppingList(t *testing.T) {
	stock := Stock{
		"Farine":      {Quantity: d("0.5")},
		"Beurre doux": {Quantity: d("10")},
	}
	list, err := ShoppingList(cookie(), 20, stock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Shortage{
		{Ingredient: "Chocolat", Required: d("0.3"), OnHand: decimal.Zero, Shortfall: d("0.3")},
		{Ingredient: "Farine", Required: d("1"), OnHand: d("0.5"), Shortfall: d("0.5")},
	}
	if len(list) != len(want) {
		t.Fatalf("got %d shortages, want %d: %+v", len(list), len(want), list)
	}
	for i := range want {
		g, w := list[i], want[i]
		if g.Ingredient != w.Ingredient || !g.Required.Equal(w.Required) || !g.OnHand.Equal(w.OnHand) || !g.Shortfall.Equal(w.Shortfall) {
			t.Errorf("shortage %d: got %+v want %+v", i, g, w)
		}
	}
}

func TestShoppingListSumsNamesSharingAKey(t *testing.T) {
	recipe := core.Recipe{
		Name:        "Pâte",
		Ingredients: map[string]decimal.Decimal{"Farine": d("1"), "farine": d("1")},
	}
	stock := Stock{"farine": {Quantity: d("1.5")}}

	list, err := ShoppingList(recipe, 1, stock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Shortage{{Ingredient: "Farine", Required: d("2"), OnHand: d("1.5"), Shortfall: d("0.5")}}
	if diff := cmp.Diff(want, list, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("shopping list mismatch (-want +got):\n%s", diff)
	}

	// Deducting the same recipe leaves exactly the reported shortfall owed.
	if _, err := Deduct(recipe, 1, stock, Options{}); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if got := stock["farine"].Quantity; !got.Equal(want[0].Shortfall.Neg()) {
		t.Errorf("stock after deduct = %s, want %s", got, want[0].Shortfall.Neg())
	}
}
