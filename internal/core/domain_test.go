package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNewSaleDerivesTotal(t *testing.T) {
	s := NewSale(NewDate(2025, 3, 2), " Brioche perdue ", 2, d("8.0"), "Espèces")
	if !s.Total.Equal(d("16")) {
		t.Fatalf("total = %s, want 16", s.Total)
	}
	if s.Product != "Brioche perdue" {
		t.Fatalf("product not trimmed: %q", s.Product)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid sale, got %v", err)
	}
}

func TestSaleValidate(t *testing.T) {
	date := NewDate(2025, 1, 1)
	bads := []Sale{
		NewSale(Date{}, "p", 1, d("1"), "Espèces"),
		NewSale(date, "", 1, d("1"), "Espèces"),
		NewSale(date, "p", 0, d("1"), "Espèces"),
		NewSale(date, "p", 1, d("0"), "Espèces"),
		NewSale(date, "p", 1, d("1"), ""),
	}
	for i, s := range bads {
		err := s.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected ErrValidation, got %v", i, err)
		}
	}
}

func TestPurchaseValidate(t *testing.T) {
	good := NewPurchase(NewDate(2025, 1, 1), "Metro", "Farine", d("2.5"), "kg", d("1.2"), "Virement", "Matières premières")
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !good.Total.Equal(d("3")) {
		t.Fatalf("total = %s, want 3", good.Total)
	}

	bad := good
	bad.Supplier = ""
	var verr *ValidationError
	if err := bad.Validate(); !errors.As(err, &verr) || verr.Field != "supplier" {
		t.Fatalf("expected supplier validation error, got %v", err)
	}
}

func TestTreasuryMovement(t *testing.T) {
	m := TreasuryMovement{Date: NewDate(2025, 1, 1), Label: "Loyer", Kind: Outflow, Amount: d("900"), Mode: "Virement", Category: "Divers"}
	if err := m.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !m.Signed().Equal(d("-900")) {
		t.Fatalf("signed = %s", m.Signed())
	}
	m.Kind = "Autre"
	if err := m.Validate(); err == nil {
		t.Fatalf("expected invalid kind")
	}
}

func TestParseMovementKind(t *testing.T) {
	for in, want := range map[string]MovementKind{"Entrée": Inflow, "entree": Inflow, "in": Inflow, "Sortie": Outflow, "OUT": Outflow} {
		got, err := ParseMovementKind(in)
		if err != nil || got != want {
			t.Errorf("ParseMovementKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMovementKind("maybe"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestStockItemIsLowInclusive(t *testing.T) {
	cases := []struct {
		qty, threshold string
		low            bool
	}{
		{"5", "5", true},
		{"4.9", "5", true},
		{"5.1", "5", false},
		{"-1", "0", true},
		{"0", "0", true},
	}
	for _, tc := range cases {
		item := StockItem{Name: "x", Quantity: d(tc.qty), AlertThreshold: d(tc.threshold)}
		if got := item.IsLow(); got != tc.low {
			t.Errorf("qty=%s threshold=%s: IsLow=%v want %v", tc.qty, tc.threshold, got, tc.low)
		}
	}
}

func TestRecipeValidate(t *testing.T) {
	r := Recipe{Name: "Cookie", Ingredients: map[string]decimal.Decimal{"Farine": d("0.05")}}
	if err := r.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	r.Ingredients["Sel"] = decimal.Zero
	if err := r.Validate(); err != nil {
		t.Fatalf("zero quantity should be accepted, got %v", err)
	}
	if err := (Recipe{Name: "Vide"}).Validate(); err == nil {
		t.Fatalf("expected recipe without ingredients to be rejected")
	}
}

func TestRecipeValidateIngredients(t *testing.T) {
	tests := []struct {
		name        string
		ingredients map[string]decimal.Decimal
		reason      string
	}{
		{"negative quantity", map[string]decimal.Decimal{"Sucre": d("-0.1")}, "quantity for Sucre must not be negative"},
		{"blank name", map[string]decimal.Decimal{"  ": d("1")}, "ingredient name required"},
		{"same key twice", map[string]decimal.Decimal{"Farine": d("1"), "farine": d("1")}, "duplicate ingredient Farine and farine"},
		{"same key after spacing", map[string]decimal.Decimal{"Beurre doux": d("1"), " beurre  DOUX": d("2")}, "duplicate ingredient  beurre  DOUX and Beurre doux"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Recipe{Name: "Cookie", Ingredients: tt.ingredients}.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if ve.Field != "ingredients" || ve.Reason != tt.reason {
				t.Errorf("got %s: %s, want ingredients: %s", ve.Field, ve.Reason, tt.reason)
			}
		})
	}
}

func TestIngredientKey(t *testing.T) {
	if IngredientKey("  Beurre   doux ") != IngredientKey("beurre doux") {
		t.Fatalf("keys should match")
	}
	if IngredientKey("   ") != "" {
		t.Fatalf("blank name should yield empty key")
	}
}

func TestWeeklyScheduleNormalize(t *testing.T) {
	w := WeeklySchedule{"Lundi": {" Alice ": " 9h-14h ", "": "x"}}
	if err := w.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := w.Normalize()
	if len(n) != 7 {
		t.Fatalf("expected 7 days, got %d", len(n))
	}
	if n["Lundi"]["Alice"] != "9h-14h" || len(n["Lundi"]) != 1 {
		t.Fatalf("unexpected monday: %v", n["Lundi"])
	}
	if err := (WeeklySchedule{"Funday": {}}).Validate(); err == nil {
		t.Fatalf("expected unknown day to fail")
	}
}

func TestMonthLabels(t *testing.T) {
	if NormalizeMonth("février") != "Février" {
		t.Fatalf("expected case-insensitive match")
	}
	if MonthIndex("Décembre") != 12 || MonthIndex("Nope") != 0 {
		t.Fatalf("unexpected month index")
	}
}
