package core

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk and wire format for dates.
const DateLayout = "2006-01-02"

const (
	Inflow  MovementKind = "Entrée"
	Outflow MovementKind = "Sortie"
)

type (
	MovementKind string

	Date struct {
		time.Time
	}

	Sale struct {
		ID          string
		Date        Date
		Product     string
		Quantity    int
		UnitPrice   decimal.Decimal
		Total       decimal.Decimal
		PaymentMode string
	}

	Purchase struct {
		ID          string
		Date        Date
		Supplier    string
		Product     string
		Quantity    decimal.Decimal
		Unit        string
		UnitPrice   decimal.Decimal
		Total       decimal.Decimal
		PaymentMode string
		Category    string
	}

	TreasuryMovement struct {
		ID       string
		Date     Date
		Label    string
		Kind     MovementKind
		Amount   decimal.Decimal
		Mode     string
		Category string
	}

	// StockItem is an on-hand ingredient. Quantity may go negative after a
	// deduction; no floor is enforced.
	StockItem struct {
		Name           string          `json:"name"`
		Quantity       decimal.Decimal `json:"quantity"`
		AlertThreshold decimal.Decimal `json:"alert_threshold"`
		Unit           string          `json:"unit,omitempty"`
	}

	Recipe struct {
		Name        string                     `json:"name"`
		ShelfLife   string                     `json:"shelf_life"`
		Ingredients map[string]decimal.Decimal `json:"ingredients"` // per portion
		Steps       string                     `json:"steps"`
	}

	Employee struct {
		Name          string          `json:"name"`
		Contract      string          `json:"contract"`
		HoursMonth    decimal.Decimal `json:"hours_month"`
		HoursWeek     decimal.Decimal `json:"hours_week"`
		OvertimeHours decimal.Decimal `json:"overtime_hours"`
		Bonus         decimal.Decimal `json:"bonus"`
		Absences      string          `json:"absences"`
		ClockLog      string          `json:"clock_log"`
	}

	// Dish is a sellable product with its default unit price.
	Dish struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrZeroDate      = errors.New("date cannot be zero")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Today returns the current date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM bucket the date falls in.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsValid reports whether k is one of the two movement kinds.
func (k MovementKind) IsValid() bool {
	return k == Inflow || k == Outflow
}

// ParseMovementKind accepts the French labels as well as "in"/"out".
func ParseMovementKind(s string) (MovementKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrée", "entree", "in", "inflow":
		return Inflow, nil
	case "sortie", "out", "outflow":
		return Outflow, nil
	}
	return "", invalid("kind", "must be Entrée or Sortie")
}

// NewSale builds a sale and derives its total.
func NewSale(date Date, product string, quantity int, unitPrice decimal.Decimal, paymentMode string) Sale {
	return Sale{
		Date:        date,
		Product:     strings.TrimSpace(product),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		PaymentMode: strings.TrimSpace(paymentMode),
	}
}

// NewPurchase builds a purchase and derives its total.
func NewPurchase(date Date, supplier, product string, quantity decimal.Decimal, unit string, unitPrice decimal.Decimal, paymentMode, category string) Purchase {
	return Purchase{
		Date:        date,
		Supplier:    strings.TrimSpace(supplier),
		Product:     strings.TrimSpace(product),
		Quantity:    quantity,
		Unit:        strings.TrimSpace(unit),
		UnitPrice:   unitPrice,
		Total:       quantity.Mul(unitPrice),
		PaymentMode: strings.TrimSpace(paymentMode),
		Category:    strings.TrimSpace(category),
	}
}

func (s Sale) Validate() error {
	if err := s.Date.Validate(); err != nil {
		return invalid("date", err.Error())
	}
	if s.Product == "" {
		return invalid("product", "required")
	}
	if s.Quantity < 1 {
		return invalid("quantity", "must be at least 1")
	}
	if !s.UnitPrice.IsPositive() {
		return invalid("unit_price", "must be greater than zero")
	}
	if s.PaymentMode == "" {
		return invalid("payment_mode", "required")
	}
	return nil
}

func (p Purchase) Validate() error {
	if err := p.Date.Validate(); err != nil {
		return invalid("date", err.Error())
	}
	switch {
	case p.Supplier == "":
		return invalid("supplier", "required")
	case p.Product == "":
		return invalid("product", "required")
	case !p.Quantity.IsPositive():
		return invalid("quantity", "must be greater than zero")
	case p.Unit == "":
		return invalid("unit", "required")
	case !p.UnitPrice.IsPositive():
		return invalid("unit_price", "must be greater than zero")
	case p.PaymentMode == "":
		return invalid("payment_mode", "required")
	case p.Category == "":
		return invalid("category", "required")
	}
	return nil
}

func (m TreasuryMovement) Validate() error {
	if err := m.Date.Validate(); err != nil {
		return invalid("date", err.Error())
	}
	if strings.TrimSpace(m.Label) == "" {
		return invalid("label", "required")
	}
	if !m.Kind.IsValid() {
		return invalid("kind", "must be Entrée or Sortie")
	}
	if !m.Amount.IsPositive() {
		return invalid("amount", "must be greater than zero")
	}
	if strings.TrimSpace(m.Mode) == "" {
		return invalid("mode", "required")
	}
	if strings.TrimSpace(m.Category) == "" {
		return invalid("category", "required")
	}
	return nil
}

// Signed returns the movement amount with outflows negated.
func (m TreasuryMovement) Signed() decimal.Decimal {
	if m.Kind == Outflow {
		return m.Amount.Neg()
	}
	return m.Amount
}

func (s StockItem) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid("name", "required")
	}
	if s.Quantity.IsNegative() {
		return invalid("quantity", "must not be negative")
	}
	if s.AlertThreshold.IsNegative() {
		return invalid("alert_threshold", "must not be negative")
	}
	return nil
}

// IsLow reports whether the item is at or below its alert threshold.
func (s StockItem) IsLow() bool {
	return s.Quantity.LessThanOrEqual(s.AlertThreshold)
}

func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name", "required")
	}
	if len(r.Ingredients) == 0 {
		return invalid("ingredients", "at least one ingredient is required")
	}
	seen := make(map[string]string, len(r.Ingredients))
	for _, name := range sortedNames(r.Ingredients) {
		key := IngredientKey(name)
		if key == "" {
			return invalid("ingredients", "ingredient name required")
		}
		if other, dup := seen[key]; dup {
			return invalid("ingredients", "duplicate ingredient "+other+" and "+name)
		}
		seen[key] = name
		if r.Ingredients[name].IsNegative() {
			return invalid("ingredients", "quantity for "+name+" must not be negative")
		}
	}
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e Employee) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return invalid("name", "required")
	}
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"hours_month", e.HoursMonth},
		{"hours_week", e.HoursWeek},
		{"overtime_hours", e.OvertimeHours},
		{"bonus", e.Bonus},
	}
	for _, f := range fields {
		if f.value.IsNegative() {
			return invalid(f.name, "must not be negative")
		}
	}
	return nil
}

func (d Dish) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "required")
	}
	if !d.Price.IsPositive() {
		return invalid("price", "must be greater than zero")
	}
	return nil
}
