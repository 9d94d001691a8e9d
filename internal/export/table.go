// Package export renders ledger data as flat tables and writes them as CSV,
// XLSX or PDF. Amounts are rendered with two decimals using banker's
// rounding; quantities keep their full precision.
package export

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"saba/internal/core"
	"saba/internal/inventory"
	"saba/internal/payroll"
)

// Table is a named grid of rendered cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

func amount(d decimal.Decimal) string { return core.FormatAmount(d) }

func Sales(rows []core.Sale) Table {
	t := Table{
		Name:   "Ventes",
		Header: []string{"Date", "Produit", "Quantité", "Prix unitaire", "Total", "Mode de paiement"},
	}
	for _, s := range rows {
		t.Rows = append(t.Rows, []string{
			s.Date.String(), s.Product, strconv.Itoa(s.Quantity),
			amount(s.UnitPrice), amount(s.Total), s.PaymentMode,
		})
	}
	return t
}

func Purchases(rows []core.Purchase) Table {
	t := Table{
		Name: "Achats",
		Header: []string{
			"Date", "Fournisseur", "Produit", "Quantité", "Unité",
			"Prix unitaire", "Total", "Mode de paiement", "Catégorie",
		},
	}
	for _, p := range rows {
		t.Rows = append(t.Rows, []string{
			p.Date.String(), p.Supplier, p.Product, p.Quantity.String(), p.Unit,
			amount(p.UnitPrice), amount(p.Total), p.PaymentMode, p.Category,
		})
	}
	return t
}

func Treasury(rows []core.TreasuryMovement) Table {
	t := Table{
		Name:   "Trésorerie",
		Header: []string{"Date", "Libellé", "Type", "Montant", "Mode", "Catégorie"},
	}
	for _, m := range rows {
		t.Rows = append(t.Rows, []string{
			m.Date.String(), m.Label, string(m.Kind), amount(m.Amount), m.Mode, m.Category,
		})
	}
	return t
}

// Stock lists items by name with their alert status.
func Stock(stock map[string]core.StockItem) Table {
	t := Table{
		Name:   "Stock",
		Header: []string{"Produit", "Quantité", "Unité", "Seuil d'alerte", "Statut"},
	}
	for _, name := range sortedKeys(stock) {
		it := stock[name]
		t.Rows = append(t.Rows, []string{
			name, it.Quantity.String(), it.Unit, it.AlertThreshold.String(),
			string(inventory.StockStatus(it)),
		})
	}
	return t
}

func Recipes(recipes map[string]core.Recipe) Table {
	t := Table{
		Name:   "Recettes",
		Header: []string{"Recette", "Conservation", "Ingrédients", "Étapes"},
	}
	for _, name := range sortedKeys(recipes) {
		r := recipes[name]
		parts := make([]string, 0, len(r.Ingredients))
		for _, ing := range sortedKeys(r.Ingredients) {
			parts = append(parts, ing+": "+r.Ingredients[ing].String())
		}
		t.Rows = append(t.Rows, []string{name, r.ShelfLife, strings.Join(parts, "; "), r.Steps})
	}
	return t
}

func Employees(employees map[string]core.Employee) Table {
	t := Table{
		Name: "Employés",
		Header: []string{
			"Nom", "Contrat", "Heures mois", "Heures semaine",
			"Heures sup", "Prime", "Absences", "Pointage",
		},
	}
	for _, name := range sortedKeys(employees) {
		e := employees[name]
		t.Rows = append(t.Rows, []string{
			name, e.Contract, e.HoursMonth.String(), e.HoursWeek.String(),
			e.OvertimeHours.String(), amount(e.Bonus), e.Absences, e.ClockLog,
		})
	}
	return t
}

// Schedule has one row per shift, days in week order.
func Schedule(week core.WeeklySchedule) Table {
	t := Table{
		Name:   "Planning",
		Header: []string{"Jour", "Employé", "Horaire"},
	}
	for _, day := range core.Weekdays {
		for _, name := range sortedKeys(week[day]) {
			t.Rows = append(t.Rows, []string{day, name, week[day][name]})
		}
	}
	return t
}

// BankBalances has one row per account and one column per month.
// Months without a balance are left blank.
func BankBalances(b core.BankBalances) Table {
	t := Table{
		Name:   "Comptes bancaires",
		Header: append([]string{"Compte"}, core.MonthLabels...),
	}
	for _, account := range sortedKeys(b) {
		row := []string{account}
		for _, month := range core.MonthLabels {
			if v, ok := b[account][month]; ok {
				row = append(row, amount(v))
			} else {
				row = append(row, "")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func Dishes(dishes map[string]core.Dish) Table {
	t := Table{Name: "Plats", Header: []string{"Plat", "Prix"}}
	for _, name := range sortedKeys(dishes) {
		t.Rows = append(t.Rows, []string{name, amount(dishes[name].Price)})
	}
	return t
}

// Payroll has one row per payslip followed by a totals row.
func Payroll(res payroll.Result) Table {
	t := Table{
		Name: "Paie",
		Header: []string{
			"Employé", "Heures", "Heures sup", "Prime",
			"Salaire brut", "Cotisations", "Salaire net",
		},
	}
	for _, p := range res.Payslips {
		t.Rows = append(t.Rows, []string{
			p.Employee, p.Hours.String(), p.OvertimeHours.String(), amount(p.Bonus),
			amount(p.Gross), amount(p.Contribution), amount(p.Net),
		})
	}
	t.Rows = append(t.Rows, []string{
		"Total", "", "", "",
		amount(res.Totals.Gross), amount(res.Totals.Contribution), amount(res.Totals.Net),
	})
	return t
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
