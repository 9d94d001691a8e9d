// Package payroll computes monthly pay from recorded hours.
//
// Values are kept at full precision. Callers round with core.Round2 or
// render with core.FormatAmount when displaying or exporting.
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"

	"saba/internal/core"
)

// Rates are the run-wide parameters. They are not stored per employee.
type Rates struct {
	Hourly           decimal.Decimal `json:"hourly"`
	Overtime         decimal.Decimal `json:"overtime"`
	ContributionRate decimal.Decimal `json:"contribution_rate"` // fraction, e.g. 0.22
}

// DefaultRates returns the rates used when none are configured.
func DefaultRates() Rates {
	return Rates{
		Hourly:           decimal.NewFromInt(12),
		Overtime:         decimal.NewFromInt(18),
		ContributionRate: decimal.RequireFromString("0.22"),
	}
}

func (r Rates) Validate() error {
	if r.Hourly.IsNegative() {
		return &core.ValidationError{Field: "hourly_rate", Reason: "must not be negative"}
	}
	if r.Overtime.IsNegative() {
		return &core.ValidationError{Field: "overtime_rate", Reason: "must not be negative"}
	}
	if r.ContributionRate.IsNegative() || r.ContributionRate.GreaterThan(decimal.NewFromInt(1)) {
		return &core.ValidationError{Field: "contribution_rate", Reason: "must be between 0 and 1"}
	}
	return nil
}

// Payslip is one employee's pay for the month.
type Payslip struct {
	Employee      string          `json:"employee"`
	Hours         decimal.Decimal `json:"hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	OvertimeRate  decimal.Decimal `json:"overtime_rate"`
	Bonus         decimal.Decimal `json:"bonus"`
	Gross         decimal.Decimal `json:"gross"`
	Contribution  decimal.Decimal `json:"contribution"`
	Net           decimal.Decimal `json:"net"`
}

// Totals sums a run.
type Totals struct {
	Gross        decimal.Decimal `json:"gross"`
	Contribution decimal.Decimal `json:"contribution"`
	Net          decimal.Decimal `json:"net"`
}

// Result is a payroll run over every employee.
type Result struct {
	Rates    Rates     `json:"rates"`
	Payslips []Payslip `json:"payslips"`
	Totals   Totals    `json:"totals"`
}

// Compute returns the payslip of a single employee:
//
//	gross        = hours x hourly + overtime hours x overtime rate + bonus
//	contribution = gross x contribution rate
//	net          = gross - contribution
func Compute(e core.Employee, r Rates) Payslip {
	gross := e.HoursMonth.Mul(r.Hourly).
		Add(e.OvertimeHours.Mul(r.Overtime)).
		Add(e.Bonus)
	contribution := gross.Mul(r.ContributionRate)
	return Payslip{
		Employee:      e.Name,
		Hours:         e.HoursMonth,
		OvertimeHours: e.OvertimeHours,
		HourlyRate:    r.Hourly,
		OvertimeRate:  r.Overtime,
		Bonus:         e.Bonus,
		Gross:         gross,
		Contribution:  contribution,
		Net:           gross.Sub(contribution),
	}
}

// Run computes a payslip for every employee, ordered by name.
func Run(employees map[string]core.Employee, r Rates) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}
	names := make([]string, 0, len(employees))
	for name := range employees {
		names = append(names, name)
	}
	sort.Strings(names)

	res := Result{Rates: r, Payslips: make([]Payslip, 0, len(names))}
	for _, name := range names {
		e := employees[name]
		if e.Name == "" {
			e.Name = name
		}
		slip := Compute(e, r)
		res.Payslips = append(res.Payslips, slip)
		res.Totals.Gross = res.Totals.Gross.Add(slip.Gross)
		res.Totals.Contribution = res.Totals.Contribution.Add(slip.Contribution)
		res.Totals.Net = res.Totals.Net.Add(slip.Net)
	}
	return res, nil
}
