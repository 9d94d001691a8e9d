package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Days of the weekly schedule, in display order.
var Weekdays = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}

// Month labels used for bank balances, in calendar order.
var MonthLabels = []string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// WeeklySchedule maps day -> employee name -> free-text shift ("9h-14h").
type WeeklySchedule map[string]map[string]string

// BankBalances maps account name -> month label -> end-of-month balance.
type BankBalances map[string]map[string]decimal.Decimal

// NormalizeWeekday returns the canonical day label, or "" when s is not a day.
func NormalizeWeekday(s string) string {
	return matchLabel(Weekdays, s)
}

// NormalizeMonth returns the canonical month label, or "" when s is not a month.
func NormalizeMonth(s string) string {
	return matchLabel(MonthLabels, s)
}

// MonthIndex returns the 1-based calendar position of a month label, 0 if unknown.
func MonthIndex(label string) int {
	for i, m := range MonthLabels {
		if m == label {
			return i + 1
		}
	}
	return 0
}

func matchLabel(labels []string, s string) string {
	s = strings.TrimSpace(s)
	for _, l := range labels {
		if strings.EqualFold(l, s) {
			return l
		}
	}
	return ""
}

// Validate checks that every day is a known weekday.
func (w WeeklySchedule) Validate() error {
	for day := range w {
		if NormalizeWeekday(day) != day {
			return invalid("day", "unknown weekday "+day)
		}
	}
	return nil
}

// Normalize returns a copy with all seven days present and shifts trimmed.
func (w WeeklySchedule) Normalize() WeeklySchedule {
	out := make(WeeklySchedule, len(Weekdays))
	for _, day := range Weekdays {
		out[day] = map[string]string{}
		for name, shift := range w[day] {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			out[day][name] = strings.TrimSpace(shift)
		}
	}
	return out
}
