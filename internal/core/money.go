// Package core provides money parsing and handling utilities.
//
// Amounts and quantities are kept as decimals at full precision. Rounding is
// applied only when a value is rendered or exported.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of decimal places used when rendering amounts.
const DisplayPlaces = 2

// ParseAmount converts a user-entered decimal string to a decimal value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, surrounding
// whitespace, and an optional thousands separator made of spaces ("1 250,50").
// Negative values are rejected; zero is accepted and left to the caller's
// validation rules.
//
// Examples:
//
//	ParseAmount("12.34")    -> 12.34
//	ParseAmount("12,34")    -> 12.34
//	ParseAmount("1 250,5")  -> 1250.5
func ParseAmount(s string) (decimal.Decimal, error) {
	return parseDecimal(s, false)
}

// ParseSignedAmount is ParseAmount that also accepts a leading minus sign,
// used for balances that may legitimately be negative.
func ParseSignedAmount(s string) (decimal.Decimal, error) {
	return parseDecimal(s, true)
}

func parseDecimal(s string, allowNegative bool) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		if !allowNegative {
			return decimal.Zero, ErrInvalidAmount
		}
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	intPart, fracPart := parts[0], ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	if fracPart != "" {
		intPart += "." + fracPart
	}
	d, err := decimal.NewFromString(intPart)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// Round2 applies round half-to-even at two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(DisplayPlaces)
}

// FormatAmount renders d with exactly two decimals using banker's rounding.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixedBank(DisplayPlaces)
}

// FormatEuros renders d as a euro amount for display, e.g. "12,34 €".
func FormatEuros(d decimal.Decimal) string {
	return strings.Replace(FormatAmount(d), ".", ",", 1) + " €"
}
