// Package core provides money parsing and handling utilities.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxCents guards the int64 minor-unit representation against overflow when
// shifting two decimal places.
var maxCents = decimal.NewFromInt(1<<62 - 1)

// ParseAmountToCents converts a decimal amount string to integer minor units
// with half-up rounding on the third decimal place. It accepts both dot
// (12.34) and comma (12,34) separators. Returns an error for malformed input,
// negative values, or zero amounts.
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	shifted := d.Shift(2).Round(0)
	if shifted.GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	cents := shifted.IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatCents renders minor units as a two-decimal amount string, the form
// used in CSV exports ("1234" -> "12.34").
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// AmountOf returns the display value of minor units as a float64. Reports
// serialize totals with this; arithmetic stays on cents.
func AmountOf(cents int64) float64 {
	return float64(cents) / 100.0
}
