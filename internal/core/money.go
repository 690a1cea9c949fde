// Package core holds the wallet reporting domain: transactions, filters,
// period cursors, aggregation windows and money handling.
//
// This file contains amount parsing and formatting helpers. Amounts are
// decimal values with two-decimal currency rounding; sign is carried by the
// transaction type, never by a negative amount.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a positive two-decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding on the third decimal place. Returns an error
// for invalid formats, negative values, or zero amounts.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with exactly two decimals for display
// and export. Calculations stay on decimal.Decimal; this is output only.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
