// Package core holds the domain types and the pure computations of the
// budget engine: period resolution, amount handling and budget math.
//
// This file contains amount parsing and the percentage arithmetic used by
// budget evaluation. Amounts are decimal.Decimal throughout; floats never
// touch money.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for malformed input or negative values.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Percentage returns spent/amount*100 rounded half-up to 2 decimal
// places, or zero when amount is not positive.
func Percentage(spent, amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	return rawPercentage(spent, amount).Round(2)
}

// rawPercentage is the unrounded ratio, kept separate so the alert
// message can round to a whole percent without double rounding.
func rawPercentage(spent, amount decimal.Decimal) decimal.Decimal {
	return spent.Mul(decimal.NewFromInt(100)).Div(amount)
}

// AlertMessage renders the human-readable overspend warning for a budget
// whose consumption ratio reached its threshold. The percentage in the
// text is rounded to a whole number.
func AlertMessage(spent, amount decimal.Decimal) string {
	pct := decimal.Zero
	if amount.IsPositive() {
		pct = rawPercentage(spent, amount)
	}
	return fmt.Sprintf("Has alcanzado el %s%% de tu presupuesto", pct.Round(0).String())
}
