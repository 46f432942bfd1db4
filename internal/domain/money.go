package domain

import "github.com/shopspring/decimal"

// MinorUnits converts a major-unit amount to integer minor units the way
// the processor expects: value = total x 100, truncated. The processor
// protocol fixes the x100 scale for every currency, so no per-currency
// exponent table applies.
// Examples: 49.99 -> 4999, 100 -> 10000.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// FromMinorUnits converts an integer minor-unit value back to a
// major-unit decimal, for display and audit records.
func FromMinorUnits(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Shift(-2)
}
