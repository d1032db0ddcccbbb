package store

import "github.com/shopspring/decimal"

// fracDigits is the scale of public_assets.market_value.
const fracDigits = 8

// Round8 rounds a price to exactly 8 fractional digits, half up. Prices are
// always positive here, so decimal's round-half-away-from-zero is half-up.
// The result is a fixed point of the rounding: applying it again changes
// nothing.
func Round8(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(fracDigits)
}
