package number

import (
	"github.com/shopspring/decimal"
)

// Decimal parse decimal literal, invalid input yields zero
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Ceil round up at precision
func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// Percent ratio as percent, truncated at precision
func Percent(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(2).Truncate(precision)
}
