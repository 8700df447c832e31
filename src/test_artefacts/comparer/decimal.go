package comparer

import (
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// Decimal compares decimals by numeric value instead of internal
// representation, so 10 and 10.00 match.
func Decimal() cmp.Option {
	return cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	})
}
