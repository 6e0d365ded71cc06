package quantity

import (
	"math"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places computed quantities keep.
const Precision = 3

// Round rounds v to Precision decimals, half away from zero, operating on
// the shortest decimal representation of v. 2.0625 becomes 2.063 and
// 1.0005 becomes 1.001 even though 1.0005 is stored slightly below the tie
// in binary. Non-finite values are returned unchanged.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(Precision).InexactFloat64()
}
