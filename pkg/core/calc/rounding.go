package calc

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Round rounds half-to-even at the given number of decimal places, using the
// exact binary value of v: 2.675 is stored as 2.67499... and rounds to 2.67.
// Non-finite values are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return exact(v).RoundBank(places).InexactFloat64()
}

// exact converts v without the shortest-representation rounding of
// decimal.NewFromFloat. 1074 fractional digits cover every float64.
func exact(v float64) decimal.Decimal {
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', 1074, 64))
	if err != nil {
		return decimal.NewFromFloat(v)
	}
	return d
}

// RoundUnits rounds to whole currency units.
func RoundUnits(v float64) float64 {
	return Round(v, 0)
}
