package grade

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds x to the given number of decimal places, half away from zero.
// The decimal representation of x is used so that 1.005 rounds to 1.01.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func checkPercent(field string, x float64) error {
	if !isFinite(x) {
		return invalid(field, "must be a valid number")
	}
	if x < 0 || x > 100 {
		return invalid(field, "must be between 0 and 100")
	}
	return nil
}
