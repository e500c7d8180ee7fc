// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/benkpearse/TLrevprojection/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// FractionFromPercent converts a percentage in [0,100] to a fraction in [0,1]
func FractionFromPercent(pct float64) float64 {
	return pct / constants.PercentageMultiplier
}
