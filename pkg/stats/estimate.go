// Package stats implements the significance tests and the shared normal
// distribution primitives used by the A/B evaluation engine.
package stats

import (
	"encoding/json"
	"errors"
	"math"
)

// ErrInvalidInput indicates a precondition violation in test inputs. These
// are fatal to the evaluation call; nothing is silently clamped.
var ErrInvalidInput = errors.New("invalid input")

// Estimate holds the outcome of a significance test for one metric: the
// absolute and relative uplift of the variant over the control, the two-sided
// p-value, and a 95% confidence interval for the absolute difference.
type Estimate struct {
	Absolute    float64 `json:"absolute"`
	RelativePct float64 `json:"relativePct"` // NaN when the control value is exactly zero
	PValue      float64 `json:"pValue"`
	CILow       float64 `json:"ciLow"`
	CIHigh      float64 `json:"ciHigh"`
}

// MarshalJSON encodes a NaN relative uplift (zero control value) as null,
// since JSON has no representation for NaN.
func (e Estimate) MarshalJSON() ([]byte, error) {
	var relative *float64
	if !math.IsNaN(e.RelativePct) {
		relative = &e.RelativePct
	}
	return json.Marshal(struct {
		Absolute    float64  `json:"absolute"`
		RelativePct *float64 `json:"relativePct"`
		PValue      float64  `json:"pValue"`
		CILow       float64  `json:"ciLow"`
		CIHigh      float64  `json:"ciHigh"`
	}{e.Absolute, relative, e.PValue, e.CILow, e.CIHigh})
}
