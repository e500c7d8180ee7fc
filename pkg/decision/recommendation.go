// Package decision maps significance outcomes to a rollout recommendation.
package decision

import "github.com/benkpearse/TLrevprojection/pkg/constants"

// Recommendation is the rollout verdict for an experiment.
type Recommendation string

const (
	RollOut      Recommendation = "ROLL_OUT"
	Caution      Recommendation = "CAUTION"
	DoNotRollOut Recommendation = "DO_NOT_ROLL_OUT"
)

// Significant reports whether a test outcome is a statistically significant
// improvement: p strictly below the significance level and a positive
// uplift. Equality with the threshold counts as not significant.
func Significant(pValue, uplift float64) bool {
	return pValue < constants.SignificanceLevel && uplift > 0
}

// Recommend maps the rate and value test outcomes to a recommendation:
// both significant improvements ⇒ RollOut, exactly one ⇒ Caution,
// neither ⇒ DoNotRollOut.
func Recommend(ratePValue, rateUplift, valuePValue, valueUplift float64) Recommendation {
	rateSig := Significant(ratePValue, rateUplift)
	valueSig := Significant(valuePValue, valueUplift)

	switch {
	case rateSig && valueSig:
		return RollOut
	case rateSig || valueSig:
		return Caution
	default:
		return DoNotRollOut
	}
}

// RecommendRateOnly is the degraded rule used when the experiment carries no
// value metric: the rate test alone decides, with no middle ground.
func RecommendRateOnly(ratePValue, rateUplift float64) Recommendation {
	if Significant(ratePValue, rateUplift) {
		return RollOut
	}
	return DoNotRollOut
}
