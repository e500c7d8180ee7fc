package stats

import (
	"fmt"
	"math"

	"github.com/benkpearse/TLrevprojection/pkg/constants"
)

// RateSample describes one experiment arm of the conversion-rate metric.
type RateSample struct {
	Rate  float64 // observed conversion rate, in [0,1]
	Count int     // visitors exposed to this arm
}

func (s RateSample) validate(arm string) error {
	if s.Count < 1 {
		return fmt.Errorf("%w: %s sample count must be >= 1, got %d", ErrInvalidInput, arm, s.Count)
	}
	if s.Rate < 0 || s.Rate > 1 || math.IsNaN(s.Rate) {
		return fmt.Errorf("%w: %s rate must be within [0,1], got %v", ErrInvalidInput, arm, s.Rate)
	}
	return nil
}

// TwoProportionZTest runs a two-proportion z-test of variant against control.
// The test statistic uses the pooled standard error under the null hypothesis
// that both arms share one true rate; the confidence interval for the
// absolute difference uses the unpooled standard error (Wald interval) at
// the 95% level.
//
// When both rates sit at the same boundary value the pooled standard error
// is zero; the z statistic is defined as 0 there, yielding p = 1 (no
// evidence), never a spurious significant result.
func TwoProportionZTest(control, variant RateSample) (Estimate, error) {
	if err := control.validate("control"); err != nil {
		return Estimate{}, err
	}
	if err := variant.validate("variant"); err != nil {
		return Estimate{}, err
	}

	nc := float64(control.Count)
	nv := float64(variant.Count)
	diff := variant.Rate - control.Rate

	pooled := (control.Rate*nc + variant.Rate*nv) / (nc + nv)
	sePooled := math.Sqrt(pooled * (1 - pooled) * (1/nc + 1/nv))

	z := 0.0
	if sePooled > 0 {
		z = diff / sePooled
	}
	pValue := 2 * (1 - NormalCDF(math.Abs(z)))

	seUnpooled := math.Sqrt(control.Rate*(1-control.Rate)/nc + variant.Rate*(1-variant.Rate)/nv)
	zCrit := CriticalZ(constants.ConfidenceLevel)

	relative := math.NaN()
	if control.Rate != 0 {
		relative = diff / control.Rate * constants.PercentageMultiplier
	}

	return Estimate{
		Absolute:    diff,
		RelativePct: relative,
		PValue:      pValue,
		CILow:       diff - zCrit*seUnpooled,
		CIHigh:      diff + zCrit*seUnpooled,
	}, nil
}
