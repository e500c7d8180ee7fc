// Package revenue turns per-metric estimates into daily revenue figures and
// projects them over a forecast horizon with linear uplift decay.
package revenue

import (
	"fmt"
	"math"

	"github.com/benkpearse/TLrevprojection/pkg/stats"
)

// Config holds the forecast parameters for one projection run.
type Config struct {
	DailyTraffic  int     // projected visitors per day
	HorizonDays   int     // number of days to project
	DecayFraction float64 // fraction of the initial lift lost by the final day, in [0,1]
}

// Validate checks the projection preconditions.
func (c Config) Validate() error {
	if c.DailyTraffic < 1 {
		return fmt.Errorf("%w: daily traffic must be >= 1, got %d", stats.ErrInvalidInput, c.DailyTraffic)
	}
	if c.HorizonDays < 1 {
		return fmt.Errorf("%w: horizon must be >= 1 day, got %d", stats.ErrInvalidInput, c.HorizonDays)
	}
	if c.DecayFraction < 0 || c.DecayFraction > 1 || math.IsNaN(c.DecayFraction) {
		return fmt.Errorf("%w: decay fraction must be within [0,1], got %v", stats.ErrInvalidInput, c.DecayFraction)
	}
	return nil
}

// DailyRevenue returns the expected revenue from one day of traffic at the
// given conversion rate and average value per conversion.
func DailyRevenue(dailyTraffic float64, rate, value float64) float64 {
	return dailyTraffic * rate * value
}

// Lift bundles the three initial daily lift figures fed to the projector:
// the point estimate and the lifts obtained by substituting the rate
// confidence bounds into the variant revenue formula.
type Lift struct {
	Mean  float64
	Lower float64
	Upper float64
}

// Day is one row of the projected series. Cumulative values include the
// current day.
type Day struct {
	Day                    int     `json:"day"`
	ControlCumulative      float64 `json:"controlCumulative"`
	VariantCumulative      float64 `json:"variantCumulative"`
	VariantLowerCumulative float64 `json:"variantLowerCumulative"`
	VariantUpperCumulative float64 `json:"variantUpperCumulative"`
}

// Series is the full projection, ordered by day index from 0.
type Series []Day

// Final returns the last row of the series.
func (s Series) Final() Day {
	if len(s) == 0 {
		return Day{}
	}
	return s[len(s)-1]
}

// Project expands the initial daily lifts into cumulative revenue series
// over the configured horizon. The lift decays linearly from its full value
// on day 0 to (1 - DecayFraction) of it on the final day; a one-day horizon
// applies no decay. The control series accumulates the constant baseDaily,
// so it grows exactly linearly regardless of decay.
func Project(baseDaily float64, lift Lift, cfg Config) (Series, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	series := make(Series, cfg.HorizonDays)
	var control, mean, lower, upper float64
	for day := 0; day < cfg.HorizonDays; day++ {
		progress := 0.0
		if cfg.HorizonDays > 1 {
			progress = float64(day) / float64(cfg.HorizonDays-1)
		}
		decay := 1 - cfg.DecayFraction*progress

		control += baseDaily
		mean += baseDaily + lift.Mean*decay
		lower += baseDaily + lift.Lower*decay
		upper += baseDaily + lift.Upper*decay

		series[day] = Day{
			Day:                    day,
			ControlCumulative:      control,
			VariantCumulative:      mean,
			VariantLowerCumulative: lower,
			VariantUpperCumulative: upper,
		}
	}
	return series, nil
}
