// Package evaluate orchestrates the significance tests, the uplift model,
// and the revenue projection into a single evaluation of an A/B experiment.
package evaluate

import (
	"github.com/benkpearse/TLrevprojection/internal/config"
	"github.com/benkpearse/TLrevprojection/pkg/decision"
	"github.com/benkpearse/TLrevprojection/pkg/mathutil"
	"github.com/benkpearse/TLrevprojection/pkg/revenue"
	"github.com/benkpearse/TLrevprojection/pkg/stats"
	"go.uber.org/zap"
)

// ArmInput holds one experiment arm in the fraction domain.
type ArmInput struct {
	ConversionRate float64 // fraction in [0,1]
	Visitors       int
	AvgValue       float64
	ValueStdDev    float64
}

// Input is the full evaluation request. When HasValueMetric is false the
// value significance test is skipped, the recommendation depends on the rate
// test alone, and the projection treats each conversion as one unit of value
// (the series then counts conversions rather than revenue).
type Input struct {
	Name           string
	Control        ArmInput
	Variant        ArmInput
	Forecast       revenue.Config
	HasValueMetric bool
}

// Result is the immutable outcome bundle of one evaluation. Callers hold on
// to it for re-display; the engine keeps no state between calls.
type Result struct {
	Name           string                  `json:"name,omitempty"`
	RateResult     stats.Estimate          `json:"rateResult"`
	ValueResult    *stats.Estimate         `json:"valueResult,omitempty"`
	Series         revenue.Series          `json:"series"`
	Recommendation decision.Recommendation `json:"recommendation"`
	ControlTotal   float64                 `json:"controlTotal"`
	VariantTotal   float64                 `json:"variantTotal"`
	LiftTotal      float64                 `json:"liftTotal"`
}

// FromConfiguration converts a validated configuration into an evaluation
// input, moving all percent-domain numbers into fractions.
func FromConfiguration(conf config.Configuration) Input {
	return Input{
		Name: conf.Experiment.Name,
		Control: ArmInput{
			ConversionRate: mathutil.FractionFromPercent(conf.Experiment.Control.ConversionRatePct),
			Visitors:       conf.Experiment.Control.Visitors,
			AvgValue:       conf.Experiment.Control.AvgOrderValue,
			ValueStdDev:    conf.Experiment.Control.ValueStdDev,
		},
		Variant: ArmInput{
			ConversionRate: mathutil.FractionFromPercent(conf.Experiment.Variant.ConversionRatePct),
			Visitors:       conf.Experiment.Variant.Visitors,
			AvgValue:       conf.Experiment.Variant.AvgOrderValue,
			ValueStdDev:    conf.Experiment.Variant.ValueStdDev,
		},
		Forecast: revenue.Config{
			DailyTraffic:  conf.Forecast.DailyTraffic,
			HorizonDays:   conf.Forecast.HorizonDays,
			DecayFraction: mathutil.FractionFromPercent(conf.Forecast.DecayPct),
		},
		HasValueMetric: conf.HasValueMetric(),
	}
}

// Evaluate runs the full pipeline: rate and value significance tests, daily
// uplift construction, decayed revenue projection, and the rollout
// recommendation.
//
// The projection's uncertainty band substitutes only the rate confidence
// bounds into the variant revenue formula, holding the value metric at its
// point estimate; value-metric uncertainty is reported separately through
// its own interval.
func Evaluate(logger *zap.Logger, in Input) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rateResult, err := stats.TwoProportionZTest(
		stats.RateSample{Rate: in.Control.ConversionRate, Count: in.Control.Visitors},
		stats.RateSample{Rate: in.Variant.ConversionRate, Count: in.Variant.Visitors},
	)
	if err != nil {
		return nil, err
	}
	logger.Debug("rate significance test complete",
		zap.String("op", "evaluate.Evaluate"),
		zap.Float64("pValue", rateResult.PValue),
		zap.Float64("absoluteUplift", rateResult.Absolute),
	)

	result := &Result{
		Name:       in.Name,
		RateResult: rateResult,
	}

	controlValue := in.Control.AvgValue
	variantValue := in.Variant.AvgValue
	if in.HasValueMetric {
		// Effective observation counts for the value metric are the
		// conversions behind each mean, derived here from the rate inputs so
		// the tester itself stays metric-agnostic.
		valueResult, valueErr := stats.WelchTTest(
			stats.ValueSample{
				Mean:   in.Control.AvgValue,
				StdDev: in.Control.ValueStdDev,
				Count:  in.Control.ConversionRate * float64(in.Control.Visitors),
			},
			stats.ValueSample{
				Mean:   in.Variant.AvgValue,
				StdDev: in.Variant.ValueStdDev,
				Count:  in.Variant.ConversionRate * float64(in.Variant.Visitors),
			},
		)
		if valueErr != nil {
			return nil, valueErr
		}
		result.ValueResult = &valueResult
		result.Recommendation = decision.Recommend(
			rateResult.PValue, rateResult.Absolute,
			valueResult.PValue, valueResult.Absolute,
		)
		logger.Debug("value significance test complete",
			zap.String("op", "evaluate.Evaluate"),
			zap.Float64("pValue", valueResult.PValue),
			zap.Float64("absoluteUplift", valueResult.Absolute),
		)
	} else {
		// Without a value metric each conversion counts as one unit, so the
		// projected series tracks conversions instead of revenue.
		controlValue = 1
		variantValue = 1
		result.Recommendation = decision.RecommendRateOnly(rateResult.PValue, rateResult.Absolute)
	}

	traffic := float64(in.Forecast.DailyTraffic)
	baseDaily := revenue.DailyRevenue(traffic, in.Control.ConversionRate, controlValue)
	variantDaily := revenue.DailyRevenue(traffic, in.Variant.ConversionRate, variantValue)
	lift := revenue.Lift{
		Mean:  variantDaily - baseDaily,
		Lower: revenue.DailyRevenue(traffic, in.Control.ConversionRate+rateResult.CILow, variantValue) - baseDaily,
		Upper: revenue.DailyRevenue(traffic, in.Control.ConversionRate+rateResult.CIHigh, variantValue) - baseDaily,
	}

	series, err := revenue.Project(baseDaily, lift, in.Forecast)
	if err != nil {
		return nil, err
	}
	result.Series = series

	final := series.Final()
	result.ControlTotal = final.ControlCumulative
	result.VariantTotal = final.VariantCumulative
	result.LiftTotal = final.VariantCumulative - final.ControlCumulative

	logger.Debug("projection complete",
		zap.String("op", "evaluate.Evaluate"),
		zap.Int("horizonDays", in.Forecast.HorizonDays),
		zap.Float64("projectedLift", result.LiftTotal),
		zap.String("recommendation", string(result.Recommendation)),
	)

	return result, nil
}
