// Package output provides utilities for formatting and displaying
// evaluation results.
package output

import (
	"fmt"
	"math"

	"github.com/benkpearse/TLrevprojection/internal/evaluate"
	"github.com/benkpearse/TLrevprojection/pkg/constants"
	"github.com/benkpearse/TLrevprojection/pkg/decision"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func formatRelative(pct float64) string {
	if math.IsNaN(pct) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", pct)
}

func verdict(pValue, uplift float64) string {
	if decision.Significant(pValue, uplift) {
		return "statistically significant improvement"
	}
	return "not statistically significant; treat projections with caution"
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(result *evaluate.Result) {
	p := message.NewPrinter(language.English)

	name := result.Name
	if name == "" {
		name = "experiment"
	}
	fmt.Printf("--- Results for %s ---\n", name)

	rate := result.RateResult
	fmt.Printf("Conversion rate: %+.2f p.p. (%s), p-value %.4f — %s\n",
		rate.Absolute*constants.PercentageMultiplier,
		formatRelative(rate.RelativePct),
		rate.PValue,
		verdict(rate.PValue, rate.Absolute),
	)
	fmt.Printf("  95%% CI for absolute difference: [%+.2f, %+.2f] p.p.\n",
		rate.CILow*constants.PercentageMultiplier,
		rate.CIHigh*constants.PercentageMultiplier,
	)

	if result.ValueResult != nil {
		value := *result.ValueResult
		_, _ = p.Printf("Average order value: $%+.2f (%s), p-value %.4f — %s\n",
			value.Absolute,
			formatRelative(value.RelativePct),
			value.PValue,
			verdict(value.PValue, value.Absolute),
		)
		_, _ = p.Printf("  95%% CI for absolute difference: [$%+.2f, $%+.2f]\n", value.CILow, value.CIHigh)
	} else {
		fmt.Printf("Average order value: no value metric supplied; series below counts conversions\n")
	}

	fmt.Printf("Recommendation: %s\n\n", result.Recommendation)

	_, _ = p.Printf("Projected control total:  $%.2f\n", result.ControlTotal)
	_, _ = p.Printf("Projected variant total:  $%.2f\n", result.VariantTotal)
	_, _ = p.Printf("Projected revenue lift:   $%.2f\n\n", result.LiftTotal)

	fmt.Printf("Day  | Control       | Variant       | Lower bound   | Upper bound\n")
	fmt.Printf("____ | _____________ | _____________ | _____________ | _____________\n")
	for _, day := range result.Series {
		_, _ = p.Printf("%4d | $%.2f | $%.2f | $%.2f | $%.2f\n",
			day.Day+1,
			day.ControlCumulative,
			day.VariantCumulative,
			day.VariantLowerCumulative,
			day.VariantUpperCumulative,
		)
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *evaluate.Result) {
	fmt.Printf(`"day","control cumulative","variant cumulative","variant lower cumulative","variant upper cumulative"`)
	fmt.Printf("\n")
	for _, day := range result.Series {
		fmt.Printf(`"%d","%.2f","%.2f","%.2f","%.2f"`,
			day.Day+1,
			day.ControlCumulative,
			day.VariantCumulative,
			day.VariantLowerCumulative,
			day.VariantUpperCumulative,
		)
		fmt.Printf("\n")
	}
}
