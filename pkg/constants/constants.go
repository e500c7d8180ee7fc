// Package constants provides shared constants for the A/B revenue forecast
// application.
package constants

// Statistical constants
const (
	// SignificanceLevel is the alpha threshold for declaring a result
	// statistically significant.
	SignificanceLevel = 0.05

	// ConfidenceLevel is the confidence level for all reported intervals.
	ConfidenceLevel = 0.95

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size for
	// evaluation requests (64 KB)
	DefaultMaxRequestSizeBytes int64 = 64 * 1024
)

// Experiment defaults applied when config fields are omitted. These mirror
// the tool's documented example scenario.
const (
	// DefaultVisitors is the default per-arm sample size
	DefaultVisitors = 10000

	// DefaultDailyTraffic is the default projected daily visitor count
	DefaultDailyTraffic = 5000

	// DefaultHorizonDays is the default forecast period in days
	DefaultHorizonDays = 90
)

// Validation constants
const (
	// MaxReasonableHorizonDays is the horizon beyond which a warning is issued;
	// longer horizons compute fine but the linear-decay assumption gets thin.
	MaxReasonableHorizonDays = 3000
)
