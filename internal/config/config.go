// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/benkpearse/TLrevprojection/pkg/constants"
	"github.com/benkpearse/TLrevprojection/pkg/stats"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for an evaluation run.
type Configuration struct {
	Experiment ExperimentConfig
	Forecast   ForecastConfig
	Logging    LoggingConfig `yaml:"logging,omitempty"`
	Output     OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// ExperimentConfig holds the observed A/B test results for both arms.
// Inputs are in the percent domain as users report them; conversion to
// fractions happens when the evaluation input is built.
type ExperimentConfig struct {
	Name    string
	Control ArmConfig
	Variant ArmConfig
}

// ArmConfig holds the observed metrics for one experiment arm. The value
// metric (average order value and its standard deviation) is optional; when
// both arms leave AvgOrderValue at zero the experiment is evaluated on the
// conversion rate alone.
type ArmConfig struct {
	ConversionRatePct float64 `mapstructure:"conversionRatePct" yaml:"conversionRatePct"`
	Visitors          int     `mapstructure:"visitors" yaml:"visitors"`
	AvgOrderValue     float64 `mapstructure:"avgOrderValue" yaml:"avgOrderValue,omitempty"`
	ValueStdDev       float64 `mapstructure:"valueStdDev" yaml:"valueStdDev,omitempty"`
}

// ForecastConfig holds the revenue projection settings.
type ForecastConfig struct {
	DailyTraffic int     `mapstructure:"dailyTraffic" yaml:"dailyTraffic"`
	HorizonDays  int     `mapstructure:"horizonDays" yaml:"horizonDays"`
	DecayPct     float64 `mapstructure:"decayPct" yaml:"decayPct,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ApplyDefaults fills omitted fields with the documented example defaults.
func (c *Configuration) ApplyDefaults() {
	if c.Experiment.Control.Visitors == 0 {
		c.Experiment.Control.Visitors = constants.DefaultVisitors
	}
	if c.Experiment.Variant.Visitors == 0 {
		c.Experiment.Variant.Visitors = constants.DefaultVisitors
	}
	if c.Forecast.DailyTraffic == 0 {
		c.Forecast.DailyTraffic = constants.DefaultDailyTraffic
	}
	if c.Forecast.HorizonDays == 0 {
		c.Forecast.HorizonDays = constants.DefaultHorizonDays
	}
}

// HasValueMetric reports whether the experiment carries the average-value
// metric. Absent value inputs degrade the evaluation to rate-only mode.
func (c *Configuration) HasValueMetric() bool {
	return c.Experiment.Control.AvgOrderValue > 0 || c.Experiment.Variant.AvgOrderValue > 0
}

func validateArm(name string, arm ArmConfig) error {
	if arm.ConversionRatePct < 0 || arm.ConversionRatePct > 100 {
		return fmt.Errorf("%w: %s conversion rate must be within [0,100]%%, got %v",
			stats.ErrInvalidInput, name, arm.ConversionRatePct)
	}
	if arm.Visitors < 1 {
		return fmt.Errorf("%w: %s visitors must be >= 1, got %d",
			stats.ErrInvalidInput, name, arm.Visitors)
	}
	if arm.AvgOrderValue < 0 {
		return fmt.Errorf("%w: %s average order value must be >= 0, got %v",
			stats.ErrInvalidInput, name, arm.AvgOrderValue)
	}
	if arm.ValueStdDev < 0 {
		return fmt.Errorf("%w: %s value standard deviation must be >= 0, got %v",
			stats.ErrInvalidInput, name, arm.ValueStdDev)
	}
	return nil
}

// Validate checks all hard preconditions. A violation aborts the run;
// nothing is clamped.
func (c *Configuration) Validate() error {
	if err := validateArm("control", c.Experiment.Control); err != nil {
		return err
	}
	if err := validateArm("variant", c.Experiment.Variant); err != nil {
		return err
	}
	if c.Forecast.DailyTraffic < 1 {
		return fmt.Errorf("%w: daily traffic must be >= 1, got %d",
			stats.ErrInvalidInput, c.Forecast.DailyTraffic)
	}
	if c.Forecast.HorizonDays < 1 {
		return fmt.Errorf("%w: horizon must be >= 1 day, got %d",
			stats.ErrInvalidInput, c.Forecast.HorizonDays)
	}
	if c.Forecast.DecayPct < 0 || c.Forecast.DecayPct > 100 {
		return fmt.Errorf("%w: decay must be within [0,100]%%, got %v",
			stats.ErrInvalidInput, c.Forecast.DecayPct)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns advisory warnings. Hard errors are reported by Validate.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Forecast.HorizonDays > constants.MaxReasonableHorizonDays {
		warnings = append(warnings, fmt.Sprintf(
			"Forecast horizon of %d days is unusually long; the linear decay model assumes fading novelty over at most a few thousand days",
			c.Forecast.HorizonDays))
	}

	if c.HasValueMetric() {
		if c.Experiment.Control.ValueStdDev == 0 && c.Experiment.Variant.ValueStdDev == 0 {
			warnings = append(warnings,
				"Value metric provided without standard deviations; the value significance test will report insufficient evidence (p = 1)")
		}
		if c.Experiment.Control.AvgOrderValue == 0 || c.Experiment.Variant.AvgOrderValue == 0 {
			warnings = append(warnings,
				"Only one arm has an average order value; supply both for a meaningful value comparison")
		}
	}

	minVisitors := c.Experiment.Control.Visitors
	if c.Experiment.Variant.Visitors < minVisitors {
		minVisitors = c.Experiment.Variant.Visitors
	}
	if minVisitors > 0 && minVisitors < 100 {
		warnings = append(warnings, fmt.Sprintf(
			"Sample size of %d visitors is small; the normal approximation behind the significance tests is unreliable below a few hundred visitors per arm",
			minVisitors))
	}

	return warnings
}
