package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benkpearse/TLrevprojection/pkg/stats"
)

func validConfiguration() Configuration {
	return Configuration{
		Experiment: ExperimentConfig{
			Name: "test experiment",
			Control: ArmConfig{
				ConversionRatePct: 2.5,
				Visitors:          10000,
				AvgOrderValue:     120,
				ValueStdDev:       20,
			},
			Variant: ArmConfig{
				ConversionRatePct: 2.8,
				Visitors:          10000,
				AvgOrderValue:     125,
				ValueStdDev:       22,
			},
		},
		Forecast: ForecastConfig{
			DailyTraffic: 5000,
			HorizonDays:  90,
			DecayPct:     10,
		},
	}
}

func TestLoadConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `experiment:
  name: homepage hero test
  control:
    conversionRatePct: 2.5
    visitors: 10000
    avgOrderValue: 120.0
    valueStdDev: 20.0
  variant:
    conversionRatePct: 2.8
    visitors: 10000
    avgOrderValue: 125.0
    valueStdDev: 22.0
forecast:
  dailyTraffic: 5000
  horizonDays: 90
  decayPct: 10
logging:
  level: debug
  format: console
output:
  format: csv
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Experiment.Name != "homepage hero test" {
		t.Errorf("Expected experiment name 'homepage hero test', got %q", conf.Experiment.Name)
	}
	if conf.Experiment.Control.ConversionRatePct != 2.5 {
		t.Errorf("Expected control rate 2.5%%, got %v", conf.Experiment.Control.ConversionRatePct)
	}
	if conf.Experiment.Variant.Visitors != 10000 {
		t.Errorf("Expected 10000 variant visitors, got %d", conf.Experiment.Variant.Visitors)
	}
	if conf.Forecast.HorizonDays != 90 {
		t.Errorf("Expected 90-day horizon, got %d", conf.Forecast.HorizonDays)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("Expected debug log level, got %q", conf.Logging.Level)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("Expected csv output format, got %q", conf.Output.Format)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Fatalf("Expected error for missing config file")
	}
}

func TestApplyDefaults(t *testing.T) {
	conf := Configuration{}
	conf.ApplyDefaults()

	if conf.Experiment.Control.Visitors != 10000 {
		t.Errorf("Expected default control visitors 10000, got %d", conf.Experiment.Control.Visitors)
	}
	if conf.Experiment.Variant.Visitors != 10000 {
		t.Errorf("Expected default variant visitors 10000, got %d", conf.Experiment.Variant.Visitors)
	}
	if conf.Forecast.DailyTraffic != 5000 {
		t.Errorf("Expected default daily traffic 5000, got %d", conf.Forecast.DailyTraffic)
	}
	if conf.Forecast.HorizonDays != 90 {
		t.Errorf("Expected default horizon 90, got %d", conf.Forecast.HorizonDays)
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	conf := validConfiguration()
	conf.Forecast.HorizonDays = 30
	conf.ApplyDefaults()

	if conf.Forecast.HorizonDays != 30 {
		t.Errorf("Expected explicit horizon 30 to survive, got %d", conf.Forecast.HorizonDays)
	}
}

func TestHasValueMetric(t *testing.T) {
	conf := validConfiguration()
	if !conf.HasValueMetric() {
		t.Errorf("Expected value metric to be detected")
	}

	conf.Experiment.Control.AvgOrderValue = 0
	conf.Experiment.Variant.AvgOrderValue = 0
	if conf.HasValueMetric() {
		t.Errorf("Expected no value metric when both arms omit order values")
	}

	conf.Experiment.Variant.AvgOrderValue = 50
	if !conf.HasValueMetric() {
		t.Errorf("Expected value metric when one arm has an order value")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Configuration)
		wantErr bool
	}{
		{name: "Valid configuration", mutate: func(c *Configuration) {}, wantErr: false},
		{
			name:    "Rate above 100 percent",
			mutate:  func(c *Configuration) { c.Experiment.Control.ConversionRatePct = 120 },
			wantErr: true,
		},
		{
			name:    "Negative rate",
			mutate:  func(c *Configuration) { c.Experiment.Variant.ConversionRatePct = -1 },
			wantErr: true,
		},
		{
			name:    "Zero visitors",
			mutate:  func(c *Configuration) { c.Experiment.Control.Visitors = 0 },
			wantErr: true,
		},
		{
			name:    "Negative order value",
			mutate:  func(c *Configuration) { c.Experiment.Variant.AvgOrderValue = -5 },
			wantErr: true,
		},
		{
			name:    "Negative std dev",
			mutate:  func(c *Configuration) { c.Experiment.Control.ValueStdDev = -1 },
			wantErr: true,
		},
		{
			name:    "Zero daily traffic",
			mutate:  func(c *Configuration) { c.Forecast.DailyTraffic = 0 },
			wantErr: true,
		},
		{
			name:    "Zero horizon",
			mutate:  func(c *Configuration) { c.Forecast.HorizonDays = 0 },
			wantErr: true,
		},
		{
			name:    "Decay above 100 percent",
			mutate:  func(c *Configuration) { c.Forecast.DecayPct = 150 },
			wantErr: true,
		},
		{
			name: "Boundary values are valid",
			mutate: func(c *Configuration) {
				c.Experiment.Control.ConversionRatePct = 0
				c.Experiment.Variant.ConversionRatePct = 100
				c.Forecast.DecayPct = 100
				c.Forecast.HorizonDays = 1
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := validConfiguration()
			tt.mutate(&conf)
			err := conf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, stats.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	t.Run("Clean configuration has no warnings", func(t *testing.T) {
		conf := validConfiguration()
		if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
			t.Errorf("Expected no warnings, got %v", warnings)
		}
	})

	t.Run("Long horizon warns", func(t *testing.T) {
		conf := validConfiguration()
		conf.Forecast.HorizonDays = 5000
		warnings := conf.ValidateConfiguration()
		if len(warnings) != 1 || !strings.Contains(warnings[0], "unusually long") {
			t.Errorf("Expected long-horizon warning, got %v", warnings)
		}
	})

	t.Run("Missing std devs warn", func(t *testing.T) {
		conf := validConfiguration()
		conf.Experiment.Control.ValueStdDev = 0
		conf.Experiment.Variant.ValueStdDev = 0
		warnings := conf.ValidateConfiguration()
		if len(warnings) != 1 || !strings.Contains(warnings[0], "standard deviations") {
			t.Errorf("Expected std-dev warning, got %v", warnings)
		}
	})

	t.Run("One-sided order value warns", func(t *testing.T) {
		conf := validConfiguration()
		conf.Experiment.Control.AvgOrderValue = 0
		warnings := conf.ValidateConfiguration()
		if len(warnings) != 1 || !strings.Contains(warnings[0], "Only one arm") {
			t.Errorf("Expected one-sided value warning, got %v", warnings)
		}
	})

	t.Run("Small sample warns", func(t *testing.T) {
		conf := validConfiguration()
		conf.Experiment.Variant.Visitors = 50
		warnings := conf.ValidateConfiguration()
		if len(warnings) != 1 || !strings.Contains(warnings[0], "small") {
			t.Errorf("Expected small-sample warning, got %v", warnings)
		}
	})
}
