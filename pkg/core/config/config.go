// Package config loads fincast settings from a YAML file, then applies
// environment overrides (a .env file in the working directory is honored).
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"fincast/pkg/core/analysis"
	"fincast/pkg/core/projection"
	"fincast/pkg/core/tax"
)

// Environment variables that override file values.
const (
	EnvTaxRate     = "FINCAST_TAX_RATE"    // decimal, e.g. 0.25
	EnvFitTimeout  = "FINCAST_FIT_TIMEOUT" // Go duration, e.g. 500ms
	EnvDatabaseURL = "DATABASE_URL"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "config/fincast.yaml"

type TaxConfig struct {
	DefaultRate        float64 `yaml:"default_rate"`
	ExemptionThreshold float64 `yaml:"exemption_threshold"`
}

type ForecastConfig struct {
	SanityMultiple float64 `yaml:"sanity_multiple"`
	FitTimeout     string  `yaml:"fit_timeout"`
}

type StoreConfig struct {
	DatabaseURL string `yaml:"database_url"`
	Dir         string `yaml:"dir"`
}

type OutputConfig struct {
	Format string `yaml:"format"` // json | markdown | html
}

// Config is the full settings tree.
type Config struct {
	Tax      TaxConfig      `yaml:"tax"`
	Forecast ForecastConfig `yaml:"forecast"`
	Store    StoreConfig    `yaml:"store"`
	Output   OutputConfig   `yaml:"output"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Tax: TaxConfig{
			DefaultRate:        tax.DefaultRate,
			ExemptionThreshold: tax.DefaultExemptionThreshold,
		},
		Forecast: ForecastConfig{
			SanityMultiple: projection.DefaultSanityMultiple,
			FitTimeout:     projection.DefaultFitTimeout.String(),
		},
		Store:  StoreConfig{Dir: ".fincast"},
		Output: OutputConfig{Format: "json"},
	}
}

// Load reads path (DefaultPath when empty) over the defaults. A missing file
// is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTaxRate); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			c.Tax.DefaultRate = rate
		} else {
			log.Printf("[Config] ignoring %s=%q: %v", EnvTaxRate, v, err)
		}
	}
	if v := os.Getenv(EnvFitTimeout); v != "" {
		c.Forecast.FitTimeout = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Store.DatabaseURL = v
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Tax.DefaultRate < 0 || c.Tax.DefaultRate > 1 {
		return fmt.Errorf("tax.default_rate must be in [0, 1], got %v", c.Tax.DefaultRate)
	}
	if c.Forecast.SanityMultiple <= 0 {
		return fmt.Errorf("forecast.sanity_multiple must be positive, got %v", c.Forecast.SanityMultiple)
	}
	if _, err := c.fitTimeout(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "json", "markdown", "html":
	default:
		return fmt.Errorf("output.format must be json, markdown or html, got %q", c.Output.Format)
	}
	return nil
}

func (c *Config) fitTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Forecast.FitTimeout)
	if err != nil {
		return 0, fmt.Errorf("forecast.fit_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("forecast.fit_timeout must be positive, got %s", d)
	}
	return d, nil
}

// AnalysisSettings converts the config into engine settings.
func (c *Config) AnalysisSettings() analysis.Settings {
	timeout, err := c.fitTimeout()
	if err != nil {
		timeout = projection.DefaultFitTimeout
	}
	return analysis.Settings{
		DefaultTaxRate:     c.Tax.DefaultRate,
		ExemptionThreshold: c.Tax.ExemptionThreshold,
		SanityMultiple:     c.Forecast.SanityMultiple,
		FitTimeout:         timeout,
	}
}
