// Package projection implements the adaptive forecasting ladder for short monthly histories.
// Core Philosophy: "Pick by data length, degrade on failure"
// - Strategies: independent forecasting methods behind one interface
// - Selector: chooses a chain of strategies by history length and returns the first bounded result
package projection

import (
	"fmt"
	"math"

	"fincast/pkg/core/calc"

	"gonum.org/v1/gonum/stat"
)

// MaxConstantGrowth caps the per-period rate used by ConstantGrowthStrategy.
const MaxConstantGrowth = 0.15

// =============================================================================
// FORECAST STRATEGY INTERFACE
// =============================================================================

// ForecastStrategy defines a pluggable forecasting algorithm.
type ForecastStrategy interface {
	// Name returns the strategy identifier
	Name() string

	// Validate checks whether the history is usable by this strategy
	Validate(history []float64) error

	// Forecast projects horizon future values. Outputs are clamped to >= 0.
	Forecast(history []float64, horizon int) ([]float64, error)
}

// =============================================================================
// BUILT-IN STRATEGIES
// =============================================================================

// FlatStrategy repeats the last observation (0 for an empty history).
type FlatStrategy struct{}

func (s *FlatStrategy) Name() string { return "Flat" }

func (s *FlatStrategy) Validate(history []float64) error { return nil }

func (s *FlatStrategy) Forecast(history []float64, horizon int) ([]float64, error) {
	last := 0.0
	if len(history) > 0 {
		last = math.Max(0, history[len(history)-1])
	}
	out := make([]float64, horizon)
	for i := range out {
		out[i] = last
	}
	return out, nil
}

// LinearRegressionStrategy fits ordinary least squares over the time index.
// Formula: Value(t) = a + b*t, t = 0..n-1
type LinearRegressionStrategy struct{}

func (s *LinearRegressionStrategy) Name() string { return "LinearRegression" }

func (s *LinearRegressionStrategy) Validate(history []float64) error {
	if len(history) < 2 {
		return fmt.Errorf("LinearRegression requires at least 2 observations, got %d", len(history))
	}
	return nil
}

func (s *LinearRegressionStrategy) Forecast(history []float64, horizon int) ([]float64, error) {
	if err := s.Validate(history); err != nil {
		return nil, err
	}

	x := make([]float64, len(history))
	for i := range x {
		x[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(x, history, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return nil, fmt.Errorf("LinearRegression produced a degenerate fit")
	}

	out := make([]float64, horizon)
	for i := range out {
		t := float64(len(history) + i)
		out[i] = math.Max(0, alpha+beta*t)
	}
	return out, nil
}

// ConstantGrowthStrategy compounds the last value at the clamped geometric-mean rate.
// Used for cost lines that must not swing wildly (debt service, capex).
// Formula: Value(t) = Value(t-1) * (1 + g), g in [-15%, +15%]
type ConstantGrowthStrategy struct{}

func (s *ConstantGrowthStrategy) Name() string { return "ConstantGrowth" }

func (s *ConstantGrowthStrategy) Validate(history []float64) error { return nil }

func (s *ConstantGrowthStrategy) Forecast(history []float64, horizon int) ([]float64, error) {
	if len(history) < 2 {
		return (&FlatStrategy{}).Forecast(history, horizon)
	}

	growth := calc.GeometricGrowth(history)
	growth = math.Max(-MaxConstantGrowth, math.Min(MaxConstantGrowth, growth))

	out := make([]float64, horizon)
	base := history[len(history)-1]
	for i := range out {
		base *= 1 + growth
		out[i] = math.Max(0, base)
	}
	return out, nil
}

// ManualGrowthStrategy compounds the last value at a caller-supplied rate.
// It replaces the selector when an explicit revenue growth override is given.
type ManualGrowthStrategy struct {
	GrowthRate float64 `json:"growth_rate"` // e.g., 0.05 for 5%
}

func (s *ManualGrowthStrategy) Name() string { return "ManualGrowth" }

func (s *ManualGrowthStrategy) Validate(history []float64) error { return nil }

func (s *ManualGrowthStrategy) Forecast(history []float64, horizon int) ([]float64, error) {
	base := 0.0
	if len(history) > 0 {
		base = history[len(history)-1]
	}
	out := make([]float64, horizon)
	for i := range out {
		base *= 1 + s.GrowthRate
		out[i] = math.Max(0, base)
	}
	return out, nil
}
