package projection

import (
	"fmt"
	"log"
	"math"
	"time"
)

// =============================================================================
// ADAPTIVE STRATEGY SELECTOR
// Decides which strategies to try based on history length, then walks the
// chain until one produces a bounded forecast.
// =============================================================================

// DefaultSanityMultiple bounds any projected value relative to the last actual.
const DefaultSanityMultiple = 5.0

// ForecastResult is a produced series plus how it was produced.
type ForecastResult struct {
	Values   []float64 `json:"values"`
	Method   string    `json:"method"`
	Rejected []string  `json:"rejected,omitempty"` // "<strategy>: <reason>", in attempt order
}

// StrategySelector chooses a forecasting chain by data length.
//
// Selection ladder (n = history length):
//   - n < 3:    Flat
//   - 3-5:      LinearRegression
//   - 6-8:      Holt linear trend, no seasonality
//   - 9-11:     Holt-Winters additive, m=4
//   - 12-23:    Holt-Winters additive, m=6
//   - 24+:      Holt-Winters multiplicative trend and seasonality, m=12
//
// Every chain ends with LinearRegression (when n >= 3) and then Flat.
type StrategySelector struct {
	SanityMultiple float64
	FitTimeout     time.Duration
}

// NewStrategySelector creates a selector with default bounds.
func NewStrategySelector() *StrategySelector {
	return &StrategySelector{
		SanityMultiple: DefaultSanityMultiple,
		FitTimeout:     DefaultFitTimeout,
	}
}

// SelectChain returns the ordered strategies to attempt for a history of length n.
func (s *StrategySelector) SelectChain(n int) []ForecastStrategy {
	if n < 3 {
		return []ForecastStrategy{&FlatStrategy{}}
	}

	var primary ForecastStrategy
	switch {
	case n >= 24:
		primary = &ExponentialSmoothingStrategy{Trend: ComponentMultiplicative, Seasonal: ComponentMultiplicative, Period: 12, FitTimeout: s.FitTimeout}
	case n >= 12:
		primary = &ExponentialSmoothingStrategy{Trend: ComponentAdditive, Seasonal: ComponentAdditive, Period: 6, FitTimeout: s.FitTimeout}
	case n >= 9:
		primary = &ExponentialSmoothingStrategy{Trend: ComponentAdditive, Seasonal: ComponentAdditive, Period: 4, FitTimeout: s.FitTimeout}
	case n >= 6:
		primary = &ExponentialSmoothingStrategy{Trend: ComponentAdditive, FitTimeout: s.FitTimeout}
	}

	chain := make([]ForecastStrategy, 0, 3)
	if primary != nil {
		chain = append(chain, primary)
	}
	return append(chain, &LinearRegressionStrategy{}, &FlatStrategy{})
}

// Forecast runs the chain for history and returns the first bounded result.
func (s *StrategySelector) Forecast(history []float64, horizon int) ForecastResult {
	return s.Run(s.SelectChain(len(history)), history, horizon)
}

// Run attempts each strategy in order. A strategy is rejected when it errors
// or its output breaks the sanity bound. Flat never breaks the bound, so a
// chain ending in Flat always yields a result.
func (s *StrategySelector) Run(chain []ForecastStrategy, history []float64, horizon int) ForecastResult {
	result := ForecastResult{}
	for _, strategy := range chain {
		values, err := strategy.Forecast(history, horizon)
		if err == nil {
			err = s.checkBounds(values, history, horizon)
		}
		if err != nil {
			log.Printf("[Forecast] %s rejected: %v", strategy.Name(), err)
			result.Rejected = append(result.Rejected, fmt.Sprintf("%s: %v", strategy.Name(), err))
			continue
		}
		result.Values = values
		result.Method = strategy.Name()
		return result
	}

	// Only reachable with a chain that has no unconditional tail
	result.Values = make([]float64, horizon)
	result.Method = "Zero"
	return result
}

// checkBounds enforces non-negative, finite output no larger than
// SanityMultiple times the last observation (base 1 when that is not positive).
func (s *StrategySelector) checkBounds(values, history []float64, horizon int) error {
	if len(values) != horizon {
		return fmt.Errorf("expected %d values, got %d", horizon, len(values))
	}
	multiple := s.SanityMultiple
	if multiple <= 0 {
		multiple = DefaultSanityMultiple
	}
	last := 1.0
	if len(history) > 0 && history[len(history)-1] > 0 {
		last = history[len(history)-1]
	}
	limit := last * multiple
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value at month %d", i+1)
		}
		if v < 0 {
			return fmt.Errorf("negative value %.2f at month %d", v, i+1)
		}
		if v > limit {
			return fmt.Errorf("value %.2f at month %d exceeds %.0fx last actual (%.2f)", v, i+1, multiple, last)
		}
	}
	return nil
}

// Forecast projects horizon values with the default selector.
func Forecast(history []float64, horizon int) []float64 {
	return NewStrategySelector().Forecast(history, horizon).Values
}
