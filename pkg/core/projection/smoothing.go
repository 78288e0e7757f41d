package projection

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"
)

// Component selects how a trend or seasonal term combines with the level.
type Component string

const (
	ComponentNone           Component = ""
	ComponentAdditive       Component = "add"
	ComponentMultiplicative Component = "mul"
)

// DefaultFitTimeout bounds the wall-clock time of one smoothing fit.
const DefaultFitTimeout = 2 * time.Second

// sseCeiling is returned for parameter sets that blow up the recursion.
const sseCeiling = math.MaxFloat64 / 4

// ExponentialSmoothingStrategy implements Holt (trend only) and Holt-Winters
// (trend + seasonal) exponential smoothing. Smoothing weights are fitted by
// minimizing one-step-ahead squared error with Nelder-Mead.
type ExponentialSmoothingStrategy struct {
	Trend      Component     `json:"trend"`
	Seasonal   Component     `json:"seasonal"`
	Period     int           `json:"seasonal_periods"`
	FitTimeout time.Duration `json:"-"`
}

// hwState is the filter state after the last observation.
type hwState struct {
	level  float64
	trend  float64
	season []float64 // season[t] applies at time t; len n+m
}

func (s *ExponentialSmoothingStrategy) Name() string {
	if s.Seasonal == ComponentNone {
		return "HoltLinear"
	}
	return fmt.Sprintf("HoltWinters(trend=%s,seasonal=%s,m=%d)", s.Trend, s.Seasonal, s.Period)
}

func (s *ExponentialSmoothingStrategy) seasonal() bool { return s.Seasonal != ComponentNone }

func (s *ExponentialSmoothingStrategy) Validate(history []float64) error {
	if s.Trend == ComponentNone {
		return fmt.Errorf("%s requires a trend component", s.Name())
	}
	if s.seasonal() {
		if s.Period < 2 {
			return fmt.Errorf("%s requires a seasonal period >= 2", s.Name())
		}
		if len(history) < 2*s.Period {
			return fmt.Errorf("%s requires at least %d observations, got %d", s.Name(), 2*s.Period, len(history))
		}
	} else if len(history) < 3 {
		return fmt.Errorf("%s requires at least 3 observations, got %d", s.Name(), len(history))
	}
	if s.Trend == ComponentMultiplicative || s.Seasonal == ComponentMultiplicative {
		for i, v := range history {
			if v <= 0 {
				return fmt.Errorf("%s requires strictly positive data (index %d = %v)", s.Name(), i, v)
			}
		}
	}
	return nil
}

func (s *ExponentialSmoothingStrategy) Forecast(history []float64, horizon int) ([]float64, error) {
	if err := s.Validate(history); err != nil {
		return nil, err
	}

	alpha, beta, gamma, err := s.fit(history)
	if err != nil {
		return nil, err
	}

	_, st := s.filter(history, alpha, beta, gamma)
	n := len(history)
	out := make([]float64, horizon)
	for h := 1; h <= horizon; h++ {
		v := s.combineTrend(st.level, st.trend, float64(h))
		if s.seasonal() {
			v = s.applySeason(v, st.season[n+(h-1)%s.Period])
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s produced a non-finite forecast at h=%d", s.Name(), h)
		}
		out[h-1] = math.Max(0, v)
	}
	return out, nil
}

// fit searches smoothing weights in (0,1) through a logistic reparameterization.
func (s *ExponentialSmoothingStrategy) fit(history []float64) (alpha, beta, gamma float64, err error) {
	// z = [alpha, beta, (gamma)] in logit space
	z0 := []float64{0, logit(0.1)}
	if s.seasonal() {
		z0 = append(z0, logit(0.1))
	}

	unpack := func(z []float64) (float64, float64, float64) {
		a, b, g := logistic(z[0]), logistic(z[1]), 0.0
		if s.seasonal() {
			g = logistic(z[2])
		}
		return a, b, g
	}

	problem := optimize.Problem{
		Func: func(z []float64) float64 {
			a, b, g := unpack(z)
			sse, _ := s.filter(history, a, b, g)
			return sse
		},
	}

	timeout := s.FitTimeout
	if timeout <= 0 {
		timeout = DefaultFitTimeout
	}
	settings := &optimize.Settings{
		MajorIterations: 500,
		Runtime:         timeout,
	}

	result, err := optimize.Minimize(problem, z0, settings, &optimize.NelderMead{})
	if result == nil {
		return 0, 0, 0, fmt.Errorf("%s fit failed: %w", s.Name(), err)
	}
	if err != nil && !budgetExhausted(result.Status) {
		return 0, 0, 0, fmt.Errorf("%s fit failed (%v): %w", s.Name(), result.Status, err)
	}
	if math.IsNaN(result.F) || result.F >= sseCeiling {
		return 0, 0, 0, fmt.Errorf("%s fit did not converge", s.Name())
	}

	alpha, beta, gamma = unpack(result.X)
	return alpha, beta, gamma, nil
}

// budgetExhausted reports a stop caused by an iteration or time budget, where
// the best point found so far is still usable.
func budgetExhausted(status optimize.Status) bool {
	switch status {
	case optimize.IterationLimit, optimize.RuntimeLimit, optimize.FunctionEvaluationLimit:
		return true
	}
	return false
}

// initialState seeds level, trend and seasonal indices heuristically.
// Returns the state and the first time index to run the recursion from.
func (s *ExponentialSmoothingStrategy) initialState(y []float64) (hwState, int) {
	n := len(y)
	if !s.seasonal() {
		st := hwState{level: y[0]}
		if s.Trend == ComponentMultiplicative {
			st.trend = y[1] / y[0]
		} else {
			st.trend = y[1] - y[0]
		}
		return st, 1
	}

	m := s.Period
	first, second := mean(y[:m]), mean(y[m:2*m])
	st := hwState{level: first, season: make([]float64, n+m)}
	if s.Trend == ComponentMultiplicative {
		st.trend = math.Pow(second/first, 1/float64(m))
	} else {
		st.trend = (second - first) / float64(m)
	}
	for i := 0; i < m; i++ {
		if s.Seasonal == ComponentMultiplicative {
			st.season[i] = y[i] / first
		} else {
			st.season[i] = y[i] - first
		}
	}
	return st, 0
}

// filter runs the smoothing recursion and returns the one-step-ahead SSE.
func (s *ExponentialSmoothingStrategy) filter(y []float64, alpha, beta, gamma float64) (float64, hwState) {
	st, start := s.initialState(y)
	sse := 0.0

	for t := start; t < len(y); t++ {
		prevLevel, prevTrend := st.level, st.trend
		base := s.combineTrend(prevLevel, prevTrend, 1)

		fitted := base
		deseasoned := y[t]
		if s.seasonal() {
			fitted = s.applySeason(base, st.season[t])
			deseasoned = s.removeSeason(y[t], st.season[t])
		}

		resid := y[t] - fitted
		sse += resid * resid

		st.level = alpha*deseasoned + (1-alpha)*base
		if s.Trend == ComponentMultiplicative {
			st.trend = beta*(st.level/prevLevel) + (1-beta)*prevTrend
		} else {
			st.trend = beta*(st.level-prevLevel) + (1-beta)*prevTrend
		}
		if s.seasonal() {
			st.season[t+s.Period] = gamma*s.removeSeason(y[t], base) + (1-gamma)*st.season[t]
		}

		if math.IsNaN(sse) || math.IsInf(sse, 0) || math.IsNaN(st.level) || math.IsInf(st.level, 0) {
			return sseCeiling, st
		}
	}
	return math.Min(sse, sseCeiling), st
}

func (s *ExponentialSmoothingStrategy) combineTrend(level, trend, h float64) float64 {
	if s.Trend == ComponentMultiplicative {
		return level * math.Pow(trend, h)
	}
	return level + h*trend
}

func (s *ExponentialSmoothingStrategy) applySeason(v, season float64) float64 {
	if s.Seasonal == ComponentMultiplicative {
		return v * season
	}
	return v + season
}

func (s *ExponentialSmoothingStrategy) removeSeason(v, season float64) float64 {
	if s.Seasonal == ComponentMultiplicative {
		return v / season
	}
	return v - season
}

func logistic(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

func logit(p float64) float64 { return math.Log(p / (1 - p)) }

func mean(v []float64) float64 {
	total := 0.0
	for _, x := range v {
		total += x
	}
	return total / float64(len(v))
}
