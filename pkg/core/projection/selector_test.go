package projection_test

import (
	"fincast/pkg/core/projection"
	"fmt"
	"math"
	"strings"
	"testing"
)

// stubStrategy returns fixed output or a fixed error.
type stubStrategy struct {
	name   string
	values []float64
	err    error
}

func (s *stubStrategy) Name() string                     { return s.name }
func (s *stubStrategy) Validate(history []float64) error { return nil }
func (s *stubStrategy) Forecast(history []float64, horizon int) ([]float64, error) {
	return s.values, s.err
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSelectChain_Ladder(t *testing.T) {
	sel := projection.NewStrategySelector()

	cases := []struct {
		n        int
		expected []string
	}{
		{0, []string{"Flat"}},
		{2, []string{"Flat"}},
		{3, []string{"LinearRegression", "Flat"}},
		{5, []string{"LinearRegression", "Flat"}},
		{6, []string{"HoltLinear", "LinearRegression", "Flat"}},
		{8, []string{"HoltLinear", "LinearRegression", "Flat"}},
		{9, []string{"HoltWinters(trend=add,seasonal=add,m=4)", "LinearRegression", "Flat"}},
		{11, []string{"HoltWinters(trend=add,seasonal=add,m=4)", "LinearRegression", "Flat"}},
		{12, []string{"HoltWinters(trend=add,seasonal=add,m=6)", "LinearRegression", "Flat"}},
		{23, []string{"HoltWinters(trend=add,seasonal=add,m=6)", "LinearRegression", "Flat"}},
		{24, []string{"HoltWinters(trend=mul,seasonal=mul,m=12)", "LinearRegression", "Flat"}},
		{60, []string{"HoltWinters(trend=mul,seasonal=mul,m=12)", "LinearRegression", "Flat"}},
	}

	for _, c := range cases {
		chain := sel.SelectChain(c.n)
		var names []string
		for _, s := range chain {
			names = append(names, s.Name())
		}
		if strings.Join(names, ",") != strings.Join(c.expected, ",") {
			t.Errorf("n=%d: expected chain %v, got %v", c.n, c.expected, names)
		}
	}
}

func TestForecast_ShortHistoryIsFlat(t *testing.T) {
	result := projection.NewStrategySelector().Forecast([]float64{1000, 1200}, 12)

	if result.Method != "Flat" {
		t.Errorf("expected Flat, got %s", result.Method)
	}
	for i, v := range result.Values {
		if v != 1200 {
			t.Errorf("month %d: expected 1200, got %.2f", i+1, v)
		}
	}

	empty := projection.Forecast(nil, 12)
	if len(empty) != 12 || empty[11] != 0 {
		t.Errorf("empty history should give 12 zeros, got %v", empty)
	}
}

func TestForecast_SixMonthsUsesTrendOnlySmoothing(t *testing.T) {
	history := []float64{800000, 850000, 900000, 950000, 1000000, 1050000}

	result := projection.NewStrategySelector().Forecast(history, 12)

	if result.Method != "HoltLinear" {
		t.Fatalf("expected trend-only smoothing, got %s (rejected: %v)", result.Method, result.Rejected)
	}
	if len(result.Values) != 12 {
		t.Fatalf("expected 12 values, got %d", len(result.Values))
	}
	prev := history[len(history)-1]
	for i, v := range result.Values {
		if v <= 0 {
			t.Errorf("month %d: expected positive value, got %.2f", i+1, v)
		}
		if v <= prev {
			t.Errorf("month %d: expected increasing trend, %.2f <= %.2f", i+1, v, prev)
		}
		prev = v
	}
}

func TestForecast_ThreeToFiveUsesRegression(t *testing.T) {
	result := projection.NewStrategySelector().Forecast([]float64{100, 110, 120, 130}, 12)

	if result.Method != "LinearRegression" {
		t.Errorf("expected LinearRegression, got %s", result.Method)
	}
	if math.Abs(result.Values[0]-140) > 1e-6 {
		t.Errorf("expected 140, got %.4f", result.Values[0])
	}
}

func TestForecast_MultiplicativeFallsBackOnNonPositiveData(t *testing.T) {
	history := make([]float64, 24)
	for i := range history {
		history[i] = 1000 + 10*float64(i)
	}
	history[5] = 0 // multiplicative model cannot handle zero

	result := projection.NewStrategySelector().Forecast(history, 12)

	if result.Method != "LinearRegression" {
		t.Errorf("expected fallback to LinearRegression, got %s", result.Method)
	}
	if len(result.Rejected) != 1 || !strings.HasPrefix(result.Rejected[0], "HoltWinters") {
		t.Errorf("expected one HoltWinters rejection, got %v", result.Rejected)
	}
}

func TestForecast_SeasonalHistory(t *testing.T) {
	history := make([]float64, 24)
	for i := range history {
		season := 1 + 0.1*math.Sin(2*math.Pi*float64(i)/12)
		history[i] = 100000 * math.Pow(1.01, float64(i)) * season
	}

	result := projection.NewStrategySelector().Forecast(history, 12)

	if !strings.HasPrefix(result.Method, "HoltWinters") {
		t.Errorf("expected seasonal model on clean seasonal data, got %s (rejected: %v)", result.Method, result.Rejected)
	}
	last := history[len(history)-1]
	for i, v := range result.Values {
		if v < 0 || v > 5*last {
			t.Errorf("month %d: %.2f outside [0, 5x last]", i+1, v)
		}
	}
}

func TestRun_SanityBoundRejectsExplosiveForecast(t *testing.T) {
	sel := projection.NewStrategySelector()
	history := []float64{100, 100, 100}

	explosive := constant(12, 100)
	explosive[7] = 501 // just above 5x last

	chain := []projection.ForecastStrategy{
		&stubStrategy{name: "Explosive", values: explosive},
		&projection.FlatStrategy{},
	}
	result := sel.Run(chain, history, 12)

	if result.Method != "Flat" {
		t.Errorf("expected Flat after rejection, got %s", result.Method)
	}
	if len(result.Rejected) != 1 || !strings.HasPrefix(result.Rejected[0], "Explosive") {
		t.Errorf("expected Explosive rejection, got %v", result.Rejected)
	}

	// Exactly 5x is allowed
	explosive[7] = 500
	result = sel.Run(chain, history, 12)
	if result.Method != "Explosive" {
		t.Errorf("expected 5x bound to be inclusive, got %s", result.Method)
	}
}

func TestRun_ErrorAndNegativeFallThrough(t *testing.T) {
	sel := projection.NewStrategySelector()
	history := []float64{100, 100, 100}

	negative := constant(12, 50)
	negative[0] = -1

	chain := []projection.ForecastStrategy{
		&stubStrategy{name: "Broken", err: fmt.Errorf("singular matrix")},
		&stubStrategy{name: "Negative", values: negative},
		&stubStrategy{name: "Short", values: constant(3, 1)},
		&projection.FlatStrategy{},
	}
	result := sel.Run(chain, history, 12)

	if result.Method != "Flat" {
		t.Errorf("expected Flat, got %s", result.Method)
	}
	if len(result.Rejected) != 3 {
		t.Errorf("expected 3 rejections, got %v", result.Rejected)
	}
}

func TestRun_ZeroLastValueUsesUnitBase(t *testing.T) {
	sel := projection.NewStrategySelector()
	history := []float64{100, 50, 0}

	chain := []projection.ForecastStrategy{
		&stubStrategy{name: "Six", values: constant(12, 6)},
		&projection.FlatStrategy{},
	}
	result := sel.Run(chain, history, 12)

	if result.Method != "Flat" {
		t.Errorf("values above 5x a unit base should be rejected, got %s", result.Method)
	}
}

func TestForecast_NeverExceedsBound(t *testing.T) {
	histories := [][]float64{
		{1, 1, 1, 1, 1, 1000},
		{5000, 1, 5000, 1, 5000, 1, 5000, 1, 5000, 1},
		{0, 0, 0, 10, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		{100, 300, 900, 2700},
	}

	for _, h := range histories {
		values := projection.Forecast(h, 12)
		last := h[len(h)-1]
		if last <= 0 {
			last = 1
		}
		for i, v := range values {
			if v < 0 {
				t.Errorf("history %v month %d: negative %.2f", h, i+1, v)
			}
			if v > 5*last {
				t.Errorf("history %v month %d: %.2f exceeds 5x last", h, i+1, v)
			}
		}
	}
}
