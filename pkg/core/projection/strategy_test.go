package projection_test

import (
	"fincast/pkg/core/projection"
	"math"
	"testing"
)

func TestFlatStrategy(t *testing.T) {
	s := &projection.FlatStrategy{}

	result, err := s.Forecast([]float64{100, 250}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range result {
		if v != 250 {
			t.Errorf("month %d: expected 250, got %.2f", i+1, v)
		}
	}

	result, _ = s.Forecast(nil, 12)
	if len(result) != 12 || result[0] != 0 {
		t.Errorf("empty history should give 12 zeros, got %v", result)
	}
}

func TestLinearRegressionStrategy(t *testing.T) {
	s := &projection.LinearRegressionStrategy{}

	result, err := s.Forecast([]float64{100, 200, 300, 400}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{500, 600, 700}
	for i := range expected {
		if math.Abs(result[i]-expected[i]) > 1e-6 {
			t.Errorf("month %d: expected %.2f, got %.2f", i+1, expected[i], result[i])
		}
	}
}

func TestLinearRegressionStrategy_ClampsNegative(t *testing.T) {
	s := &projection.LinearRegressionStrategy{}

	result, err := s.Forecast([]float64{300, 200, 100}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range result {
		if v != 0 {
			t.Errorf("month %d: expected clamp to 0, got %.2f", i+1, v)
		}
	}
}

func TestLinearRegressionStrategy_TooShort(t *testing.T) {
	s := &projection.LinearRegressionStrategy{}
	if _, err := s.Forecast([]float64{5}, 12); err == nil {
		t.Fatal("expected error for single observation, got nil")
	}
}

func TestConstantGrowthStrategy_Clamped(t *testing.T) {
	s := &projection.ConstantGrowthStrategy{}

	// Raw geometric growth is 100%; capped at +15%
	result, err := s.Forecast([]float64{100, 200}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result[0]-230) > 1e-9 {
		t.Errorf("expected 230, got %.4f", result[0])
	}
	if math.Abs(result[1]-264.5) > 1e-9 {
		t.Errorf("expected 264.5, got %.4f", result[1])
	}

	// Raw decline of 50%; capped at -15%
	result, _ = s.Forecast([]float64{200, 100}, 1)
	if math.Abs(result[0]-85) > 1e-9 {
		t.Errorf("expected 85, got %.4f", result[0])
	}
}

func TestConstantGrowthStrategy_ShortHistory(t *testing.T) {
	s := &projection.ConstantGrowthStrategy{}

	result, _ := s.Forecast([]float64{15000}, 12)
	for i, v := range result {
		if v != 15000 {
			t.Errorf("month %d: expected 15000, got %.2f", i+1, v)
		}
	}

	// All-zero history stays zero
	result, _ = s.Forecast([]float64{0, 0, 0}, 12)
	for i, v := range result {
		if v != 0 {
			t.Errorf("month %d: expected 0, got %.2f", i+1, v)
		}
	}
}

func TestManualGrowthStrategy(t *testing.T) {
	s := &projection.ManualGrowthStrategy{GrowthRate: 0.10} // 10% growth

	result, err := s.Forecast([]float64{500, 1000}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result[0]-1100) > 1e-9 || math.Abs(result[1]-1210) > 1e-9 {
		t.Errorf("expected [1100 1210], got %v", result)
	}

	s = &projection.ManualGrowthStrategy{GrowthRate: -2}
	result, _ = s.Forecast([]float64{1000}, 1)
	if result[0] != 0 {
		t.Errorf("expected clamp to 0, got %.2f", result[0])
	}
}

func TestExponentialSmoothing_TrendOnly(t *testing.T) {
	s := &projection.ExponentialSmoothingStrategy{Trend: projection.ComponentAdditive}

	history := []float64{800000, 850000, 900000, 950000, 1000000, 1050000}
	result, err := s.Forecast(history, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A perfectly linear history is reproduced exactly
	for i, v := range result {
		expected := 1050000 + float64(i+1)*50000
		if math.Abs(v-expected) > 1 {
			t.Errorf("month %d: expected %.0f, got %.2f", i+1, expected, v)
		}
	}
}

func TestExponentialSmoothing_Validate(t *testing.T) {
	seasonal := &projection.ExponentialSmoothingStrategy{
		Trend: projection.ComponentAdditive, Seasonal: projection.ComponentAdditive, Period: 6,
	}
	if err := seasonal.Validate(make([]float64, 11)); err == nil {
		t.Error("expected error: 11 points cannot seed period 6")
	}

	mul := &projection.ExponentialSmoothingStrategy{
		Trend: projection.ComponentMultiplicative, Seasonal: projection.ComponentMultiplicative, Period: 2,
	}
	if err := mul.Validate([]float64{10, 20, 0, 40}); err == nil {
		t.Error("expected error: multiplicative model needs positive data")
	}

	noTrend := &projection.ExponentialSmoothingStrategy{}
	if err := noTrend.Validate([]float64{1, 2, 3}); err == nil {
		t.Error("expected error: trend component required")
	}
}

func TestConfidenceEnvelope(t *testing.T) {
	baseline := make([]float64, 12)
	for i := range baseline {
		baseline[i] = 1000
	}
	labels := []string{"Apr", "May"}

	points := projection.ConfidenceEnvelope(baseline, labels)

	if len(points) != 12 {
		t.Fatalf("expected 12 points, got %d", len(points))
	}
	if points[0].Lower != 920 || points[0].Upper != 1080 {
		t.Errorf("month 1: expected [920, 1080], got [%.0f, %.0f]", points[0].Lower, points[0].Upper)
	}
	// i=11: width = 0.08 * 1.22 = 9.76%
	if points[11].Lower != 902 || points[11].Upper != 1098 {
		t.Errorf("month 12: expected [902, 1098], got [%.0f, %.0f]", points[11].Lower, points[11].Upper)
	}
	if points[0].Month != "Apr" || points[11].Month != "" {
		t.Errorf("unexpected labels %q / %q", points[0].Month, points[11].Month)
	}
	for i := 1; i < len(points); i++ {
		prevWidth := points[i-1].Upper - points[i-1].Lower
		width := points[i].Upper - points[i].Lower
		if width < prevWidth {
			t.Errorf("band narrowed at month %d", i+1)
		}
	}
}
