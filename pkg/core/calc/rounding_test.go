package calc

import (
	"math"
	"testing"
)

func TestRound_HalfEven(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   float64
	}{
		{2.5, 0, 2},
		{3.5, 0, 4},
		{-2.5, 0, -2},
		{0.125, 2, 0.12}, // exact binary tie
		{0.375, 2, 0.38},
		{2.675, 2, 2.67}, // stored just below the tie
		{1.005, 2, 1},    // stored just below the tie
		{22.500225, 2, 22.5},
		{2500000.4, 0, 2500000},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}

func TestRound_NonFinite(t *testing.T) {
	if !math.IsNaN(Round(math.NaN(), 2)) {
		t.Error("NaN should pass through")
	}
	if !math.IsInf(RoundUnits(math.Inf(-1)), -1) {
		t.Error("-Inf should pass through")
	}
}
