package projection

import (
	"math"

	"fincast/pkg/core/calc"
	"fincast/pkg/models"
)

const (
	envelopeBaseWidth = 0.08
	envelopeDecay     = 0.02
)

// ConfidenceEnvelope builds a band around the baseline that widens linearly
// with horizon distance: width_i = 8% * (1 + 0.02*i). Lower bound is floored at 0.
// labels[i] names month i; missing labels are left empty.
func ConfidenceEnvelope(baseline []float64, labels []string) []models.EnvelopePoint {
	points := make([]models.EnvelopePoint, len(baseline))
	for i, v := range baseline {
		decay := 1 + envelopeDecay*float64(i)
		lower := v * (1 - envelopeBaseWidth*decay)
		upper := v * (1 + envelopeBaseWidth*decay)

		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		points[i] = models.EnvelopePoint{
			Month:    label,
			Baseline: calc.RoundUnits(v),
			Lower:    calc.RoundUnits(math.Max(0, lower)),
			Upper:    calc.RoundUnits(upper),
		}
	}
	return points
}
