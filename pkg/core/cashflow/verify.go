package cashflow

import (
	"fmt"
	"math"

	"fincast/pkg/models"
)

// identityTolerance is the rounding slack allowed on each identity, in currency units.
const identityTolerance = 1.0

// VerificationResult holds the status of integrity checks
type VerificationResult struct {
	IsBalanced bool
	MaxGap     float64
	Warnings   []string
}

// Verify checks each row's cash identities:
//   - net cash flow = operating + investing + financing
//   - ending cash = previous ending cash + net cash flow
//   - investing and financing are never inflows
func Verify(rows []models.ThreeWayModelRow, openingCash float64) VerificationResult {
	res := VerificationResult{IsBalanced: true}
	flag := func(gap float64, format string, args ...interface{}) {
		if math.Abs(gap) > res.MaxGap {
			res.MaxGap = math.Abs(gap)
		}
		if math.Abs(gap) > identityTolerance {
			res.IsBalanced = false
			res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
		}
	}

	prevEnding := openingCash
	for _, r := range rows {
		flag(r.NetCashFlow-(r.NetCashOperating+r.NetCashInvesting+r.NetCashFinancing),
			"%s: net cash flow %.0f does not match sections", r.Month, r.NetCashFlow)
		flag(r.EndingCash-(prevEnding+r.NetCashFlow),
			"%s: ending cash %.0f does not roll forward from %.0f", r.Month, r.EndingCash, prevEnding)
		if r.NetCashInvesting > 0 || r.NetCashFinancing > 0 {
			res.IsBalanced = false
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: investing/financing inflow", r.Month))
		}
		prevEnding = r.EndingCash
	}
	return res
}
