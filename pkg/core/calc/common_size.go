package calc

import (
	"fincast/pkg/models"

	"gonum.org/v1/gonum/floats"
)

// CostRatios holds each standard cost bucket as a share of revenue.
// Buckets are derived independently; they are not normalized against each other.
type CostRatios struct {
	COGSPercent    float64 `json:"cogs_pct"`
	OpexPercent    float64 `json:"opex_pct"`
	PayrollPercent float64 `json:"payroll_pct"`
}

// Sum adds up a series. Empty input yields 0.
func Sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// PercentOfSales is sum(bucket)/sum(revenue), or 0 when revenue sums to zero.
func PercentOfSales(bucketHistory, revenueHistory []float64) float64 {
	totalRev := Sum(revenueHistory)
	if totalRev == 0 {
		return 0.0
	}
	return Sum(bucketHistory) / totalRev
}

// Series extracts one field from every record, preserving order.
func Series(records []models.MonthlyRecord, field func(models.MonthlyRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = field(r)
	}
	return out
}

// CalculateCostRatios derives percent-of-sales ratios for COGS, OpEx and Payroll.
func CalculateCostRatios(records []models.MonthlyRecord) CostRatios {
	revenues := Series(records, func(r models.MonthlyRecord) float64 { return r.Revenue })
	return CostRatios{
		COGSPercent:    PercentOfSales(Series(records, func(r models.MonthlyRecord) float64 { return r.COGS }), revenues),
		OpexPercent:    PercentOfSales(Series(records, func(r models.MonthlyRecord) float64 { return r.Opex }), revenues),
		PayrollPercent: PercentOfSales(Series(records, func(r models.MonthlyRecord) float64 { return r.Payroll }), revenues),
	}
}

// LineItemRatios maps every line item seen in history to its share of total
// historical OpEx. The result is empty when historical OpEx sums to zero.
func LineItemRatios(records []models.MonthlyRecord) map[string]float64 {
	ratios := make(map[string]float64)

	totalOpex := Sum(Series(records, func(r models.MonthlyRecord) float64 { return r.Opex }))
	if totalOpex <= 0 {
		return ratios
	}

	sums := make(map[string]float64)
	for _, r := range records {
		for name, v := range r.LineItems {
			sums[name] += v
		}
	}
	for name, total := range sums {
		ratios[name] = total / totalOpex
	}
	return ratios
}

// ProjectLineItems re-derives granular items from a forecast OpEx figure.
// Each item is rounded on its own, so the total can drift from opex by up to
// one unit per item.
func ProjectLineItems(opex float64, ratios map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(ratios))
	for name, pct := range ratios {
		out[name] = RoundUnits(opex * pct)
	}
	return out
}
