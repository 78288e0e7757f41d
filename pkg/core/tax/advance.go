// Package tax schedules statutory advance-tax installments over a 12-month
// projection (Section 211 of the Indian Income Tax Act, non-presumptive taxpayers).
//
// The fiscal year runs April to March, so forecast months M1..M12 are
// Apr..Mar and the installments fall on Jun 15, Sep 15, Dec 15 and Mar 15.
package tax

import (
	"fmt"
	"log"

	"fincast/pkg/core/calc"
	"fincast/pkg/models"
)

// ScheduleMonths is the number of forecast months the schedule covers.
const ScheduleMonths = 12

// DefaultRate is the effective tax rate applied when no override is given.
const DefaultRate = 0.15

// DefaultExemptionThreshold is the Section 208 limit below which advance tax
// is not mandatory.
const DefaultExemptionThreshold = 10000.0

// Installment is one statutory payment: the 0-indexed forecast month and the
// incremental share of the annual liability due in it.
type Installment struct {
	MonthIndex int
	Percent    float64
	Label      string
	Note       string
}

// installments is the fixed statutory table. Shares sum to 1.0.
var installments = [...]Installment{
	{MonthIndex: 2, Percent: 0.15, Label: "Q1_Jun15", Note: "15% of estimated annual liability"},
	{MonthIndex: 5, Percent: 0.30, Label: "Q2_Sep15", Note: "30% incremental (45% cumulative)"},
	{MonthIndex: 8, Percent: 0.30, Label: "Q3_Dec15", Note: "30% incremental (75% cumulative)"},
	{MonthIndex: 11, Percent: 0.25, Label: "Q4_Mar15", Note: "25% incremental (100% cumulative)"},
}

var fiscalMonths = [ScheduleMonths]string{
	"Apr", "May", "Jun", "Jul", "Aug", "Sep",
	"Oct", "Nov", "Dec", "Jan", "Feb", "Mar",
}

// Installments returns a copy of the statutory installment table.
func Installments() []Installment {
	out := make([]Installment, len(installments))
	copy(out, installments[:])
	return out
}

// MonthLabel returns the fiscal month name for a 0-indexed forecast month,
// or "M<n>" past the end of the fiscal year.
func MonthLabel(i int) string {
	if i >= 0 && i < len(fiscalMonths) {
		return fiscalMonths[i]
	}
	return fmt.Sprintf("M%d", i+1)
}

// MonthLabels returns labels for the first n forecast months.
func MonthLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = MonthLabel(i)
	}
	return out
}

// Schedule is the advance-tax outflow per forecast month.
type Schedule struct {
	Monthly         [ScheduleMonths]float64
	AnnualEstimate  float64 // sum of monthly pre-tax profit
	AnnualLiability float64 // AnnualEstimate * rate, 0 for a projected loss
}

// Total is the sum of all installments.
func (s Schedule) Total() float64 {
	total := 0.0
	for _, v := range s.Monthly {
		total += v
	}
	return total
}

// IsTaxMonth reports whether month i carries an installment.
func (s Schedule) IsTaxMonth(i int) bool {
	return i >= 0 && i < ScheduleMonths && s.Monthly[i] > 0
}

// Exempt reports whether the total liability is under the mandatory threshold.
// Exemption is advisory: the installments are still provisioned.
func (s Schedule) Exempt(threshold float64) bool {
	return s.Total() < threshold
}

// ComputeSchedule distributes the annual liability implied by 12 months of
// projected pre-tax profit across the statutory installment months.
// A projected annual loss yields no advance tax.
func ComputeSchedule(monthlyPretaxProfit []float64, rate float64) (Schedule, error) {
	var sched Schedule
	if len(monthlyPretaxProfit) != ScheduleMonths {
		return sched, fmt.Errorf("advance tax schedule requires %d months of profit, got %d", ScheduleMonths, len(monthlyPretaxProfit))
	}

	sched.AnnualEstimate = calc.Sum(monthlyPretaxProfit)
	if sched.AnnualEstimate <= 0 {
		return sched, nil
	}

	sched.AnnualLiability = sched.AnnualEstimate * rate
	for _, inst := range installments {
		sched.Monthly[inst.MonthIndex] = calc.Round(sched.AnnualLiability*inst.Percent, 2)
	}
	return sched, nil
}

// Metadata describes a schedule for presentation.
func Metadata(sched Schedule, exemptionThreshold float64) models.TaxMetadata {
	meta := models.TaxMetadata{
		Schedule:           "Section 211 - Indian Income Tax Act",
		Installments:       make(map[string]string, len(installments)),
		EstimatedAnnualTax: calc.RoundUnits(sched.Total()),
		AdvanceTaxExempt:   sched.Exempt(exemptionThreshold),
	}
	for _, inst := range installments {
		meta.Installments[inst.Label] = inst.Note
	}
	if meta.AdvanceTaxExempt {
		meta.ExemptNote = fmt.Sprintf("Section 208: No advance tax required if total liability < %.0f", exemptionThreshold)
		log.Printf("[Tax] estimated liability %.2f below %.0f: advance tax not mandatory", sched.Total(), exemptionThreshold)
	}
	return meta
}
