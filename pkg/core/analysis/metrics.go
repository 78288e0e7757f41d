package analysis

import (
	"fincast/pkg/core/calc"
	"fincast/pkg/models"
)

// ComputeKPIs derives headline metrics from the ledger and the revenue forecast.
// Margins and EBITDA describe the most recent actual month.
func ComputeKPIs(records []models.MonthlyRecord, revenueForecast []float64) models.KPIs {
	if len(records) == 0 {
		return models.KPIs{}
	}
	last := records[len(records)-1]
	revenues := calc.Series(records, func(r models.MonthlyRecord) float64 { return r.Revenue })
	cogs := calc.Series(records, func(r models.MonthlyRecord) float64 { return r.COGS })

	newestFirst := make([]float64, len(revenues))
	for i, v := range revenues {
		newestFirst[len(revenues)-1-i] = v
	}

	grossProfit := last.Revenue - last.COGS
	ebitda := grossProfit - last.Opex - last.Payroll
	netProfit := ebitda - last.DebtService - last.Capex

	var grossMargin, netMargin float64
	if last.Revenue > 0 {
		grossMargin = grossProfit / last.Revenue * 100
		netMargin = netProfit / last.Revenue * 100
	}

	return models.KPIs{
		Projected12M:  calc.RoundUnits(calc.Sum(revenueForecast)),
		GeoGrowthRate: calc.Round(calc.GeometricGrowth(revenues)*100, 2),
		DSO:           calc.Round(calc.CountbackDSO(last.ARBalance, newestFirst), 1),
		DPO:           calc.Round(calc.PayableDays(last.APBalance, cogs), 1),
		GrossMargin:   calc.Round(grossMargin, 2),
		NetMargin:     calc.Round(netMargin, 2),
		EBITDA:        calc.RoundUnits(ebitda),
	}
}

// BuildWaterfall walks cash from the prior month's close to the latest close
// through the latest month's flows. Optional cost lines appear only when non-zero.
// The advance tax line is an indicative provision on that month's profit at
// taxRate; the installment schedule on the projection is authoritative.
func BuildWaterfall(records []models.MonthlyRecord, taxRate float64) []models.WaterfallStep {
	if len(records) == 0 {
		return nil
	}
	last := records[len(records)-1]
	startCash := 0.0
	if len(records) >= 2 {
		startCash = records[len(records)-2].CashBalance
	}

	steps := []models.WaterfallStep{
		{Name: "Start Cash", Value: calc.RoundUnits(startCash), IsTotal: true},
		{Name: "Revenue", Value: calc.RoundUnits(last.Revenue)},
		{Name: "COGS", Value: calc.RoundUnits(-last.COGS)},
	}

	optional := []struct {
		name  string
		value float64
	}{
		{"OpEx", last.Opex},
		{"Payroll", last.Payroll},
		{"Debt / EMI", last.DebtService},
		{"Capex", last.Capex},
	}
	for _, o := range optional {
		if o.value > 0 {
			steps = append(steps, models.WaterfallStep{Name: o.name, Value: calc.RoundUnits(-o.value)})
		}
	}

	netProfit := last.Revenue - last.TotalCost() - last.DebtService - last.Capex
	if netProfit > 0 {
		if provision := calc.RoundUnits(netProfit * taxRate); provision > 0 {
			steps = append(steps, models.WaterfallStep{Name: "Adv. Tax", Value: -provision})
		}
	}

	return append(steps, models.WaterfallStep{Name: "End Cash", Value: calc.RoundUnits(last.CashBalance), IsTotal: true})
}
