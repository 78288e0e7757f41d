// Package cashflow bridges projected accrual profit to cash, month by month,
// using the indirect method.
package cashflow

import (
	"fmt"
	"log"

	"fincast/pkg/core/calc"
	"fincast/pkg/core/tax"
	"fincast/pkg/models"
)

// Drivers are the forecast series and fixed ratios the bridge consumes.
// Revenue, Debt and Capex must each cover tax.ScheduleMonths months.
type Drivers struct {
	Revenue []float64
	Debt    []float64
	Capex   []float64

	Ratios         calc.CostRatios
	LineItemRatios map[string]float64

	// ManualCapex is an additional annual capex amount spread evenly over the year.
	ManualCapex float64
	TaxRate     float64

	// Last is the most recent actual month. It seeds AR, AP and cash.
	Last models.MonthlyRecord
}

// Result is the projected model plus the tax schedule it was built against.
type Result struct {
	Rows []models.ThreeWayModelRow
	Tax  tax.Schedule
}

// monthIncome is one projected month of the income statement, unrounded.
type monthIncome struct {
	revenue   float64
	cogs      float64
	opex      float64
	payroll   float64
	ebitda    float64
	debt      float64
	capex     float64
	netProfit float64 // EBT
}

// Engine runs the bridge.
type Engine struct {
	drivers Drivers
}

// NewEngine validates the drivers and returns an engine ready to Project.
func NewEngine(d Drivers) (*Engine, error) {
	n := tax.ScheduleMonths
	if len(d.Revenue) != n || len(d.Debt) != n || len(d.Capex) != n {
		return nil, fmt.Errorf("cash-flow bridge needs %d months of revenue, debt and capex, got %d/%d/%d",
			n, len(d.Revenue), len(d.Debt), len(d.Capex))
	}
	return &Engine{drivers: d}, nil
}

// Project computes the full-year EBT first to fix the tax schedule, then
// builds each month's row against that schedule.
func (e *Engine) Project() (*Result, error) {
	// Pass 1: income for every month, then the annual tax schedule
	incomes := make([]monthIncome, len(e.drivers.Revenue))
	ebt := make([]float64, len(incomes))
	for i := range incomes {
		incomes[i] = e.projectIncome(i)
		ebt[i] = incomes[i].netProfit
	}

	schedule, err := tax.ComputeSchedule(ebt, e.drivers.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule advance tax: %w", err)
	}

	// Pass 2: working capital and cash
	rows := e.projectCashFlow(incomes, schedule)
	if check := Verify(rows, calc.RoundUnits(e.drivers.Last.CashBalance)); !check.IsBalanced {
		for _, w := range check.Warnings {
			log.Printf("[Bridge] WARNING: %s", w)
		}
	}
	log.Printf("[Bridge] projected %d months, advance tax %.2f, ending cash %.0f",
		len(rows), schedule.Total(), rows[len(rows)-1].EndingCash)

	return &Result{Rows: rows, Tax: schedule}, nil
}

func (e *Engine) projectIncome(i int) monthIncome {
	d := e.drivers
	rev := d.Revenue[i]

	m := monthIncome{
		revenue: rev,
		cogs:    rev * d.Ratios.COGSPercent,
		opex:    rev * d.Ratios.OpexPercent,
		payroll: rev * d.Ratios.PayrollPercent,
		debt:    d.Debt[i],
		capex:   d.Capex[i] + d.ManualCapex/12,
	}
	grossProfit := m.revenue - m.cogs
	m.ebitda = grossProfit - m.opex - m.payroll
	m.netProfit = m.ebitda - m.debt - m.capex
	return m
}

// WorkingCapitalRatios fixes AR and AP as shares of revenue and total cost
// from the final actual month. Zero bases fall back to a 1-unit denominator.
func WorkingCapitalRatios(last models.MonthlyRecord) (arPct, apPct float64) {
	lastRev := last.Revenue
	if lastRev <= 0 {
		lastRev = 1
	}
	lastCost := last.TotalCost()
	if lastCost <= 0 {
		lastCost = 1
	}
	return last.ARBalance / lastRev, last.APBalance / lastCost
}

func (e *Engine) projectCashFlow(incomes []monthIncome, schedule tax.Schedule) []models.ThreeWayModelRow {
	last := e.drivers.Last
	arPct, apPct := WorkingCapitalRatios(last)

	prevAR := last.ARBalance
	prevAP := last.APBalance
	runningCash := calc.RoundUnits(last.CashBalance)

	rows := make([]models.ThreeWayModelRow, len(incomes))
	for i, m := range incomes {
		operatingProfitBWC := m.ebitda

		projAR := m.revenue * arPct
		projAP := (m.cogs + m.opex + m.payroll) * apPct

		// Increase in AR is an outflow, increase in AP an inflow
		deltaAR := projAR - prevAR
		deltaAP := projAP - prevAP
		prevAR, prevAP = projAR, projAP

		cashFromOps := operatingProfitBWC + deltaAP - deltaAR
		advanceTax := schedule.Monthly[i]
		netCashOp := cashFromOps - advanceTax
		netCashInv := -m.capex
		netCashFin := -m.debt

		// Cash accumulates the rounded flow
		netCashFlow := calc.RoundUnits(netCashOp + netCashInv + netCashFin)
		runningCash += netCashFlow

		rows[i] = models.ThreeWayModelRow{
			Month:              tax.MonthLabel(i),
			Revenue:            calc.RoundUnits(m.revenue),
			COGS:               calc.RoundUnits(m.cogs),
			Opex:               calc.RoundUnits(m.opex),
			Payroll:            calc.RoundUnits(m.payroll),
			Capex:              calc.RoundUnits(m.capex),
			Debt:               calc.RoundUnits(m.debt),
			EBITDA:             calc.RoundUnits(m.ebitda),
			NetProfit:          calc.RoundUnits(m.netProfit),
			TaxLiability:       calc.RoundUnits(advanceTax),
			OperatingProfitBWC: calc.RoundUnits(operatingProfitBWC),
			DeltaAR:            calc.RoundUnits(deltaAR),
			DeltaAP:            calc.RoundUnits(deltaAP),
			CashFromOperations: calc.RoundUnits(cashFromOps),
			NetCashOperating:   calc.RoundUnits(netCashOp),
			NetCashInvesting:   calc.RoundUnits(netCashInv),
			NetCashFinancing:   calc.RoundUnits(netCashFin),
			NetCashFlow:        netCashFlow,
			EndingCash:         runningCash,
			IsTaxMonth:         advanceTax > 0,
			LineItems:          calc.ProjectLineItems(m.opex, e.drivers.LineItemRatios),
		}
	}
	return rows
}
