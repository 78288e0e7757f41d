package analysis

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"fincast/pkg/core/assumption"
	"fincast/pkg/core/calc"
	"fincast/pkg/core/cashflow"
	"fincast/pkg/core/projection"
	"fincast/pkg/core/tax"
	"fincast/pkg/models"
)

// Settings are the tunable constants of an analysis run.
type Settings struct {
	DefaultTaxRate     float64
	ExemptionThreshold float64
	SanityMultiple     float64
	FitTimeout         time.Duration
}

// DefaultSettings returns the statutory defaults.
func DefaultSettings() Settings {
	return Settings{
		DefaultTaxRate:     tax.DefaultRate,
		ExemptionThreshold: tax.DefaultExemptionThreshold,
		SanityMultiple:     projection.DefaultSanityMultiple,
		FitTimeout:         projection.DefaultFitTimeout,
	}
}

// AnalysisEngine turns a monthly ledger into a 12-month forecast, a
// three-way cash model and the headline metrics around it.
// It holds no per-request state and is safe for concurrent use.
type AnalysisEngine struct {
	settings Settings
	selector *projection.StrategySelector
}

// NewAnalysisEngine creates a new instance of the engine.
func NewAnalysisEngine(settings Settings) *AnalysisEngine {
	return &AnalysisEngine{
		settings: settings,
		selector: &projection.StrategySelector{
			SanityMultiple: settings.SanityMultiple,
			FitTimeout:     settings.FitTimeout,
		},
	}
}

// Analyze runs the full pipeline over chronologically ordered records.
func (e *AnalysisEngine) Analyze(records []models.MonthlyRecord, overrides assumption.Overrides) (*ForecastAnalysis, error) {
	if len(records) < MinHistoryMonths {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientData, len(records))
	}

	last := records[len(records)-1]
	revenues := calc.Series(records, func(r models.MonthlyRecord) float64 { return r.Revenue })

	// 1. Top line
	revenueForecast := e.forecastRevenue(revenues, overrides)

	// 2. Cost structure
	ratios := calc.CalculateCostRatios(records)
	lineItemRatios := calc.LineItemRatios(records)

	// 3. Debt service and capex carry their own compounded growth
	growth := &projection.ConstantGrowthStrategy{}
	debtForecast, err := growth.Forecast(calc.Series(records, func(r models.MonthlyRecord) float64 { return r.DebtService }), tax.ScheduleMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to forecast debt service: %w", err)
	}
	capexForecast, err := growth.Forecast(calc.Series(records, func(r models.MonthlyRecord) float64 { return r.Capex }), tax.ScheduleMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to forecast capex: %w", err)
	}

	// 4. Three-way bridge
	taxRate := overrides.TaxRateOr(e.settings.DefaultTaxRate)
	bridge, err := cashflow.NewEngine(cashflow.Drivers{
		Revenue:        revenueForecast.Values,
		Debt:           debtForecast,
		Capex:          capexForecast,
		Ratios:         ratios,
		LineItemRatios: lineItemRatios,
		ManualCapex:    overrides.NewCapex,
		TaxRate:        taxRate,
		Last:           last,
	})
	if err != nil {
		return nil, err
	}
	projected, err := bridge.Project()
	if err != nil {
		return nil, fmt.Errorf("failed to project cash flow: %w", err)
	}

	arPct, apPct := cashflow.WorkingCapitalRatios(last)

	return &ForecastAnalysis{
		ID:              uuid.New().String(),
		CreatedAt:       time.Now().UTC(),
		Method:          revenueForecast.Method,
		RejectedMethods: revenueForecast.Rejected,
		KPIs:            ComputeKPIs(records, revenueForecast.Values),
		Envelope:        projection.ConfidenceEnvelope(revenueForecast.Values, tax.MonthLabels(len(revenueForecast.Values))),
		Waterfall:       BuildWaterfall(records, taxRate),
		Model:           projected.Rows,
		TaxMetadata:     tax.Metadata(projected.Tax, e.settings.ExemptionThreshold),
		Assumptions: AppliedAssumptions{
			CostRatios:     ratios,
			LineItemRatios: lineItemRatios,
			ARPercent:      arPct,
			APPercent:      apPct,
			TaxRate:        taxRate,
			ManualGrowth:   overrides.RevenueGrowth,
			ManualCapex:    overrides.NewCapex,
		},
	}, nil
}

// forecastRevenue uses the manual growth override when present, otherwise
// the adaptive selector.
func (e *AnalysisEngine) forecastRevenue(revenues []float64, overrides assumption.Overrides) projection.ForecastResult {
	if overrides.HasManualGrowth() {
		manual := &projection.ManualGrowthStrategy{GrowthRate: *overrides.RevenueGrowth}
		values, err := manual.Forecast(revenues, tax.ScheduleMonths)
		if err == nil {
			log.Printf("[Forecast] manual growth %.4f applied", *overrides.RevenueGrowth)
			return projection.ForecastResult{Values: values, Method: manual.Name()}
		}
		log.Printf("[Forecast] manual growth failed, using selector: %v", err)
	}

	result := e.selector.Forecast(revenues, tax.ScheduleMonths)
	log.Printf("[Forecast] %d months of history -> %s", len(revenues), result.Method)
	return result
}
