package analysis

import (
	"errors"
	"time"

	"fincast/pkg/core/calc"
	"fincast/pkg/models"
)

// MinHistoryMonths is the shortest ledger the engine will forecast from.
const MinHistoryMonths = 3

// ErrInsufficientData is returned when fewer than MinHistoryMonths records are supplied.
var ErrInsufficientData = errors.New("data must contain at least 3 months of chronological records")

// ForecastAnalysis is the complete output of one analysis request.
type ForecastAnalysis struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Revenue forecast provenance
	Method          string   `json:"method"`
	RejectedMethods []string `json:"rejected_methods,omitempty"`

	KPIs        models.KPIs               `json:"kpis"`
	Envelope    []models.EnvelopePoint    `json:"area_data"`
	Waterfall   []models.WaterfallStep    `json:"waterfall_data"`
	Model       []models.ThreeWayModelRow `json:"three_way_model"`
	TaxMetadata models.TaxMetadata        `json:"tax_metadata"`
	Assumptions AppliedAssumptions        `json:"assumptions"`
}

// AppliedAssumptions records the drivers the projection was built with.
type AppliedAssumptions struct {
	CostRatios     calc.CostRatios    `json:"cost_ratios"`
	LineItemRatios map[string]float64 `json:"line_item_ratios,omitempty"`
	ARPercent      float64            `json:"ar_pct"`
	APPercent      float64            `json:"ap_pct"`
	TaxRate        float64            `json:"tax_rate"`
	ManualGrowth   *float64           `json:"manual_growth,omitempty"`
	ManualCapex    float64            `json:"manual_capex,omitempty"`
}
