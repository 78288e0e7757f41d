package models

// MonthlyRecord is one normalized month of actuals as produced by ingestion.
// All monetary fields are non-negative absolute magnitudes.
type MonthlyRecord struct {
	Month       string  `json:"month" yaml:"month"`
	Revenue     float64 `json:"revenue" yaml:"revenue"`
	COGS        float64 `json:"cogs" yaml:"cogs"`
	Opex        float64 `json:"opex" yaml:"opex"`
	Payroll     float64 `json:"payroll" yaml:"payroll"`
	DebtService float64 `json:"debt_service" yaml:"debt_service"`
	Capex       float64 `json:"capex" yaml:"capex"`
	ARBalance   float64 `json:"ar_balance" yaml:"ar_balance"`
	APBalance   float64 `json:"ap_balance" yaml:"ap_balance"`
	CashBalance float64 `json:"cash_balance" yaml:"cash_balance"`

	// Granular categories not captured by the five standard cost buckets
	LineItems map[string]float64 `json:"line_items,omitempty" yaml:"line_items,omitempty"`
}

// TotalCost is COGS + OpEx + Payroll, the base that accounts payable is driven from.
func (r MonthlyRecord) TotalCost() float64 {
	return r.COGS + r.Opex + r.Payroll
}

// ThreeWayModelRow is one projected month of the profit-and-cash bridge.
// Monetary fields are rounded to whole currency units.
type ThreeWayModelRow struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	COGS    float64 `json:"cogs"`
	Opex    float64 `json:"opex"`
	Payroll float64 `json:"payroll"`
	Capex   float64 `json:"capex"`
	Debt    float64 `json:"debt"`

	EBITDA       float64 `json:"ebitda"`
	NetProfit    float64 `json:"net_profit"`
	TaxLiability float64 `json:"tax_liability"`

	// Indirect method
	OperatingProfitBWC float64 `json:"operating_profit_bwc"`
	DeltaAR            float64 `json:"delta_ar"`
	DeltaAP            float64 `json:"delta_ap"`
	CashFromOperations float64 `json:"cash_from_operations"`
	NetCashOperating   float64 `json:"net_cash_operating"`
	NetCashInvesting   float64 `json:"net_cash_investing"`
	NetCashFinancing   float64 `json:"net_cash_financing"`
	NetCashFlow        float64 `json:"net_cash_flow"`
	EndingCash         float64 `json:"ending_cash"`

	IsTaxMonth bool               `json:"is_tax_month"`
	LineItems  map[string]float64 `json:"line_items"`
}

// EnvelopePoint is one month of the revenue confidence band.
type EnvelopePoint struct {
	Month    string  `json:"month"`
	Baseline float64 `json:"baseline"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// WaterfallStep is one bar of the cash waterfall for the latest actual month.
type WaterfallStep struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	IsTotal bool    `json:"is_total"`
}

// KPIs are the headline metrics shown alongside the projection.
type KPIs struct {
	Projected12M  float64 `json:"projected_12m"`
	GeoGrowthRate float64 `json:"geo_growth_rate"` // %
	DSO           float64 `json:"calculated_dso"`  // Days
	DPO           float64 `json:"calculated_dpo"`  // Days
	GrossMargin   float64 `json:"gross_margin"`    // %
	NetMargin     float64 `json:"net_margin"`      // %
	EBITDA        float64 `json:"ebitda"`
}

// TaxMetadata describes the advance-tax schedule applied to the projection.
type TaxMetadata struct {
	Schedule           string            `json:"schedule"`
	Installments       map[string]string `json:"installments"`
	EstimatedAnnualTax float64           `json:"estimated_annual_tax"`
	AdvanceTaxExempt   bool              `json:"advance_tax_exempt"`
	ExemptNote         string            `json:"exempt_note,omitempty"`
}
