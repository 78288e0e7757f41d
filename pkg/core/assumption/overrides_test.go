package assumption

import (
	"math"
	"testing"
)

func TestParse_NumbersAndStrings(t *testing.T) {
	o := Parse(map[string]interface{}{
		KeyRevenueGrowth: "10",
		KeyTaxRate:       25.0,
		KeyNewCapex:      " 240000 ",
	})

	if !o.HasManualGrowth() || math.Abs(*o.RevenueGrowth-0.10) > 1e-12 {
		t.Errorf("expected growth 0.10, got %v", o.RevenueGrowth)
	}
	if math.Abs(o.TaxRateOr(0.15)-0.25) > 1e-12 {
		t.Errorf("expected tax rate 0.25, got %f", o.TaxRateOr(0.15))
	}
	if o.NewCapex != 240000 {
		t.Errorf("expected capex 240000, got %f", o.NewCapex)
	}
}

func TestParse_InvalidValuesIgnored(t *testing.T) {
	o := Parse(map[string]interface{}{
		KeyRevenueGrowth: "ten percent",
		KeyTaxRate:       "",
		KeyNewCapex:      "NaN",
	})

	if o.HasManualGrowth() {
		t.Error("unparseable growth should be ignored")
	}
	if o.TaxRateOr(0.15) != 0.15 {
		t.Errorf("blank tax rate should fall back to default, got %f", o.TaxRateOr(0.15))
	}
	if o.NewCapex != 0 {
		t.Errorf("NaN capex should be ignored, got %f", o.NewCapex)
	}
}

func TestParse_Empty(t *testing.T) {
	o := Parse(nil)
	if o.HasManualGrowth() || o.TaxRate != nil || o.NewCapex != 0 {
		t.Errorf("expected empty overrides, got %+v", o)
	}

	o = Parse(map[string]interface{}{KeyRevenueGrowth: nil})
	if o.HasManualGrowth() {
		t.Error("null growth should be treated as absent")
	}
}

func TestParse_NegativeGrowthAllowed(t *testing.T) {
	o := Parse(map[string]interface{}{KeyRevenueGrowth: -5})
	if !o.HasManualGrowth() || math.Abs(*o.RevenueGrowth+0.05) > 1e-12 {
		t.Errorf("expected growth -0.05, got %v", o.RevenueGrowth)
	}
}

func TestParseJSON(t *testing.T) {
	o, err := ParseJSON(`{revenue_growth: "4.5", tax_rate: 30,}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.HasManualGrowth() || math.Abs(*o.RevenueGrowth-0.045) > 1e-12 {
		t.Errorf("expected growth 0.045, got %v", o.RevenueGrowth)
	}
	if math.Abs(o.TaxRateOr(0.15)-0.30) > 1e-12 {
		t.Errorf("expected tax rate 0.30, got %f", o.TaxRateOr(0.15))
	}

	o, err = ParseJSON("   ")
	if err != nil || o.HasManualGrowth() {
		t.Errorf("blank payload should yield empty overrides, got %+v, %v", o, err)
	}
}

func TestParse_OutOfRangeValuesIgnored(t *testing.T) {
	o := Parse(map[string]interface{}{
		KeyTaxRate:  -25,
		KeyNewCapex: "-1200000",
	})
	if o.TaxRate != nil {
		t.Errorf("negative tax rate should be ignored, got %v", *o.TaxRate)
	}
	if o.NewCapex != 0 {
		t.Errorf("negative capex should be ignored, got %f", o.NewCapex)
	}

	o = Parse(map[string]interface{}{KeyTaxRate: "150"})
	if o.TaxRateOr(0.15) != 0.15 {
		t.Errorf("tax rate above 100%% should fall back to default, got %f", o.TaxRateOr(0.15))
	}

	// Bounds are inclusive
	o = Parse(map[string]interface{}{KeyTaxRate: 0, KeyNewCapex: 0})
	if o.TaxRate == nil || *o.TaxRate != 0 {
		t.Errorf("zero tax rate is valid, got %v", o.TaxRate)
	}
	o = Parse(map[string]interface{}{KeyTaxRate: 100})
	if o.TaxRate == nil || *o.TaxRate != 1 {
		t.Errorf("100%% tax rate is valid, got %v", o.TaxRate)
	}
}
