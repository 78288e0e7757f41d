// Package assumption holds the request-time knobs a user can set on top of
// the computed forecast: a manual revenue growth rate, an effective tax rate
// and additional annual capex.
package assumption

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"fincast/pkg/core/utils"
)

// Override keys as they appear in the request payload.
const (
	KeyRevenueGrowth = "revenue_growth" // percent per month
	KeyTaxRate       = "tax_rate"       // percent
	KeyNewCapex      = "new_capex"      // absolute, annual
)

// Overrides are the parsed knobs. Rates are decimals (10% = 0.10).
// A nil rate means the knob was absent or invalid and the computed default applies.
type Overrides struct {
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	TaxRate       *float64 `json:"tax_rate,omitempty"`
	NewCapex      float64  `json:"new_capex,omitempty"`
}

// TaxRateOr returns the overridden tax rate, or def when none was given.
func (o Overrides) TaxRateOr(def float64) float64 {
	if o.TaxRate != nil {
		return *o.TaxRate
	}
	return def
}

// HasManualGrowth reports whether the revenue forecast should bypass the selector.
func (o Overrides) HasManualGrowth() bool {
	return o.RevenueGrowth != nil
}

// MaxTaxRatePercent is the largest accepted tax_rate override.
const MaxTaxRatePercent = 100.0

// Parse reads overrides from a loosely typed map. Values may be numbers or
// numeric strings. Blank values are treated as absent; anything that does not
// parse, or falls outside the knob's range, is logged and ignored.
func Parse(raw map[string]interface{}) Overrides {
	var o Overrides

	if v, ok := number(raw, KeyRevenueGrowth); ok {
		g := v / 100.0
		o.RevenueGrowth = &g
	}
	if v, ok := number(raw, KeyTaxRate); ok && inRange(KeyTaxRate, v, 0, MaxTaxRatePercent) {
		r := v / 100.0
		o.TaxRate = &r
	}
	if v, ok := number(raw, KeyNewCapex); ok && inRange(KeyNewCapex, v, 0, math.Inf(1)) {
		o.NewCapex = v
	}
	return o
}

// ParseJSON decodes a JSON (or hand-edited, JSON-like) override payload.
// An empty payload yields empty overrides.
func ParseJSON(payload string) (Overrides, error) {
	if strings.TrimSpace(payload) == "" {
		return Overrides{}, nil
	}
	var raw map[string]interface{}
	if _, err := utils.DecodeLenient(payload, &raw); err != nil {
		return Overrides{}, fmt.Errorf("failed to parse overrides: %w", err)
	}
	return Parse(raw), nil
}

func number(raw map[string]interface{}, key string) (float64, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		log.Printf("[Overrides] ignoring %s=%q: not a number", key, s)
		return 0, false
	}
	return f, true
}

func inRange(key string, v, lo, hi float64) bool {
	if v < lo || v > hi {
		log.Printf("[Overrides] ignoring %s=%g: outside [%g, %g]", key, v, lo, hi)
		return false
	}
	return true
}
