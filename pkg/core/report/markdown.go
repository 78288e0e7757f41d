// Package report renders a forecast analysis for people: Markdown for
// terminals and docs, and a standalone HTML page.
package report

import (
	"fmt"
	"sort"
	"strings"

	"fincast/pkg/core/analysis"
)

// Section headings. The HTML renderer locates tables by these.
const (
	headingKPIs      = "Key Metrics"
	headingForecast  = "Revenue Forecast"
	headingModel     = "Three-Way Model"
	headingTax       = "Advance Tax"
	headingWaterfall = "Cash Waterfall"
)

// Markdown renders the analysis as GitHub-flavored Markdown.
func Markdown(a *analysis.ForecastAnalysis) string {
	var sb strings.Builder

	title := "Forecast Analysis"
	if a.Label != "" {
		title += ": " + a.Label
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("- ID: `%s`\n", a.ID))
	sb.WriteString(fmt.Sprintf("- Generated: %s\n", a.CreatedAt.Format("2006-01-02 15:04 MST")))
	sb.WriteString(fmt.Sprintf("- Revenue method: %s\n", a.Method))
	for _, r := range a.RejectedMethods {
		sb.WriteString(fmt.Sprintf("  - rejected %s\n", r))
	}
	sb.WriteString(fmt.Sprintf("- Tax rate: %.2f%%\n", a.Assumptions.TaxRate*100))
	if a.Assumptions.ManualGrowth != nil {
		sb.WriteString(fmt.Sprintf("- Manual growth: %.2f%% per month\n", *a.Assumptions.ManualGrowth*100))
	}
	if a.Assumptions.ManualCapex != 0 {
		sb.WriteString(fmt.Sprintf("- Additional capex: %.0f per year\n", a.Assumptions.ManualCapex))
	}

	k := a.KPIs
	sb.WriteString(fmt.Sprintf("\n## %s\n\n", headingKPIs))
	sb.WriteString("| Metric | Value |\n|---|---:|\n")
	sb.WriteString(fmt.Sprintf("| Projected 12M Revenue | %.0f |\n", k.Projected12M))
	sb.WriteString(fmt.Sprintf("| Geometric Growth | %.2f%% |\n", k.GeoGrowthRate))
	sb.WriteString(fmt.Sprintf("| DSO | %.1f days |\n", k.DSO))
	sb.WriteString(fmt.Sprintf("| DPO | %.1f days |\n", k.DPO))
	sb.WriteString(fmt.Sprintf("| Gross Margin | %.2f%% |\n", k.GrossMargin))
	sb.WriteString(fmt.Sprintf("| Net Margin | %.2f%% |\n", k.NetMargin))
	sb.WriteString(fmt.Sprintf("| EBITDA | %.0f |\n", k.EBITDA))

	sb.WriteString(fmt.Sprintf("\n## %s\n\n", headingForecast))
	sb.WriteString("| Month | Lower | Baseline | Upper |\n|---|---:|---:|---:|\n")
	for _, p := range a.Envelope {
		sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %.0f |\n", p.Month, p.Lower, p.Baseline, p.Upper))
	}

	sb.WriteString(fmt.Sprintf("\n## %s\n\n", headingModel))
	sb.WriteString("| Month | Revenue | COGS | OpEx | Payroll | EBITDA | Net Profit | Tax | ΔAR | ΔAP | CFO | Investing | Financing | Net Cash Flow | Ending Cash |\n")
	sb.WriteString("|---|" + strings.Repeat("---:|", 14) + "\n")
	for _, r := range a.Model {
		sb.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f |\n",
			r.Month, r.Revenue, r.COGS, r.Opex, r.Payroll, r.EBITDA, r.NetProfit, r.TaxLiability,
			r.DeltaAR, r.DeltaAP, r.CashFromOperations, r.NetCashInvesting, r.NetCashFinancing,
			r.NetCashFlow, r.EndingCash))
	}

	t := a.TaxMetadata
	sb.WriteString(fmt.Sprintf("\n## %s\n\n", headingTax))
	sb.WriteString(fmt.Sprintf("%s. Estimated annual tax: %.0f.\n\n", t.Schedule, t.EstimatedAnnualTax))
	labels := make([]string, 0, len(t.Installments))
	for label := range t.Installments {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", label, t.Installments[label]))
	}
	if t.AdvanceTaxExempt {
		sb.WriteString(fmt.Sprintf("\n> %s\n", t.ExemptNote))
	}

	sb.WriteString(fmt.Sprintf("\n## %s\n\n", headingWaterfall))
	sb.WriteString("| Step | Value |\n|---|---:|\n")
	for _, s := range a.Waterfall {
		name := s.Name
		if s.IsTotal {
			name = "**" + name + "**"
		}
		sb.WriteString(fmt.Sprintf("| %s | %.0f |\n", name, s.Value))
	}

	return sb.String()
}
