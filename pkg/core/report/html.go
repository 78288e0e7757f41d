package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fincast/pkg/core/analysis"
	"fincast/pkg/core/utils"
)

const stylesheet = `body{font-family:sans-serif;margin:2em}
table{border-collapse:collapse;margin-bottom:1.5em}
th,td{border:1px solid #ccc;padding:4px 8px}
tr.tax-month{background:#fff4e0}
td.negative{color:#b00}`

// HTML renders the analysis as a standalone HTML page. Tax-month rows of the
// model are highlighted and negative figures are marked.
func HTML(a *analysis.ForecastAnalysis) (string, error) {
	body, err := utils.RenderHTML(Markdown(a))
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered report: %w", err)
	}

	doc.Find("head").AppendHtml(fmt.Sprintf("<meta charset=\"utf-8\"><title>%s</title><style>%s</style>",
		html.EscapeString(doc.Find("h1").First().Text()), stylesheet))

	if model := sectionTable(doc, headingModel); model.Length() > 0 {
		model.SetAttr("id", "three-way-model")
		model.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
			if i < len(a.Model) && a.Model[i].IsTaxMonth {
				row.AddClass("tax-month")
			}
		})
	}

	doc.Find("td").Each(func(_ int, cell *goquery.Selection) {
		if strings.HasPrefix(strings.TrimSpace(cell.Text()), "-") {
			cell.AddClass("negative")
		}
	})

	out, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	return "<!DOCTYPE html>\n" + out, nil
}

// sectionTable returns the first table following the h2 with the given text.
func sectionTable(doc *goquery.Document, heading string) *goquery.Selection {
	return doc.Find("h2").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return strings.TrimSpace(h.Text()) == heading
	}).First().NextAllFiltered("table").First()
}
