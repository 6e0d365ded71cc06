// Package export renders a project's quantity survey as xlsx or pdf.
package export

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/quantity"
)

// ReportData holds everything needed to render a project report.
type ReportData struct {
	Title       string
	ProjectCode string
	Location    string
	GeneratedAt string
	Rows        []ItemRow
	Totals      []TotalRow
	Findings    []FindingRow
	Risk        *RiskSection
}

// ItemRow is a single line item in the report table.
type ItemRow struct {
	Index       int
	Poz         string
	Description string
	Category    string
	Unit        string
	Dimensions  string
	Multiplier  float64
	Count       float64
	Entered     float64
	Computed    float64
	Flagged     bool
}

// TotalRow sums entered quantities for one category and unit.
type TotalRow struct {
	Category string
	Unit     string
	Entered  float64
	Computed float64
}

// FindingRow is one validator finding.
type FindingRow struct {
	Poz        string
	Severity   string
	Rule       string
	Message    string
	Suggestion string
}

// RiskSection summarizes the latest risk analysis, if any.
type RiskSection struct {
	Score   int
	Summary string
	Source  string
	Model   string
	Notes   []FindingRow
}

// BuildReportData flattens a project into report rows. report may be nil.
func BuildReportData(p *domain.Project, items []domain.LineItem, findings []domain.Finding, report *domain.RiskReport, now time.Time) ReportData {
	data := ReportData{
		Title:       p.Name,
		ProjectCode: p.DisplayID(),
		Location:    p.Location,
		GeneratedAt: now.Format("2006-01-02 15:04"),
		Rows:        make([]ItemRow, 0, len(items)),
		Findings:    make([]FindingRow, 0, len(findings)),
	}

	flagged := map[string]bool{}
	for _, f := range findings {
		if f.Severity == domain.SeverityCritical {
			flagged[f.ItemID] = true
		}
		data.Findings = append(data.Findings, FindingRow{
			Poz:        domain.CoalesceStr(f.PozCode, "-"),
			Severity:   string(f.Severity),
			Rule:       string(f.Rule),
			Message:    f.Message,
			Suggestion: f.Suggestion,
		})
	}

	type key struct{ cat, unit string }
	totals := map[key]*TotalRow{}
	for i, li := range items {
		d := li.Resolve()
		data.Rows = append(data.Rows, ItemRow{
			Index:       i + 1,
			Poz:         li.PozCode,
			Description: li.Description,
			Category:    string(li.Category),
			Unit:        li.Unit,
			Dimensions:  FormatDimensions(li),
			Multiplier:  d.Multiplier,
			Count:       d.Count,
			Entered:     li.TotalQuantity,
			Computed:    li.ComputedQuantity,
			Flagged:     flagged[li.ID],
		})

		k := key{string(li.Category), li.Unit}
		t, ok := totals[k]
		if !ok {
			t = &TotalRow{Category: k.cat, Unit: k.unit}
			totals[k] = t
		}
		t.Entered += li.TotalQuantity
		t.Computed += li.ComputedQuantity
	}
	for _, t := range totals {
		t.Entered = quantity.Round(t.Entered)
		t.Computed = quantity.Round(t.Computed)
		data.Totals = append(data.Totals, *t)
	}
	sort.Slice(data.Totals, func(i, j int) bool {
		if data.Totals[i].Category != data.Totals[j].Category {
			return data.Totals[i].Category < data.Totals[j].Category
		}
		return data.Totals[i].Unit < data.Totals[j].Unit
	})

	if report != nil {
		risk := &RiskSection{
			Score:   report.RiskScore,
			Summary: report.Summary,
			Source:  string(report.Source),
			Model:   report.Model,
		}
		for _, f := range report.Findings {
			risk.Notes = append(risk.Notes, FindingRow{
				Poz:      f.Title,
				Severity: string(f.Severity),
				Message:  f.Detail,
			})
		}
		data.Risk = risk
	}
	return data
}

// FormatDimensions renders x × y × z, with "-" for absent values.
func FormatDimensions(li domain.LineItem) string {
	parts := make([]string, 0, 3)
	for _, v := range []*float64{li.X, li.Y, li.Z} {
		parts = append(parts, formatOptional(v))
	}
	return strings.Join(parts, " × ")
}

func formatOptional(v *float64) string {
	if v == nil || *v == 0 {
		return "-"
	}
	return FormatQty(*v)
}

// FormatQty prints a quantity without trailing zeros.
func FormatQty(v float64) string {
	return strconv.FormatFloat(quantity.Round(v), 'f', -1, 64)
}
