package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/service"
)

// FormatFindings renders findings one per block in input order.
func FormatFindings(findings []domain.Finding) string {
	if len(findings) == 0 {
		return StyleGreen.Render("✔ No structural issues found.")
	}
	var b strings.Builder
	for i, f := range findings {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", SeverityBadge(f.Severity), Bold(domain.CoalesceStr(f.PozCode, "(no poz)")), Dim(string(f.Rule)))
		fmt.Fprintf(&b, "  %s\n", f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(&b, "  %s %s\n", StyleBlue.Render("→"), f.Suggestion)
		}
		if f.StandardRef != "" {
			fmt.Fprintf(&b, "  %s\n", Dim(f.StandardRef))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatValidationReport renders the summary totals followed by findings.
func FormatValidationReport(rep *service.ValidationReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", Bold(rep.Project.Name), Dim(rep.Project.DisplayID()))

	b.WriteString(Header("Totals") + "\n")
	rows := make([][]string, 0, len(rep.Summary.Totals))
	for _, t := range rep.Summary.Totals {
		rows = append(rows, []string{
			string(t.Category),
			t.Unit,
			fmt.Sprint(t.Items),
			Qty(t.Entered),
			Qty(t.Computed),
		})
	}
	b.WriteString(RenderTableAligned([]string{"CATEGORY", "UNIT", "ITEMS", "ENTERED", "COMPUTED"}, rows, 2, 3, 4))

	b.WriteString("\n" + Header(fmt.Sprintf("Findings (%d)", len(rep.Findings))) + "\n")
	b.WriteString(FormatFindings(rep.Findings))
	b.WriteString("\n\n")

	s := rep.Summary
	switch {
	case s.CriticalCount > 0:
		b.WriteString(StyleRed.Render(fmt.Sprintf("✖ %d critical finding(s) across %d item(s)", s.CriticalCount, s.ItemCount)))
	case s.WarningCount > 0:
		b.WriteString(StyleYellow.Render(fmt.Sprintf("● %d warning(s) across %d item(s)", s.WarningCount, s.ItemCount)))
	default:
		b.WriteString(StyleGreen.Render(fmt.Sprintf("✔ %d item(s) checked", s.ItemCount)))
	}
	return b.String()
}
