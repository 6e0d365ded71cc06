package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/metraj/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderScoreBar renders a risk score as [████░░░░] 45/100.
func RenderScoreBar(score, width int) string {
	score = min(max(score, 0), 100)
	width = max(width, 2)
	filled := score * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %d/100", ScoreStyle(score).Render(bar), score)
}

// FormatRiskReport renders a full risk report.
func FormatRiskReport(r *domain.RiskReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", RenderScoreBar(r.RiskScore, 20), SourceBadge(r.Source, r.Model))
	b.WriteString(r.Summary)

	if len(r.Findings) > 0 {
		b.WriteString("\n\n")
		for i, f := range r.Findings {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s  %s", SeverityBadge(f.Severity), Bold(f.Title))
			if f.Detail != "" {
				fmt.Fprintf(&b, "\n  %s", f.Detail)
			}
		}
	}
	return RenderBox("risk analysis", b.String())
}

// FormatHistory renders past reports, newest first.
func FormatHistory(reports []*domain.RiskReport) string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			Dim(HumanTimestamp(r.CreatedAt)),
			ScoreStyle(r.RiskScore).Render(fmt.Sprint(r.RiskScore)),
			SourceBadge(r.Source, r.Model),
			fmt.Sprint(len(r.Findings)),
			Truncate(r.Summary, 60),
		})
	}
	return RenderTableAligned([]string{"WHEN", "SCORE", "SOURCE", "NOTES", "SUMMARY"}, rows, 1, 3)
}
