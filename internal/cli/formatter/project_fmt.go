package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/metraj/internal/domain"
)

// FormatProjectList renders projects as a table.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "LOCATION", "STATUS", "UPDATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		id := p.DisplayID()
		if id == "" {
			id = "--"
		}
		rows = append(rows, []string{
			StyleBold.Render(id),
			p.Name,
			domain.CoalesceStr(p.Location, "--"),
			StatusPill(p.Status),
			Dim(HumanTimestamp(p.UpdatedAt)),
		})
	}
	return RenderTable(headers, rows)
}

// ProjectInspectData groups what the inspect view shows.
type ProjectInspectData struct {
	Project       *domain.Project
	ItemCount     int
	CriticalCount int
	WarningCount  int
	LatestReport  *domain.RiskReport
}

// FormatProjectInspect renders a project summary box.
func FormatProjectInspect(d ProjectInspectData) string {
	p := d.Project
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(p.Name), StatusPill(p.Status))
	fmt.Fprintf(&b, "%s %s\n", Dim("ID:      "), p.DisplayID())
	fmt.Fprintf(&b, "%s %s\n", Dim("UUID:    "), p.ID)
	fmt.Fprintf(&b, "%s %s\n", Dim("Location:"), domain.CoalesceStr(p.Location, "--"))
	fmt.Fprintf(&b, "%s %d\n", Dim("Items:   "), d.ItemCount)

	issues := StyleGreen.Render("none")
	if d.CriticalCount > 0 || d.WarningCount > 0 {
		issues = fmt.Sprintf("%s, %s",
			SeverityStyle(domain.SeverityCritical).Render(fmt.Sprintf("%d critical", d.CriticalCount)),
			SeverityStyle(domain.SeverityWarning).Render(fmt.Sprintf("%d warning", d.WarningCount)))
	}
	fmt.Fprintf(&b, "%s %s", Dim("Findings:"), issues)

	if r := d.LatestReport; r != nil {
		fmt.Fprintf(&b, "\n%s %s  %s  %s", Dim("Risk:    "),
			ScoreStyle(r.RiskScore).Render(fmt.Sprintf("%d/100", r.RiskScore)),
			SourceBadge(r.Source, r.Model),
			Dim(HumanTimestamp(r.CreatedAt)))
	}
	return RenderBox("project", b.String())
}
