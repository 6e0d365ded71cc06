package domain

// Finding describes one problem detected on a line item by a validation pass.
type Finding struct {
	ItemID      string   `json:"item_id"`
	PozCode     string   `json:"poz_code"`
	Rule        RuleCode `json:"rule"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	StandardRef string   `json:"standard_ref"`
	Suggestion  string   `json:"suggestion"`
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int, len(ValidSeverities))
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
