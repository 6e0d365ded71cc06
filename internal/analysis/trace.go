package analysis

import (
	"github.com/alexanderramin/metraj/internal/domain"
)

// AnalysisInput is everything the analyzer looks at: the project, its line
// items and the findings the structural validator produced for them.
type AnalysisInput struct {
	Project  *domain.Project
	Items    []domain.LineItem
	Findings []domain.Finding
}

// AnalysisTrace is the JSON view of an AnalysisInput handed to the model.
type AnalysisTrace struct {
	ProjectName string             `json:"project_name"`
	Location    string             `json:"location,omitempty"`
	ItemCount   int                `json:"item_count"`
	Counts      map[string]int     `json:"finding_counts"`
	Items       []ItemTraceItem    `json:"items"`
	Findings    []FindingTraceItem `json:"findings"`
}

// ItemTraceItem captures one line item with both quantities.
type ItemTraceItem struct {
	Poz         string  `json:"poz"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	Entered     float64 `json:"entered_quantity"`
	Computed    float64 `json:"computed_quantity"`
}

// FindingTraceItem captures a single validator finding.
type FindingTraceItem struct {
	Poz      string `json:"poz"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// BuildTrace flattens the input for prompting.
func BuildTrace(in AnalysisInput) AnalysisTrace {
	tr := AnalysisTrace{
		ItemCount: len(in.Items),
		Counts:    map[string]int{},
		Items:     make([]ItemTraceItem, 0, len(in.Items)),
		Findings:  make([]FindingTraceItem, 0, len(in.Findings)),
	}
	if in.Project != nil {
		tr.ProjectName = in.Project.Name
		tr.Location = in.Project.Location
	}
	for _, li := range in.Items {
		tr.Items = append(tr.Items, ItemTraceItem{
			Poz:         li.DisplayPoz(),
			Description: li.Description,
			Category:    string(li.Category),
			Unit:        li.Unit,
			Entered:     li.TotalQuantity,
			Computed:    li.ComputedQuantity,
		})
	}
	for sev, n := range domain.CountBySeverity(in.Findings) {
		tr.Counts[string(sev)] = n
	}
	for _, f := range in.Findings {
		tr.Findings = append(tr.Findings, FindingTraceItem{
			Poz:      f.PozCode,
			Rule:     string(f.Rule),
			Severity: string(f.Severity),
			Message:  f.Message,
		})
	}
	return tr
}
