package domain

import "time"

// RiskReport is the narrative analysis attached to a project's validation pass.
type RiskReport struct {
	ID        string        `json:"id"`
	ProjectID string        `json:"project_id"`
	RiskScore int           `json:"risk_score"`
	Summary   string        `json:"summary"`
	Findings  []RiskFinding `json:"findings"`
	Source    ReportSource  `json:"source"`
	Model     string        `json:"model,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// RiskFinding is a titled observation within a RiskReport.
type RiskFinding struct {
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	Detail   string   `json:"detail"`
}
