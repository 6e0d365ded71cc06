package analysis

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/metraj/internal/domain"
)

const (
	criticalWeight = 25
	warningWeight  = 10
	maxRiskScore   = 100
)

// DeterministicScore weighs validator findings into a 0..100 score.
func DeterministicScore(findings []domain.Finding) int {
	counts := domain.CountBySeverity(findings)
	return min(maxRiskScore, criticalWeight*counts[domain.SeverityCritical]+warningWeight*counts[domain.SeverityWarning])
}

// DeterministicReport builds a risk report directly from validator output
// without using the LLM. Used when the LLM is disabled, unreachable, or
// returns output that fails validation.
func DeterministicReport(in AnalysisInput) *domain.RiskReport {
	rep := &domain.RiskReport{
		RiskScore: DeterministicScore(in.Findings),
		Source:    domain.SourceDeterministic,
		Findings:  make([]domain.RiskFinding, 0, len(in.Findings)),
	}
	if in.Project != nil {
		rep.ProjectID = in.Project.ID
	}

	if len(in.Findings) == 0 {
		rep.Summary = fmt.Sprintf("No issues found across %d line item(s). Entered quantities match their dimensions.", len(in.Items))
		return rep
	}

	counts := domain.CountBySeverity(in.Findings)
	rep.Summary = fmt.Sprintf("%d finding(s) across %d line item(s): %d critical, %d warning.",
		len(in.Findings), len(in.Items), counts[domain.SeverityCritical], counts[domain.SeverityWarning])

	for _, f := range in.Findings {
		detail := f.Message
		if f.Suggestion != "" {
			detail += " " + f.Suggestion
		}
		rep.Findings = append(rep.Findings, domain.RiskFinding{
			Title:    ruleTitle(f.Rule) + ": " + domain.CoalesceStr(f.PozCode, "(no poz)"),
			Severity: f.Severity,
			Detail:   strings.TrimSpace(detail),
		})
	}
	return rep
}

func ruleTitle(rule domain.RuleCode) string {
	switch rule {
	case domain.RuleMissingDimension:
		return "Missing dimension"
	case domain.RuleCalculationMismatch:
		return "Quantity mismatch"
	default:
		return string(rule)
	}
}
