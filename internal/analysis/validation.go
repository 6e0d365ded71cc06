package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/cockroachdb/errors"
)

// riskResponse is the JSON shape requested from the model.
type riskResponse struct {
	RiskScore float64              `json:"risk_score"`
	Summary   string               `json:"summary"`
	Findings  []domain.RiskFinding `json:"findings"`
}

// validateResponse checks the model output for range errors and for
// consistency with the validator findings it was given. Severities are
// normalized to upper case in place.
func validateResponse(resp *riskResponse, in AnalysisInput) error {
	var problems []string

	if math.IsNaN(resp.RiskScore) || resp.RiskScore < 0 || resp.RiskScore > 100 {
		problems = append(problems, "risk_score must be within 0..100")
	}
	if strings.TrimSpace(resp.Summary) == "" {
		problems = append(problems, "summary is empty")
	}

	modelCritical := 0
	for i := range resp.Findings {
		f := &resp.Findings[i]
		f.Severity = domain.Severity(strings.ToUpper(strings.TrimSpace(string(f.Severity))))
		if !domain.ValidSeverities[f.Severity] {
			problems = append(problems, fmt.Sprintf("finding %q has unknown severity %q", f.Title, f.Severity))
		}
		if strings.TrimSpace(f.Title) == "" {
			problems = append(problems, "finding without title")
		}
		if f.Severity == domain.SeverityCritical {
			modelCritical++
		}
	}

	inputCritical := domain.CountBySeverity(in.Findings)[domain.SeverityCritical]
	switch {
	case inputCritical > 0 && modelCritical == 0:
		problems = append(problems, "validator reported critical findings but the response has none")
	case inputCritical > 0:
		for _, f := range in.Findings {
			if f.Severity == domain.SeverityCritical && f.PozCode != "" && !mentionsPoz(resp, f.PozCode) {
				problems = append(problems, fmt.Sprintf("critical finding for poz %q is not referenced", f.PozCode))
			}
		}
	case len(in.Findings) == 0 && modelCritical > 0:
		problems = append(problems, "response reports critical findings the validator did not")
	}

	if len(problems) > 0 {
		return errors.Newf("invalid risk response: %s", strings.Join(problems, "; "))
	}
	return nil
}

func mentionsPoz(resp *riskResponse, poz string) bool {
	if strings.Contains(resp.Summary, poz) {
		return true
	}
	for _, f := range resp.Findings {
		if strings.Contains(f.Title, poz) || strings.Contains(f.Detail, poz) {
			return true
		}
	}
	return false
}
