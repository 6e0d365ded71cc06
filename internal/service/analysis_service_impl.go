package service

import (
	"context"
	"time"

	"github.com/alexanderramin/metraj/internal/analysis"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type analysisService struct {
	validation ValidationService
	analyzer   analysis.RiskAnalyzer
	reports    repository.AnalysisRepo
	observer   UseCaseObserver
}

func NewAnalysisService(validation ValidationService, analyzer analysis.RiskAnalyzer, reports repository.AnalysisRepo, observers ...UseCaseObserver) AnalysisService {
	return &analysisService{
		validation: validation,
		analyzer:   analyzer,
		reports:    reports,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Analyze runs a validation pass, asks the analyzer for a risk report and
// stores the result.
func (s *analysisService) Analyze(ctx context.Context, projectID string) (rep *domain.RiskReport, err error) {
	fields := map[string]any{"project_id": projectID}
	defer observe(ctx, s.observer, "analysis.analyze", time.Now(), &err, fields)

	vr, err := s.validation.Validate(ctx, projectID)
	if err != nil {
		return nil, err
	}

	rep, err = s.analyzer.Analyze(ctx, analysis.AnalysisInput{
		Project:  vr.Project,
		Items:    vr.Items,
		Findings: vr.Findings,
	})
	if err != nil {
		return nil, errors.Wrap(err, "analyzing project")
	}

	rep.ID = uuid.New().String()
	rep.ProjectID = vr.Project.ID
	rep.CreatedAt = time.Now().UTC()
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}

	fields["source"] = string(rep.Source)
	fields["risk_score"] = rep.RiskScore
	return rep, nil
}

func (s *analysisService) History(ctx context.Context, projectID string, limit int) ([]*domain.RiskReport, error) {
	return s.reports.ListByProject(ctx, projectID, limit)
}
