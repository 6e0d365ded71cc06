package service

import (
	"context"
	"time"

	"github.com/alexanderramin/metraj/internal/export"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/cockroachdb/errors"
)

type exportService struct {
	validation ValidationService
	reports    repository.AnalysisRepo
	observer   UseCaseObserver
}

func NewExportService(validation ValidationService, reports repository.AnalysisRepo, observers ...UseCaseObserver) ExportService {
	return &exportService{
		validation: validation,
		reports:    reports,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Export renders the project with fresh validator findings and the most
// recent stored risk report, if there is one.
func (s *exportService) Export(ctx context.Context, projectID string, format ExportFormat) (out []byte, err error) {
	fields := map[string]any{"project_id": projectID, "format": string(format)}
	defer observe(ctx, s.observer, "export.render", time.Now(), &err, fields)

	render, err := renderer(format)
	if err != nil {
		return nil, err
	}

	vr, err := s.validation.Validate(ctx, projectID)
	if err != nil {
		return nil, err
	}

	latest, lerr := s.reports.Latest(ctx, projectID)
	if lerr != nil && !errors.Is(lerr, repository.ErrNotFound) {
		return nil, lerr
	}

	data := export.BuildReportData(vr.Project, vr.Items, vr.Findings, latest, time.Now())
	out, err = render(data)
	if err != nil {
		return nil, errors.Wrapf(err, "rendering %s", format)
	}
	fields["bytes"] = len(out)
	return out, nil
}

func renderer(format ExportFormat) (func(export.ReportData) ([]byte, error), error) {
	switch format {
	case ExportXLSX:
		return export.GenerateExcel, nil
	case ExportPDF:
		return export.GeneratePDF, nil
	default:
		return nil, errors.Newf("unsupported export format %q (use xlsx or pdf)", format)
	}
}
