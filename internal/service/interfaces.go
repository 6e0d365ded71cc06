package service

import (
	"context"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type LineItemService interface {
	Add(ctx context.Context, li *domain.LineItem) error
	GetByID(ctx context.Context, id string) (*domain.LineItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.LineItem, error)
	Update(ctx context.Context, li *domain.LineItem) error
	Delete(ctx context.Context, id string) error
	Recalculate(ctx context.Context, projectID string) (int, error)
}

// ValidationReport is the outcome of one structural validation pass.
type ValidationReport struct {
	Project  *domain.Project
	Items    []domain.LineItem
	Findings []domain.Finding
	Summary  ProjectSummary
}

// ProjectSummary aggregates entered quantities per category and unit.
type ProjectSummary struct {
	ItemCount     int
	Totals        []QuantityTotal
	CriticalCount int
	WarningCount  int
}

// QuantityTotal is the sum of entered and computed quantities for one
// category/unit pair.
type QuantityTotal struct {
	Category domain.Category
	Unit     string
	Entered  float64
	Computed float64
	Items    int
}

type ValidationService interface {
	Validate(ctx context.Context, projectID string) (*ValidationReport, error)
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project   *domain.Project
	ItemCount int
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

type AnalysisService interface {
	Analyze(ctx context.Context, projectID string) (*domain.RiskReport, error)
	History(ctx context.Context, projectID string, limit int) ([]*domain.RiskReport, error)
}

// ExportFormat selects the report file type.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"
)

type ExportService interface {
	Export(ctx context.Context, projectID string, format ExportFormat) ([]byte, error)
}
