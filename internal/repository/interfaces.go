package repository

import (
	"context"

	"github.com/alexanderramin/metraj/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type LineItemRepo interface {
	Create(ctx context.Context, li *domain.LineItem) error
	GetByID(ctx context.Context, id string) (*domain.LineItem, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.LineItem, error)
	Update(ctx context.Context, li *domain.LineItem) error
	Delete(ctx context.Context, id string) error
	NextOrderIndex(ctx context.Context, projectID string) (int, error)
}

type AnalysisRepo interface {
	Create(ctx context.Context, r *domain.RiskReport) error
	ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.RiskReport, error)
	Latest(ctx context.Context, projectID string) (*domain.RiskReport, error)
}
