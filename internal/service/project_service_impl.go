package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

// Create normalizes and validates p, fills in identity and timestamps, and
// stores it as an active project.
func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	p.ShortID = domain.NormalizeShortID(p.ShortID)
	p.Name = strings.TrimSpace(p.Name)
	p.Location = strings.TrimSpace(p.Location)
	defer observe(ctx, s.observer, "project.create", time.Now(), &err, map[string]any{"short_id": p.ShortID})

	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return s.projects.GetByShortID(ctx, domain.NormalizeShortID(shortID))
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.ShortID = domain.NormalizeShortID(p.ShortID)
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Archive(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "project.archive", time.Now(), &err, map[string]any{"project_id": id})
	return s.projects.Archive(ctx, id)
}

func (s *projectService) Unarchive(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "project.unarchive", time.Now(), &err, map[string]any{"project_id": id})
	return s.projects.Unarchive(ctx, id)
}

// Delete removes a project with its items and reports. Only archived
// projects can be deleted unless force is set.
func (s *projectService) Delete(ctx context.Context, id string, force bool) (err error) {
	defer observe(ctx, s.observer, "project.delete", time.Now(), &err, map[string]any{"project_id": id, "force": force})

	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsArchived() {
			return errors.Newf("project %s must be archived before deletion (use --force to override)", p.DisplayID())
		}
	}
	return s.projects.Delete(ctx, id)
}
