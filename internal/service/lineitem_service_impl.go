package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/metraj/internal/db"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/importer"
	"github.com/alexanderramin/metraj/internal/quantity"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

type lineItemService struct {
	items    repository.LineItemRepo
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewLineItemService(items repository.LineItemRepo, projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) LineItemService {
	return &lineItemService{
		items:    items,
		projects: projects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Add stores a new line item at the end of its project, recomputing the
// expected quantity from the dimensions.
func (s *lineItemService) Add(ctx context.Context, li *domain.LineItem) (err error) {
	defer observe(ctx, s.observer, "lineitem.add", time.Now(), &err, map[string]any{"project_id": li.ProjectID})

	if err := normalizeLineItem(li); err != nil {
		return err
	}
	if li.ID == "" {
		li.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	li.CreatedAt = now
	li.UpdatedAt = now
	li.ComputedQuantity = quantity.Calculate(*li)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txItems := repository.NewSQLiteLineItemRepo(tx)

		p, err := txProjects.GetByID(ctx, li.ProjectID)
		if err != nil {
			return err
		}
		if p.Status == domain.ProjectArchived {
			return errors.Newf("project %s is archived", p.DisplayID())
		}

		idx, err := txItems.NextOrderIndex(ctx, li.ProjectID)
		if err != nil {
			return err
		}
		li.OrderIndex = idx
		return txItems.Create(ctx, li)
	})
}

func (s *lineItemService) GetByID(ctx context.Context, id string) (*domain.LineItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *lineItemService) ListByProject(ctx context.Context, projectID string) ([]*domain.LineItem, error) {
	return s.items.ListByProject(ctx, projectID)
}

func (s *lineItemService) Update(ctx context.Context, li *domain.LineItem) (err error) {
	defer observe(ctx, s.observer, "lineitem.update", time.Now(), &err, map[string]any{"item_id": li.ID})

	if err := normalizeLineItem(li); err != nil {
		return err
	}
	li.ComputedQuantity = quantity.Calculate(*li)
	li.UpdatedAt = time.Now().UTC()
	return s.items.Update(ctx, li)
}

func (s *lineItemService) Delete(ctx context.Context, id string) error {
	return s.items.Delete(ctx, id)
}

// Recalculate rewrites stored computed quantities that no longer match the
// calculator and returns how many items changed.
func (s *lineItemService) Recalculate(ctx context.Context, projectID string) (changed int, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.observer, "lineitem.recalculate", started, &err, map[string]any{
			"project_id": projectID,
			"changed":    changed,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteLineItemRepo(tx)
		items, err := txItems.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, li := range items {
			computed := quantity.Calculate(*li)
			if computed == li.ComputedQuantity {
				continue
			}
			li.ComputedQuantity = computed
			li.UpdatedAt = now
			if err := txItems.Update(ctx, li); err != nil {
				return errors.Wrapf(err, "recalculating %s", li.DisplayPoz())
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// normalizeLineItem canonicalizes unit and category and rejects inputs the
// calculator would accept but that make no sense as entered measurements.
func normalizeLineItem(li *domain.LineItem) error {
	if strings.TrimSpace(li.ProjectID) == "" {
		return errors.New("line item requires a project")
	}
	li.PozCode = strings.TrimSpace(li.PozCode)
	li.Unit = importer.NormalizeUnit(li.Unit)
	if li.Unit == "" {
		return errors.New("unit is required")
	}
	cat, ok := domain.ParseCategory(string(li.Category))
	if !ok {
		return errors.Newf("unknown category %q", li.Category)
	}
	li.Category = cat

	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"x", li.X}, {"y", li.Y}, {"z", li.Z}, {"unit_weight", li.UnitWeight},
	} {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v < 0) {
			return errors.Newf("%s must be a non-negative number", f.name)
		}
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"multiplier", li.Multiplier}, {"count", li.Count},
	} {
		if f.v != nil && (!(*f.v > 0) || math.IsInf(*f.v, 1)) {
			return errors.Newf("%s must be a finite number greater than zero", f.name)
		}
	}
	if math.IsNaN(li.TotalQuantity) || math.IsInf(li.TotalQuantity, 0) || li.TotalQuantity < 0 {
		return errors.New("total quantity must be a non-negative number")
	}
	return nil
}
