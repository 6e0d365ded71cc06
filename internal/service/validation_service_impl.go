package service

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/quantity"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/alexanderramin/metraj/internal/rules"
)

type validationService struct {
	projects repository.ProjectRepo
	items    repository.LineItemRepo
	observer UseCaseObserver
}

func NewValidationService(projects repository.ProjectRepo, items repository.LineItemRepo, observers ...UseCaseObserver) ValidationService {
	return &validationService{
		projects: projects,
		items:    items,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *validationService) Validate(ctx context.Context, projectID string) (rep *ValidationReport, err error) {
	fields := map[string]any{"project_id": projectID}
	defer observe(ctx, s.observer, "validation.validate", time.Now(), &err, fields)

	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	stored, err := s.items.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.LineItem, 0, len(stored))
	for _, li := range stored {
		items = append(items, *li)
	}
	findings := rules.RunStructuralRules(items)

	rep = &ValidationReport{
		Project:  p,
		Items:    items,
		Findings: findings,
		Summary:  summarize(items, findings),
	}
	fields["items"] = len(items)
	fields["findings"] = len(findings)
	return rep, nil
}

// summarize groups quantities by category and unit. Groups follow the
// category display order, then unit name.
func summarize(items []domain.LineItem, findings []domain.Finding) ProjectSummary {
	type key struct {
		cat  domain.Category
		unit string
	}
	groups := map[key]*QuantityTotal{}
	for _, li := range items {
		k := key{li.Category, li.Unit}
		g, ok := groups[k]
		if !ok {
			g = &QuantityTotal{Category: li.Category, Unit: li.Unit}
			groups[k] = g
		}
		g.Entered += li.TotalQuantity
		g.Computed += li.ComputedQuantity
		g.Items++
	}

	totals := make([]QuantityTotal, 0, len(groups))
	for _, g := range groups {
		g.Entered = quantity.Round(g.Entered)
		g.Computed = quantity.Round(g.Computed)
		totals = append(totals, *g)
	}
	sort.Slice(totals, func(i, j int) bool {
		ci, cj := categoryRank(totals[i].Category), categoryRank(totals[j].Category)
		if ci != cj {
			return ci < cj
		}
		return totals[i].Unit < totals[j].Unit
	})

	counts := domain.CountBySeverity(findings)
	return ProjectSummary{
		ItemCount:     len(items),
		Totals:        totals,
		CriticalCount: counts[domain.SeverityCritical],
		WarningCount:  counts[domain.SeverityWarning],
	}
}

func categoryRank(c domain.Category) int {
	for i, known := range domain.Categories {
		if known == c {
			return i
		}
	}
	return len(domain.Categories)
}
