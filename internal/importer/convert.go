package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/quantity"
	"github.com/google/uuid"
)

// ImportedProject is a converted import file ready for persistence.
type ImportedProject struct {
	Project *domain.Project
	Items   []*domain.LineItem
}

var unitAliases = map[string]string{
	"m³":       "m3",
	"m^3":      "m3",
	"m²":       "m2",
	"m^2":      "m2",
	"kilogram": "kg",
	"kgs":      "kg",
	"tonne":    "ton",
	"tons":     "ton",
	"t":        "ton",
}

// NormalizeUnit maps common spellings of units onto the canonical unit codes.
// Unknown units are lowercased and trimmed.
func NormalizeUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	if canonical, ok := unitAliases[u]; ok {
		return canonical
	}
	return u
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*ImportedProject, error) {
	now := time.Now().UTC()

	project := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   domain.NormalizeShortID(schema.Project.ShortID),
		Name:      schema.Project.Name,
		Location:  schema.Project.Location,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	items := make([]*domain.LineItem, 0, len(schema.Items))
	for i, it := range schema.Items {
		category, _ := domain.ParseCategory(it.Category)
		li := &domain.LineItem{
			ID:          uuid.New().String(),
			ProjectID:   project.ID,
			PozCode:     strings.TrimSpace(it.Poz),
			Description: it.Description,
			Unit:        NormalizeUnit(it.Unit),
			Category:    category,
			X:           it.X,
			Y:           it.Y,
			Z:           it.Z,
			Multiplier:  it.Multiplier,
			Count:       it.Count,
			UnitWeight:  it.UnitWeight,
			OrderIndex:  i,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		li.ComputedQuantity = quantity.Calculate(*li)
		li.TotalQuantity = domain.Float64FromPtrWithDefault(li.ComputedQuantity, it.TotalQuantity)
		items = append(items, li)
	}

	return &ImportedProject{Project: project, Items: items}, nil
}
