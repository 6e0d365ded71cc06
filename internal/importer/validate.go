package importer

import (
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/cockroachdb/errors"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error
	errs = append(errs, validateProject(&schema.Project)...)
	errs = append(errs, validateItems(schema.Items)...)
	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, errors.New("project.name is required"))
	}
	if err := domain.CheckShortID(domain.NormalizeShortID(p.ShortID)); err != nil {
		errs = append(errs, errors.Wrap(err, "project.short_id"))
	}
	return errs
}

func validateItems(items []ItemImport) []error {
	var errs []error
	refs := make(map[string]bool, len(items))

	for i, it := range items {
		label := itemLabel(i, it)

		if it.Ref != "" {
			if refs[it.Ref] {
				errs = append(errs, errors.Newf("%s: duplicate ref %q", label, it.Ref))
			}
			refs[it.Ref] = true
		}
		if strings.TrimSpace(it.Unit) == "" {
			errs = append(errs, errors.Newf("%s: unit is required", label))
		}
		if _, ok := domain.ParseCategory(it.Category); !ok {
			errs = append(errs, errors.Newf("%s: invalid category %q", label, it.Category))
		}

		for _, f := range []struct {
			name string
			v    *float64
		}{
			{"x", it.X}, {"y", it.Y}, {"z", it.Z}, {"unit_weight", it.UnitWeight}, {"total_quantity", it.TotalQuantity},
		} {
			if f.v == nil {
				continue
			}
			if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
				errs = append(errs, errors.Newf("%s: %s must be a finite number", label, f.name))
			} else if *f.v < 0 {
				errs = append(errs, errors.Newf("%s: %s must not be negative (got %g)", label, f.name, *f.v))
			}
		}

		if it.Multiplier != nil && !positiveFinite(*it.Multiplier) {
			errs = append(errs, errors.Newf("%s: multiplier must be a finite number > 0 (got %g)", label, *it.Multiplier))
		}
		if it.Count != nil && !positiveFinite(*it.Count) {
			errs = append(errs, errors.Newf("%s: count must be a finite number > 0 (got %g)", label, *it.Count))
		}
	}
	return errs
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func itemLabel(i int, it ItemImport) string {
	if it.Ref != "" {
		return "items[" + it.Ref + "]"
	}
	if it.Poz != "" {
		return "items[" + it.Poz + "]"
	}
	return "items[#" + strconv.Itoa(i+1) + "]"
}
