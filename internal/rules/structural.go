// Package rules runs structural validation rules over quantity-survey line
// items and reports problems as findings.
package rules

import (
	"fmt"
	"math"
	"strconv"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/quantity"
)

// Tolerance is the largest accepted difference between a manually entered
// total and the computed quantity.
const Tolerance = 0.01

const (
	// StructuralCodeRef is cited by the missing-dimension rule.
	StructuralCodeRef = "TS 500 - Betonarme Yapıların Tasarım ve Yapım Kuralları"
	// QuantityCheckRef is cited by the calculation-mismatch rule.
	QuantityCheckRef = "Metraj hesap kontrolü (boyutlardan yeniden hesap)"
)

// RunStructuralRules checks every item in order and returns the findings in
// item order. For a single item, a missing-dimension finding precedes a
// calculation-mismatch finding. The result is empty, never nil, when no rule fires.
func RunStructuralRules(items []domain.LineItem) []domain.Finding {
	findings := make([]domain.Finding, 0)
	for _, item := range items {
		if f, ok := checkMissingDimension(item); ok {
			findings = append(findings, f)
		}
		if f, ok := checkCalculationMismatch(item); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

// checkMissingDimension applies to concrete measured in m3, which needs all
// three dimensions.
func checkMissingDimension(item domain.LineItem) (domain.Finding, bool) {
	d := item.Resolve()
	if item.Category != domain.CategoryConcrete || d.Unit != domain.UnitCubicMeter {
		return domain.Finding{}, false
	}
	if d.X != 0 && d.Y != 0 && d.Z != 0 {
		return domain.Finding{}, false
	}
	return domain.Finding{
		ItemID:      item.ID,
		PozCode:     item.PozCode,
		Rule:        domain.RuleMissingDimension,
		Severity:    domain.SeverityCritical,
		Message:     fmt.Sprintf("Concrete item %s is measured in m3 but is missing a dimension (x=%s, y=%s, z=%s).", item.DisplayPoz(), formatFull(d.X), formatFull(d.Y), formatFull(d.Z)),
		StandardRef: StructuralCodeRef,
		Suggestion:  "Enter width, length and height for the element before the volume is used.",
	}, true
}

func checkCalculationMismatch(item domain.LineItem) (domain.Finding, bool) {
	computed := quantity.Calculate(item)
	// Written as !(>) so a NaN difference does not fire.
	if !(math.Abs(item.TotalQuantity-computed) > Tolerance) {
		return domain.Finding{}, false
	}
	return domain.Finding{
		ItemID:      item.ID,
		PozCode:     item.PozCode,
		Rule:        domain.RuleCalculationMismatch,
		Severity:    domain.SeverityCritical,
		Message:     fmt.Sprintf("Item %s: entered quantity %s does not match computed quantity %s.", item.DisplayPoz(), formatFull(item.TotalQuantity), formatFull(computed)),
		StandardRef: QuantityCheckRef,
		Suggestion:  "Check the dimensions, multiplier and count, or correct the entered total.",
	}, true
}

// formatFull prints v with the fewest digits that represent it exactly.
func formatFull(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
