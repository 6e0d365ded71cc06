package rules

import (
	"testing"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return domain.Float64Ptr(v) }

func concrete(id string, x, y, z, total float64) domain.LineItem {
	return domain.LineItem{
		ID:            id,
		PozCode:       "15.150.1005",
		Category:      domain.CategoryConcrete,
		Unit:          "m3",
		X:             f(x),
		Y:             f(y),
		Z:             f(z),
		Multiplier:    f(1),
		Count:         f(1),
		TotalQuantity: total,
	}
}

func TestRunStructuralRules_EndToEndCleanItem(t *testing.T) {
	item := concrete("c1", 4, 3, 0.3, 3.6)
	findings := RunStructuralRules([]domain.LineItem{item})
	assert.Empty(t, findings)
	assert.NotNil(t, findings)
}

func TestRunStructuralRules_EmptyInput(t *testing.T) {
	findings := RunStructuralRules(nil)
	assert.NotNil(t, findings)
	assert.Empty(t, findings)
}

func TestRunStructuralRules_MissingDimension(t *testing.T) {
	item := concrete("c1", 5, 0, 3, 0)
	findings := RunStructuralRules([]domain.LineItem{item})

	require.Len(t, findings, 1)
	got := findings[0]
	assert.Equal(t, "c1", got.ItemID)
	assert.Equal(t, domain.RuleMissingDimension, got.Rule)
	assert.Equal(t, domain.SeverityCritical, got.Severity)
	assert.Equal(t, StructuralCodeRef, got.StandardRef)
	assert.Contains(t, got.Message, "15.150.1005")
	assert.NotEmpty(t, got.Suggestion)
}

func TestRunStructuralRules_MissingDimensionAbsentPointer(t *testing.T) {
	item := concrete("c1", 5, 2, 3, 0)
	item.Z = nil
	findings := RunStructuralRules([]domain.LineItem{item})
	require.Len(t, findings, 1)
	assert.Equal(t, domain.RuleMissingDimension, findings[0].Rule)
}

func TestRunStructuralRules_MissingDimensionOnlyForConcreteM3(t *testing.T) {
	formwork := concrete("fw", 5, 0, 3, 0)
	formwork.Category = domain.CategoryFormwork

	concreteM2 := concrete("cm2", 5, 0, 3, 0)
	concreteM2.Unit = "m2"

	findings := RunStructuralRules([]domain.LineItem{formwork, concreteM2})
	assert.Empty(t, findings)
}

func TestRunStructuralRules_MissingDimensionUnitCaseInsensitive(t *testing.T) {
	item := concrete("c1", 5, 0, 3, 0)
	item.Unit = "M3"
	findings := RunStructuralRules([]domain.LineItem{item})
	require.Len(t, findings, 1)
	assert.Equal(t, domain.RuleMissingDimension, findings[0].Rule)
}

func TestRunStructuralRules_MismatchAboveTolerance(t *testing.T) {
	item := domain.LineItem{ID: "m1", PozCode: "Y.16.050", Category: domain.CategoryFinishing, Unit: "m2", X: f(4), Y: f(2.5), TotalQuantity: 10.05}
	findings := RunStructuralRules([]domain.LineItem{item})

	require.Len(t, findings, 1)
	got := findings[0]
	assert.Equal(t, domain.RuleCalculationMismatch, got.Rule)
	assert.Equal(t, domain.SeverityCritical, got.Severity)
	assert.Equal(t, QuantityCheckRef, got.StandardRef)
	assert.Contains(t, got.Message, "10.05")
	assert.Contains(t, got.Message, "10")
}

func TestRunStructuralRules_MismatchWithinTolerance(t *testing.T) {
	item := domain.LineItem{ID: "m1", Category: domain.CategoryFinishing, Unit: "m2", X: f(4), Y: f(2.5), TotalQuantity: 10.005}
	assert.Empty(t, RunStructuralRules([]domain.LineItem{item}))
}

func TestRunStructuralRules_MismatchReportsFullPrecision(t *testing.T) {
	item := domain.LineItem{ID: "m1", Unit: "m3", X: f(1.2345), Y: f(1), Z: f(1), TotalQuantity: 1.3456789}
	findings := RunStructuralRules([]domain.LineItem{item})
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "1.3456789")
	assert.Contains(t, findings[0].Message, "1.235")
}

func TestRunStructuralRules_BothRulesOrderedWithinItem(t *testing.T) {
	item := concrete("c1", 5, 0, 3, 15)
	findings := RunStructuralRules([]domain.LineItem{item})

	require.Len(t, findings, 2)
	assert.Equal(t, domain.RuleMissingDimension, findings[0].Rule)
	assert.Equal(t, domain.RuleCalculationMismatch, findings[1].Rule)
	assert.Equal(t, "c1", findings[0].ItemID)
	assert.Equal(t, "c1", findings[1].ItemID)
}

func TestRunStructuralRules_PreservesItemOrder(t *testing.T) {
	items := []domain.LineItem{
		concrete("first", 5, 0, 3, 0),
		concrete("second", 2, 2, 2, 8),
		concrete("third", 1, 1, 1, 4),
	}
	findings := RunStructuralRules(items)

	require.Len(t, findings, 2)
	assert.Equal(t, "first", findings[0].ItemID)
	assert.Equal(t, "third", findings[1].ItemID)
}

func TestRunStructuralRules_NoDeduplicationAcrossItems(t *testing.T) {
	a := concrete("dup", 5, 0, 3, 0)
	findings := RunStructuralRules([]domain.LineItem{a, a})
	assert.Len(t, findings, 2)
}

func TestRunStructuralRules_Deterministic(t *testing.T) {
	items := []domain.LineItem{
		concrete("a", 5, 0, 3, 1),
		concrete("b", 4, 3, 0.3, 3.6),
		{ID: "c", Unit: "ton", X: f(2), Y: f(2), Z: f(2), UnitWeight: f(500), TotalQuantity: 3.9},
	}
	first := RunStructuralRules(items)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, RunStructuralRules(items))
	}
}

func TestRunStructuralRules_DoesNotMutateInput(t *testing.T) {
	items := []domain.LineItem{concrete("a", 5, 0, 3, 1)}
	snapshot := make([]domain.LineItem, len(items))
	copy(snapshot, items)

	_ = RunStructuralRules(items)
	assert.Equal(t, snapshot, items)
}
