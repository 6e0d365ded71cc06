package importer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat(f float64) *float64 { return &f }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{
			ShortID: "KPR01",
			Name:    "Kopru Ayagi",
		},
		Items: []ItemImport{
			{Ref: "i1", Poz: "15.150.1005", Unit: "m3", Category: "Concrete",
				X: ptrFloat(2), Y: ptrFloat(1.5), Z: ptrFloat(0.4)},
		},
	}
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	errs := ValidateImportSchema(validMinimalSchema())
	assert.Empty(t, errs)
}

func TestValidateImportSchema_EmptyItemsAllowed(t *testing.T) {
	schema := validMinimalSchema()
	schema.Items = nil
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestValidateImportSchema_ProjectFieldsRequired(t *testing.T) {
	schema := validMinimalSchema()
	schema.Project = ProjectImport{}

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 2)
	msgs := errorStrings(errs)
	assert.Contains(t, msgs[0], "project.name is required")
	assert.Contains(t, msgs[1], "project.short_id")
}

func TestValidateImportSchema_ShortIDLowercaseAccepted(t *testing.T) {
	schema := validMinimalSchema()
	schema.Project.ShortID = "kpr01"
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestValidateImportSchema_BadShortID(t *testing.T) {
	schema := validMinimalSchema()
	schema.Project.ShortID = "K1"
	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "uppercase letters")
}

func TestValidateImportSchema_DuplicateRef(t *testing.T) {
	schema := validMinimalSchema()
	schema.Items = append(schema.Items, ItemImport{Ref: "i1", Unit: "m2", Category: "Formwork"})

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `duplicate ref "i1"`)
}

func TestValidateImportSchema_CategoryCaseInsensitive(t *testing.T) {
	schema := validMinimalSchema()
	schema.Items[0].Category = "concrete"
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestValidateImportSchema_UnknownCategory(t *testing.T) {
	schema := validMinimalSchema()
	schema.Items[0].Category = "Masonry"
	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `invalid category "Masonry"`)
}

func TestValidateImportSchema_UnitRequired(t *testing.T) {
	schema := validMinimalSchema()
	schema.Items[0].Unit = "  "
	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unit is required")
}

func TestValidateImportSchema_NegativeValuesRejected(t *testing.T) {
	schema := validMinimalSchema()
	schema.Items[0].X = ptrFloat(-2)
	schema.Items[0].UnitWeight = ptrFloat(-1)

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 2)
	msgs := errorStrings(errs)
	assert.Contains(t, msgs[0], "x must not be negative")
	assert.Contains(t, msgs[1], "unit_weight must not be negative")
}

func TestValidateImportSchema_NonFiniteRejected(t *testing.T) {
	schema := validMinimalSchema()
	schema.Items[0].Y = ptrFloat(math.Inf(1))
	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "y must be a finite number")
}

func TestValidateImportSchema_MultiplierAndCountMustBePositive(t *testing.T) {
	schema := validMinimalSchema()
	schema.Items[0].Multiplier = ptrFloat(0)
	schema.Items[0].Count = ptrFloat(-3)

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 2)
	msgs := errorStrings(errs)
	assert.Contains(t, msgs[0], "multiplier must be a finite number > 0")
	assert.Contains(t, msgs[1], "count must be a finite number > 0")
}

func TestValidateImportSchema_InfiniteMultiplierAndCountRejected(t *testing.T) {
	data := []byte(`
project: {short_id: KPR01, name: Kopru Ayagi}
items:
  - {ref: i1, poz: "15.150.1005", unit: m3, category: Concrete, x: 2, y: 1.5, z: 0.4, multiplier: .inf, count: .inf}
`)
	schema, err := ParseImportSchema(data, FormatYAML)
	require.NoError(t, err)
	require.True(t, math.IsInf(*schema.Items[0].Multiplier, 1))

	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 2)
	msgs := errorStrings(errs)
	assert.Contains(t, msgs[0], "multiplier must be a finite number > 0 (got +Inf)")
	assert.Contains(t, msgs[1], "count must be a finite number > 0 (got +Inf)")
}

func TestValidateImportSchema_LabelFallsBackToPozThenIndex(t *testing.T) {
	schema := validMinimalSchema()
	schema.Items = []ItemImport{
		{Poz: "Y.16.050", Category: "Formwork"},
		{Category: "Formwork"},
	}
	errs := ValidateImportSchema(schema)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "items[Y.16.050]")
	assert.Contains(t, errs[1].Error(), "items[#2]")
}
