package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/metraj/internal/analysis"
	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/repository"
	"github.com/alexanderramin/metraj/internal/service"
	"github.com/alexanderramin/metraj/internal/testutil"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	projRepo := repository.NewSQLiteProjectRepo(database)
	itemRepo := repository.NewSQLiteLineItemRepo(database)
	reportRepo := repository.NewSQLiteAnalysisRepo(database)

	validation := service.NewValidationService(projRepo, itemRepo)
	return &App{
		Projects:   service.NewProjectService(projRepo),
		Items:      service.NewLineItemService(itemRepo, projRepo, uow),
		Validation: validation,
		Import:     service.NewImportService(uow),
		Analysis:   service.NewAnalysisService(validation, analysis.NewDeterministicAnalyzer(), reportRepo),
		Export:     service.NewExportService(validation, reportRepo),
	}
}

// seedProject creates a project with one matching and one mismatched
// concrete item.
func seedProject(t *testing.T, app *App) *domain.Project {
	t.Helper()
	ctx := context.Background()

	p := testutil.NewTestProject("Okul Binası", testutil.WithShortID("OKUL01"))
	require.NoError(t, app.Projects.Create(ctx, p))

	ok := testutil.NewTestLineItem(p.ID, "15.150.1005", testutil.WithDims(4, 3, 0.3), testutil.WithTotal(3.6))
	require.NoError(t, app.Items.Add(ctx, ok))
	bad := testutil.NewTestLineItem(p.ID, "15.150.1006", testutil.WithDims(2, 2, 0.5), testutil.WithTotal(5))
	require.NoError(t, app.Items.Add(ctx, bad))

	return p
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- project ---

func TestProjectAdd_ThenList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "add", "--id", "kpr01", "--name", "Köprü", "--location", "Sivas")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Köprü [KPR01]")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "KPR01")
	assert.Contains(t, out, "Köprü")
}

func TestProjectAdd_InvalidShortID(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--id", "K1", "--name", "Bad")
	require.Error(t, err)
}

func TestProjectRm_RequiresArchiveUnlessForced(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)

	_, err := executeCmd(t, app, "project", "rm", "OKUL01")
	require.Error(t, err)

	_, err = executeCmd(t, app, "project", "rm", "OKUL01", "--force")
	require.NoError(t, err)

	_, err = app.Projects.GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectEditAndArchive(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "project", "edit", "OKUL01")
	require.Error(t, err)

	out, err := executeCmd(t, app, "project", "edit", "OKUL01", "--name", "Lise Binası", "--id", "lise02")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated project Lise Binası [LISE02]")

	out, err = executeCmd(t, app, "project", "archive", "lise02")
	require.NoError(t, err)
	assert.Contains(t, out, "Archived project LISE02")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")

	out, err = executeCmd(t, app, "project", "unarchive", "LISE02")
	require.NoError(t, err)
	assert.Contains(t, out, "Unarchived project LISE02")
}

func TestProjectInspect(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "project", "inspect", "okul01")
	require.NoError(t, err)
	assert.Contains(t, out, "Okul Binası")
}

// --- item ---

func TestItemAdd_DefaultsTotalToComputed(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)

	out, err := executeCmd(t, app, "item", "add", "OKUL01",
		"--poz", "15.150.1010", "--unit", "m³", "--category", "concrete",
		"--x", "5", "--y", "2", "--z", "0.2")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 15.150.1010: computed 2 m3, entered 2")
	assert.NotContains(t, out, "CALCULATION_MISMATCH")

	items, err := app.Items.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 2.0, items[2].ComputedQuantity)
	assert.Equal(t, 2.0, items[2].TotalQuantity)
}

func TestItemAdd_ReportsMismatch(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "item", "add", "OKUL01",
		"--poz", "15.150.1011", "--unit", "m3", "--category", "Concrete",
		"--x", "1", "--y", "1", "--z", "1", "--total", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "CALCULATION_MISMATCH")
}

func TestItemAdd_MissingUnit(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "item", "add", "OKUL01", "--category", "Concrete", "--x", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--unit is required")
}

func TestItemAdd_BadNumber(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "item", "add", "OKUL01", "--unit", "m3", "--category", "Concrete", "--x", "abc")
	require.Error(t, err)
}

func TestItemAdd_InteractiveWithoutTerminal(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "item", "add", "OKUL01", "-i")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a terminal")
}

func TestItemListShowRm(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)
	ctx := context.Background()

	out, err := executeCmd(t, app, "item", "list", "OKUL01")
	require.NoError(t, err)
	assert.Contains(t, out, "15.150.1005")
	assert.Contains(t, out, "15.150.1006")

	items, err := app.Items.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	prefix := items[0].ID[:8]

	out, err = executeCmd(t, app, "item", "show", prefix)
	require.NoError(t, err)
	assert.Contains(t, out, "15.150.1005")

	out, err = executeCmd(t, app, "item", "rm", prefix)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted line item "+prefix)

	items, err = app.Items.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestItemRecalc(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "item", "recalc", "OKUL01")
	require.NoError(t, err)
	assert.Contains(t, out, "Recalculated 0 item(s)")
}

// --- calc ---

func TestCalc_Volume(t *testing.T) {
	out, err := executeCmd(t, &App{}, "calc", "--unit", "m3", "--x", "4", "--y", "3", "--z", "0.3", "--count", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "7.2 m3")
	assert.Contains(t, out, "volume basis")
}

func TestCalc_JSON(t *testing.T) {
	out, err := executeCmd(t, &App{}, "calc", "--unit", "kg", "--x", "12", "--y", "0.5", "--unit-weight", "7.85", "--count", "2", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "kg", got["unit"])
	assert.Equal(t, "weight-area", got["basis"])
	assert.InDelta(t, 94.2, got["quantity"], 1e-9)
}

func TestCalc_RequiresUnit(t *testing.T) {
	_, err := executeCmd(t, &App{}, "calc", "--x", "1")
	require.Error(t, err)
}

// --- import ---

func TestImport_JSONFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "okul.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "project": {"short_id": "IMP01", "name": "İthal"},
  "items": [
    {"ref": "a", "poz": "15.150.1005", "unit": "m3", "category": "Concrete", "x": 2, "y": 2, "z": 0.5},
    {"ref": "b", "poz": "Y.16.050", "unit": "m2", "category": "Formwork", "x": 3, "y": 4}
  ]
}`), 0o644))

	out, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported project İthal [IMP01] with 2 line item(s)")

	p, err := app.Projects.GetByShortID(context.Background(), "IMP01")
	require.NoError(t, err)
	items, err := app.Items.ListByProject(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestImport_InvalidFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"project": {"name": ""}, "items": []}`), 0o644))

	_, err := executeCmd(t, app, "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import validation failed")
}

// --- validate ---

func TestValidate_Text(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "validate", "OKUL01")
	require.NoError(t, err)
	assert.Contains(t, out, "CALCULATION_MISMATCH")
	assert.Contains(t, out, "15.150.1006")
	assert.Contains(t, out, "1 critical finding(s)")
}

func TestValidate_JSON(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "validate", "OKUL01", "--json")
	require.NoError(t, err)

	var got validateJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "OKUL01", got.ShortID)
	assert.Equal(t, 2, got.Items)
	assert.Equal(t, 1, got.Critical)
	require.Len(t, got.Findings, 1)
	assert.Equal(t, domain.RuleCalculationMismatch, got.Findings[0].Rule)
}

func TestValidate_StrictFailsOnCritical(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "validate", "OKUL01", "--strict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCriticalFindings))
}

func TestValidate_StrictPassesWhenClean(t *testing.T) {
	app := testApp(t)
	p := testutil.NewTestProject("Temiz", testutil.WithShortID("TMZ01"))
	require.NoError(t, app.Projects.Create(context.Background(), p))

	out, err := executeCmd(t, app, "validate", "TMZ01", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "No structural issues found")
}

func TestValidate_UnknownProject(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "validate", "NOPE01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project not found")
}

// --- analyze / history ---

func TestAnalyze_ThenHistory(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "analyze", "OKUL01")
	require.NoError(t, err)
	assert.Contains(t, out, "25/100")
	assert.Contains(t, out, "rule-based")

	out, err = executeCmd(t, app, "analyze", "OKUL01", "--json")
	require.NoError(t, err)
	var rep domain.RiskReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 25, rep.RiskScore)
	assert.Equal(t, domain.SourceDeterministic, rep.Source)

	out, err = executeCmd(t, app, "history", "OKUL01", "--json")
	require.NoError(t, err)
	var reports []domain.RiskReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	assert.Len(t, reports, 2)

	out, err = executeCmd(t, app, "history", "OKUL01", "--limit", "1", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	assert.Len(t, reports, 1)
}

func TestHistory_Empty(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "history", "OKUL01")
	require.NoError(t, err)
	assert.Contains(t, out, "No reports yet")
}

// --- export ---

func TestExport_WritesFiles(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	dir := t.TempDir()

	xlsx := filepath.Join(dir, "out", "okul.xlsx")
	out, err := executeCmd(t, app, "export", "OKUL01", "--out", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+xlsx)
	data, err := os.ReadFile(xlsx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip archive")

	pdf := filepath.Join(dir, "okul.pdf")
	_, err = executeCmd(t, app, "export", "OKUL01", "--out", pdf)
	require.NoError(t, err)
	data, err = os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		format, out string
		want        service.ExportFormat
		wantErr     bool
	}{
		{"", "", service.ExportXLSX, false},
		{"", "report.PDF", service.ExportPDF, false},
		{"pdf", "report.xlsx", service.ExportPDF, false},
		{"Excel", "", service.ExportXLSX, false},
		{"", "report.csv", "", true},
		{"docx", "", "", true},
	}
	for _, tt := range tests {
		got, err := exportFormat(tt.format, tt.out)
		if tt.wantErr {
			assert.Error(t, err, "format=%q out=%q", tt.format, tt.out)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "format=%q out=%q", tt.format, tt.out)
	}
}

// --- resolve ---

func TestResolveProjectID(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)
	ctx := context.Background()

	for _, input := range []string{"OKUL01", "okul01", p.ID, p.ID[:8]} {
		got, err := resolveProjectID(ctx, app, input)
		require.NoError(t, err, input)
		assert.Equal(t, p.ID, got, input)
	}

	_, err := resolveProjectID(ctx, app, "")
	assert.Error(t, err)
	_, err = resolveProjectID(ctx, app, "zzzz")
	assert.Error(t, err)
}

func TestResolveItemID(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app)
	ctx := context.Background()

	items, err := app.Items.ListByProject(ctx, p.ID)
	require.NoError(t, err)

	got, err := resolveItemID(ctx, app, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, items[1].ID, got)

	got, err = resolveItemID(ctx, app, items[1].ID[:8])
	require.NoError(t, err)
	assert.Equal(t, items[1].ID, got)

	_, err = resolveItemID(ctx, app, "")
	assert.Error(t, err)
	_, err = resolveItemID(ctx, app, "not-an-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line item not found")
}

// --- flags and form parsing ---

func TestOptionalFloat(t *testing.T) {
	var target *float64
	v := optionalFloat{&target}
	assert.Equal(t, "", v.String())

	require.NoError(t, v.Set("0.25"))
	require.NotNil(t, target)
	assert.Equal(t, 0.25, *target)
	assert.Equal(t, "0.25", v.String())

	assert.Error(t, v.Set("yarım"))
}

func TestParseNumber(t *testing.T) {
	v, err := parseNumber(" 0,3 ")
	require.NoError(t, err)
	assert.Equal(t, 0.3, v)

	_, err = parseNumber("x")
	assert.Error(t, err)

	assert.NoError(t, validateOptionalNumber(""))
	assert.Error(t, validateOptionalNumber("-1"))
}

func TestItemFormValues_Apply(t *testing.T) {
	li := &domain.LineItem{ProjectID: "p1", X: domain.Float64Ptr(9)}
	var total *float64

	v := newItemFormValues(li, total)
	assert.Equal(t, "9", v.x)

	v.poz = "15.150.1005"
	v.unit = "m3"
	v.category = string(domain.CategoryConcrete)
	v.x, v.y, v.z = "4", "3", "0,3"
	v.total = "3.6"
	require.NoError(t, v.apply(li, &total))

	assert.Equal(t, "15.150.1005", li.PozCode)
	assert.Equal(t, domain.CategoryConcrete, li.Category)
	require.NotNil(t, li.Z)
	assert.Equal(t, 0.3, *li.Z)
	assert.Nil(t, li.Multiplier)
	require.NotNil(t, total)
	assert.Equal(t, 3.6, *total)

	v.x = "bad"
	assert.Error(t, v.apply(li, &total))
}

func TestRootCmd_ListsCommands(t *testing.T) {
	out, err := executeCmd(t, &App{}, "--help")
	require.NoError(t, err)
	for _, name := range []string{"project", "item", "calc", "import", "validate", "analyze", "history", "export"} {
		assert.True(t, strings.Contains(out, name), name)
	}
}
