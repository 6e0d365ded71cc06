package export

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet    = "Metraj"
	findingsSheet = "Findings"
)

// GenerateExcel writes the report as an xlsx workbook with an item sheet
// and a findings sheet.
func GenerateExcel(data ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), itemsSheet); err != nil {
		return nil, errors.Wrap(err, "set sheet name")
	}
	if _, err := f.NewSheet(findingsSheet); err != nil {
		return nil, errors.Wrap(err, "create findings sheet")
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeItemsSheet(f, st, data); err != nil {
		return nil, err
	}
	if err := writeFindingsSheet(f, st, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "write excel")
	}
	return buf.Bytes(), nil
}

type styles struct {
	title, header, cell, flagged, label int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err != nil {
		return st, errors.Wrap(err, "create title style")
	}
	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return st, errors.Wrap(err, "create header style")
	}
	if st.cell, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}); err != nil {
		return st, errors.Wrap(err, "create cell style")
	}
	st.flagged, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10, Bold: true, Color: "#9C0006"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return st, errors.Wrap(err, "create flagged style")
	}
	st.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return st, errors.Wrap(err, "create label style")
	}
	return st, nil
}

func writeItemsSheet(f *excelize.File, st styles, data ReportData) error {
	sheet := itemsSheet
	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	widths := []float64{5, 16, 36, 14, 8, 20, 10, 8, 14, 14}
	last := columns[len(columns)-1]
	for i, c := range columns {
		if err := f.SetColWidth(sheet, c, c, widths[i]); err != nil {
			return errors.Wrapf(err, "set col width %s", c)
		}
	}

	if err := f.MergeCell(sheet, "A1", last+"1"); err != nil {
		return errors.Wrap(err, "merge title")
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheet, "A1", last+"1", st.title)
	f.SetCellValue(sheet, "A2", sanitizeExcelCell(fmt.Sprintf("%s  %s", data.ProjectCode, data.Location)))
	f.SetCellValue(sheet, "A3", "Date: "+data.GeneratedAt)

	headers := []string{"#", "Poz", "Description", "Category", "Unit", "X × Y × Z", "Multiplier", "Count", "Entered", "Computed"}
	for i, h := range headers {
		f.SetCellValue(sheet, columns[i]+"5", h)
	}
	f.SetCellStyle(sheet, "A5", last+"5", st.header)

	row := 6
	for _, r := range data.Rows {
		n := fmt.Sprint(row)
		f.SetCellValue(sheet, "A"+n, r.Index)
		f.SetCellValue(sheet, "B"+n, sanitizeExcelCell(r.Poz))
		f.SetCellValue(sheet, "C"+n, sanitizeExcelCell(r.Description))
		f.SetCellValue(sheet, "D"+n, r.Category)
		f.SetCellValue(sheet, "E"+n, sanitizeExcelCell(r.Unit))
		f.SetCellValue(sheet, "F"+n, r.Dimensions)
		f.SetCellValue(sheet, "G"+n, r.Multiplier)
		f.SetCellValue(sheet, "H"+n, r.Count)
		f.SetCellValue(sheet, "I"+n, r.Entered)
		f.SetCellValue(sheet, "J"+n, r.Computed)
		style := st.cell
		if r.Flagged {
			style = st.flagged
		}
		f.SetCellStyle(sheet, "A"+n, last+n, style)
		row++
	}

	row++
	for _, t := range data.Totals {
		n := fmt.Sprint(row)
		f.SetCellValue(sheet, "H"+n, fmt.Sprintf("%s (%s):", t.Category, t.Unit))
		f.SetCellStyle(sheet, "H"+n, "H"+n, st.label)
		f.SetCellValue(sheet, "I"+n, t.Entered)
		f.SetCellValue(sheet, "J"+n, t.Computed)
		row++
	}
	return nil
}

func writeFindingsSheet(f *excelize.File, st styles, data ReportData) error {
	sheet := findingsSheet
	columns := []string{"A", "B", "C", "D", "E"}
	widths := []float64{16, 11, 24, 60, 50}
	for i, c := range columns {
		if err := f.SetColWidth(sheet, c, c, widths[i]); err != nil {
			return errors.Wrapf(err, "set col width %s", c)
		}
	}

	headers := []string{"Poz", "Severity", "Rule", "Message", "Suggestion"}
	for i, h := range headers {
		f.SetCellValue(sheet, columns[i]+"1", h)
	}
	f.SetCellStyle(sheet, "A1", "E1", st.header)

	row := 2
	for _, fr := range data.Findings {
		n := fmt.Sprint(row)
		f.SetCellValue(sheet, "A"+n, sanitizeExcelCell(fr.Poz))
		f.SetCellValue(sheet, "B"+n, fr.Severity)
		f.SetCellValue(sheet, "C"+n, fr.Rule)
		f.SetCellValue(sheet, "D"+n, sanitizeExcelCell(fr.Message))
		f.SetCellValue(sheet, "E"+n, sanitizeExcelCell(fr.Suggestion))
		f.SetCellStyle(sheet, "A"+n, "E"+n, st.cell)
		row++
	}

	if data.Risk != nil {
		row++
		n := fmt.Sprint(row)
		f.SetCellValue(sheet, "A"+n, "Risk score")
		f.SetCellStyle(sheet, "A"+n, "A"+n, st.label)
		f.SetCellValue(sheet, "B"+n, data.Risk.Score)
		f.SetCellValue(sheet, "C"+n, data.Risk.Source)
		f.SetCellValue(sheet, "D"+n, sanitizeExcelCell(data.Risk.Summary))
	}
	return nil
}

// sanitizeExcelCell prefixes values Excel would read as formulas with a
// single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
