package export

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	headerBg   = &props.Color{Red: 33, Green: 37, Blue: 41}
	flaggedBg  = &props.Color{Red: 255, Green: 199, Blue: 206}
	summaryBg  = &props.Color{Red: 240, Green: 240, Blue: 240}
	mutedColor = &props.Color{Red: 120, Green: 120, Blue: 120}
)

// GeneratePDF renders the report as a landscape A4 document.
func GeneratePDF(data ReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   mutedColor,
		}).
		Build()

	m := maroto.New(cfg)
	addHeader(m, data)
	addItemTable(m, data)
	addTotals(m, data)
	addFindings(m, data)
	addRisk(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "generating PDF")
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ReportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(text.New(data.Title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center})),
		),
		row.New(8).Add(
			col.New(6).Add(text.New(strings.TrimSpace(data.ProjectCode+"  "+data.Location), props.Text{Size: 9, Color: mutedColor})),
			col.New(6).Add(text.New("Date: "+data.GeneratedAt, props.Text{Size: 9, Align: align.Right, Color: mutedColor})),
		),
		row.New(4),
	)
}

func addItemTable(m core.Maroto, data ReportData) {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	headLeft := head
	headLeft.Align = align.Left
	cell := &props.Cell{BackgroundColor: headerBg}

	m.AddRows(row.New(8).Add(
		col.New(1).Add(text.New("#", head)).WithStyle(cell),
		col.New(2).Add(text.New("Poz", headLeft)).WithStyle(cell),
		col.New(3).Add(text.New("Description", headLeft)).WithStyle(cell),
		col.New(1).Add(text.New("Unit", head)).WithStyle(cell),
		col.New(2).Add(text.New("X x Y x Z", head)).WithStyle(cell),
		col.New(1).Add(text.New("Entered", head)).WithStyle(cell),
		col.New(1).Add(text.New("Computed", head)).WithStyle(cell),
		col.New(1).Add(text.New("Cat.", head)).WithStyle(cell),
	))

	for _, r := range data.Rows {
		base := props.Text{Size: 7, Align: align.Center}
		left := base
		left.Align = align.Left
		right := base
		right.Align = align.Right

		cols := []core.Col{
			col.New(1).Add(text.New(fmt.Sprint(r.Index), base)),
			col.New(2).Add(text.New(r.Poz, left)),
			col.New(3).Add(text.New(r.Description, left)),
			col.New(1).Add(text.New(r.Unit, base)),
			col.New(2).Add(text.New(strings.ReplaceAll(r.Dimensions, "×", "x"), base)),
			col.New(1).Add(text.New(FormatQty(r.Entered), right)),
			col.New(1).Add(text.New(FormatQty(r.Computed), right)),
			col.New(1).Add(text.New(r.Category, base)),
		}
		if r.Flagged {
			for i := range cols {
				cols[i] = cols[i].WithStyle(&props.Cell{BackgroundColor: flaggedBg})
			}
		}
		m.AddRows(row.New(7).Add(cols...))
	}
}

func addTotals(m core.Maroto, data ReportData) {
	if len(data.Totals) == 0 {
		return
	}
	m.AddRows(row.New(6))
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	cell := &props.Cell{BackgroundColor: summaryBg}
	for _, t := range data.Totals {
		m.AddRows(row.New(7).Add(
			col.New(8).Add(text.New(fmt.Sprintf("%s (%s)", t.Category, t.Unit), label)).WithStyle(cell),
			col.New(2).Add(text.New(FormatQty(t.Entered), label)).WithStyle(cell),
			col.New(2).Add(text.New(FormatQty(t.Computed), label)).WithStyle(cell),
		))
	}
}

func addFindings(m core.Maroto, data ReportData) {
	m.AddRows(row.New(6), row.New(8).Add(
		col.New(12).Add(text.New(fmt.Sprintf("Findings (%d)", len(data.Findings)), props.Text{Size: 11, Style: fontstyle.Bold})),
	))
	if len(data.Findings) == 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New("No structural issues found.", props.Text{Size: 8, Color: mutedColor}))))
		return
	}
	for _, f := range data.Findings {
		style := props.Text{Size: 7}
		if f.Severity == "CRITICAL" {
			style.Style = fontstyle.Bold
		}
		msg := f.Message
		if f.Suggestion != "" {
			msg += " " + f.Suggestion
		}
		m.AddRows(row.New(10).Add(
			col.New(2).Add(text.New(f.Poz, style)),
			col.New(1).Add(text.New(f.Severity, style)),
			col.New(9).Add(text.New(msg, props.Text{Size: 7})),
		))
	}
}

func addRisk(m core.Maroto, data ReportData) {
	if data.Risk == nil {
		return
	}
	source := data.Risk.Source
	if data.Risk.Model != "" {
		source += ", " + data.Risk.Model
	}
	m.AddRows(row.New(6), row.New(8).Add(
		col.New(12).Add(text.New(fmt.Sprintf("Risk score %d/100 (%s)", data.Risk.Score, source), props.Text{Size: 11, Style: fontstyle.Bold})),
	), row.New(12).Add(
		col.New(12).Add(text.New(data.Risk.Summary, props.Text{Size: 8})),
	))
	for _, n := range data.Risk.Notes {
		m.AddRows(row.New(8).Add(
			col.New(3).Add(text.New(n.Poz, props.Text{Size: 7, Style: fontstyle.Bold})),
			col.New(1).Add(text.New(n.Severity, props.Text{Size: 7})),
			col.New(8).Add(text.New(n.Message, props.Text{Size: 7})),
		))
	}
}
