package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/alexanderramin/metraj/internal/quantity"
)

// FormatItemList renders line items with entered and computed quantities.
// Items with a CRITICAL finding are marked.
func FormatItemList(items []*domain.LineItem, findings []domain.Finding) string {
	flagged := map[string]domain.Severity{}
	for _, f := range findings {
		if f.Severity == domain.SeverityCritical || flagged[f.ItemID] == "" {
			flagged[f.ItemID] = f.Severity
		}
	}

	headers := []string{"#", "ID", "POZ", "DESCRIPTION", "UNIT", "X × Y × Z", "ENTERED", "COMPUTED", ""}
	rows := make([][]string, 0, len(items))
	for i, li := range items {
		mark := StyleGreen.Render("✔")
		if sev, ok := flagged[li.ID]; ok {
			mark = SeverityStyle(sev).Render("✖")
		}
		rows = append(rows, []string{
			Dim(fmt.Sprint(i + 1)),
			TruncID(li.ID),
			li.DisplayPoz(),
			Truncate(li.Description, 32),
			li.Unit,
			Dims(*li),
			Qty(li.TotalQuantity),
			Qty(li.ComputedQuantity),
			mark,
		})
	}
	return RenderTableAligned(headers, rows, 6, 7)
}

// FormatItemDetail renders a single item with its calculation trace.
func FormatItemDetail(li *domain.LineItem) string {
	calc := quantity.Breakdown(*li)
	d := calc.Dimensions

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(li.DisplayPoz()), Dim(string(li.Category)))
	if li.Description != "" {
		fmt.Fprintf(&b, "%s\n", li.Description)
	}
	fmt.Fprintf(&b, "\n%s %s\n", Dim("Unit:       "), li.Unit)
	fmt.Fprintf(&b, "%s %s\n", Dim("Dimensions: "), Dims(*li))
	fmt.Fprintf(&b, "%s %s\n", Dim("Multiplier: "), Qty(d.Multiplier))
	fmt.Fprintf(&b, "%s %s\n", Dim("Count:      "), Qty(d.Count))
	if d.Unit.IsWeight() {
		fmt.Fprintf(&b, "%s %s\n", Dim("Unit weight:"), OptQty(li.UnitWeight))
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("Basis:      "), string(calc.Basis))
	fmt.Fprintf(&b, "\n%s %s\n", Dim("Entered:    "), Bold(Qty(li.TotalQuantity)))
	fmt.Fprintf(&b, "%s %s", Dim("Computed:   "), Bold(Qty(calc.Quantity)))
	return RenderBox("line item", b.String())
}

// FormatCalculation renders a one-shot calculator result.
func FormatCalculation(calc quantity.Calculation) string {
	return fmt.Sprintf("%s %s  %s",
		Bold(Qty(calc.Quantity)),
		calc.Dimensions.Unit.String(),
		Dim(fmt.Sprintf("(%s basis, raw %s)", calc.Basis, Qty(calc.Raw))))
}
