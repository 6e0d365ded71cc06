package domain

import "time"

// LineItem is one quantity-survey entry. Numeric inputs are optional; use
// Resolve to obtain the values the calculator works with.
type LineItem struct {
	ID          string
	ProjectID   string
	PozCode     string
	Description string
	Unit        string
	Category    Category

	X          *float64
	Y          *float64
	Z          *float64
	Multiplier *float64
	Count      *float64
	UnitWeight *float64

	// TotalQuantity is the quantity entered by the user; ComputedQuantity is
	// what the calculator derived from the dimensions at the last save.
	TotalQuantity    float64
	ComputedQuantity float64

	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Dimensions is a LineItem's numeric input after default resolution.
type Dimensions struct {
	X, Y, Z    float64
	Multiplier float64
	Count      float64
	UnitWeight float64
	Unit       Unit
}

// Resolve applies the defaulting policy: dimensions and unit weight fall
// back to 0, multiplier and count to 1. Zero and NaN are treated as absent.
// Negative values pass through unchanged.
func (li LineItem) Resolve() Dimensions {
	return Dimensions{
		X:          Float64OrDefault(li.X, 0),
		Y:          Float64OrDefault(li.Y, 0),
		Z:          Float64OrDefault(li.Z, 0),
		Multiplier: Float64OrDefault(li.Multiplier, 1),
		Count:      Float64OrDefault(li.Count, 1),
		UnitWeight: Float64OrDefault(li.UnitWeight, 0),
		Unit:       ParseUnit(li.Unit),
	}
}

// DisplayPoz returns the position code, or a placeholder when it is blank.
func (li LineItem) DisplayPoz() string {
	return CoalesceStr(li.PozCode, "(no poz)")
}
