// Package quantity computes the expected quantity of a line item from its
// dimensions, multipliers and unit of measure.
package quantity

import (
	"github.com/alexanderramin/metraj/internal/domain"
)

// Basis names the formula a calculation used.
type Basis string

const (
	BasisVolume       Basis = "volume"
	BasisArea         Basis = "area"
	BasisWeightVolume Basis = "weight-volume"
	BasisWeightArea   Basis = "weight-area"
	BasisLinear       Basis = "linear"
)

// kgPerTon converts a kilogram result to tons.
const kgPerTon = 1000

// Calculation is the full trace of a single quantity computation.
type Calculation struct {
	Dimensions domain.Dimensions
	Basis      Basis
	Base       float64 // branch result before multiplier and count
	Raw        float64 // unrounded final value
	Quantity   float64 // Raw rounded to Precision decimals
}

// Calculate returns the expected quantity of item rounded to three decimals.
// It never fails: absent inputs resolve to their defaults.
func Calculate(item domain.LineItem) float64 {
	return Breakdown(item).Quantity
}

// Breakdown performs the calculation and reports which basis was used.
func Breakdown(item domain.LineItem) Calculation {
	d := item.Resolve()
	area := d.X * d.Y
	volume := area * d.Z

	var basis Basis
	var base float64
	switch d.Unit {
	case domain.UnitCubicMeter:
		basis, base = BasisVolume, volume
	case domain.UnitSquareMeter:
		basis, base = BasisArea, area
	case domain.UnitKilogram, domain.UnitTon:
		basis, base = BasisWeightArea, area
		if d.Z > 0 {
			basis, base = BasisWeightVolume, volume
		}
		base *= d.UnitWeight
		if d.Unit == domain.UnitTon {
			base /= kgPerTon
		}
	default:
		basis, base = BasisLinear, firstNonZero(d.X, d.Y, d.Z)
	}

	raw := base * d.Multiplier * d.Count
	return Calculation{
		Dimensions: d,
		Basis:      basis,
		Base:       base,
		Raw:        raw,
		Quantity:   Round(raw),
	}
}

// firstNonZero returns the first non-zero value, or 1 when all are zero.
func firstNonZero(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 1
}
