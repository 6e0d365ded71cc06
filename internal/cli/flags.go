package cli

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
)

// optionalFloat is a flag value that stays nil unless the flag is given.
type optionalFloat struct {
	target **float64
}

var _ pflag.Value = optionalFloat{}

func (o optionalFloat) String() string {
	if o.target == nil || *o.target == nil {
		return ""
	}
	return strconv.FormatFloat(**o.target, 'f', -1, 64)
}

func (o optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.Newf("%q is not a number", s)
	}
	*o.target = &v
	return nil
}

func (optionalFloat) Type() string { return "float" }

// lineItemFlags are the measurement flags shared by item add and calc.
type lineItemFlags struct {
	unit       string
	x, y, z    *float64
	multiplier *float64
	count      *float64
	unitWeight *float64
}

func (f *lineItemFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.unit, "unit", "", "Unit of measure (m3, m2, kg, ton, m, adet)")
	fs.Var(optionalFloat{&f.x}, "x", "Width / first dimension")
	fs.Var(optionalFloat{&f.y}, "y", "Length / second dimension")
	fs.Var(optionalFloat{&f.z}, "z", "Height / third dimension")
	fs.Var(optionalFloat{&f.multiplier}, "multiplier", "Multiplier (default 1)")
	fs.Var(optionalFloat{&f.count}, "count", "Number of identical elements (default 1)")
	fs.Var(optionalFloat{&f.unitWeight}, "unit-weight", "Weight per unit length/area/volume in kg (kg and ton units)")
}
