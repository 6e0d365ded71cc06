package domain

import "strings"

type Category string

const (
	CategoryConcrete      Category = "Concrete"
	CategoryFormwork      Category = "Formwork"
	CategoryReinforcement Category = "Reinforcement"
	CategoryFinishing     Category = "Finishing"
)

// Categories lists the accepted categories in display order.
var Categories = []Category{
	CategoryConcrete,
	CategoryFormwork,
	CategoryReinforcement,
	CategoryFinishing,
}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Unit is the calculation basis selected by a line item's unit of measure.
// Any unit string that is not recognized maps to UnitLinear.
type Unit int

const (
	UnitLinear Unit = iota
	UnitCubicMeter
	UnitSquareMeter
	UnitKilogram
	UnitTon
)

// ParseUnit classifies a unit string case-insensitively.
func ParseUnit(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3":
		return UnitCubicMeter
	case "m2":
		return UnitSquareMeter
	case "kg":
		return UnitKilogram
	case "ton":
		return UnitTon
	default:
		return UnitLinear
	}
}

func (u Unit) String() string {
	switch u {
	case UnitCubicMeter:
		return "m3"
	case UnitSquareMeter:
		return "m2"
	case UnitKilogram:
		return "kg"
	case UnitTon:
		return "ton"
	default:
		return "linear"
	}
}

// IsWeight reports whether the unit is mass based.
func (u Unit) IsWeight() bool {
	return u == UnitKilogram || u == UnitTon
}

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// ValidSeverities is the canonical set of accepted severity strings.
var ValidSeverities = map[Severity]bool{
	SeverityCritical: true,
	SeverityWarning:  true,
	SeverityInfo:     true,
}

type RuleCode string

const (
	RuleMissingDimension    RuleCode = "MISSING_DIMENSION"
	RuleCalculationMismatch RuleCode = "CALCULATION_MISMATCH"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

type ReportSource string

const (
	SourceLLM           ReportSource = "llm"
	SourceDeterministic ReportSource = "deterministic"
)
