package domain

import "math"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Float64OrDefault resolves an optional numeric field. A nil pointer, a
// stored zero and NaN all count as absent and yield the fallback.
func Float64OrDefault(p *float64, fallback float64) float64 {
	if p == nil || *p == 0 || math.IsNaN(*p) {
		return fallback
	}
	return *p
}

// Float64FromPtrWithDefault returns the first non-nil *float64 value, or the fallback.
func Float64FromPtrWithDefault(fallback float64, ptrs ...*float64) float64 {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}
