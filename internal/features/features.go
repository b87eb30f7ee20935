// Package features defines the closed set of wine-chemistry inputs accepted
// by the prediction model, along with the static editing bounds for each one.
//
// The feature set is a fixed-shape struct rather than an open map so that the
// eight wire fields are checked at compile time. Bounds are used only to
// constrain editable input; they are never transmitted to the prediction
// service.
package features

import (
	"fmt"
	"math"
	"strconv"
)

// Feature names, equal to their wire field names.
const (
	FixedAcidity      = "fixed_acidity"
	VolatileAcidity   = "volatile_acidity"
	CitricAcid        = "citric_acid"
	Chlorides         = "chlorides"
	FreeSulfurDioxide = "free_sulfur_dioxide"
	Density           = "density"
	Alcohol           = "alcohol"
	TypeWhite         = "type_white"
)

// Wine type values for the type_white selector.
const (
	TypeRedValue   = 0
	TypeWhiteValue = 1
)

// Set holds the current value of every model input. JSON tags are the wire
// field names, so marshaling a Set produces the exact request body shape.
type Set struct {
	FixedAcidity      float64 `json:"fixed_acidity"`
	VolatileAcidity   float64 `json:"volatile_acidity"`
	CitricAcid        float64 `json:"citric_acid"`
	Chlorides         float64 `json:"chlorides"`
	FreeSulfurDioxide float64 `json:"free_sulfur_dioxide"`
	Density           float64 `json:"density"`
	Alcohol           float64 `json:"alcohol"`
	TypeWhite         int     `json:"type_white"`
}

// Defaults returns the feature values the dashboard starts from, a typical
// white wine sample.
func Defaults() Set {
	return Set{
		FixedAcidity:      7.0,
		VolatileAcidity:   0.27,
		CitricAcid:        0.36,
		Chlorides:         0.05,
		FreeSulfurDioxide: 30,
		Density:           0.995,
		Alcohol:           10.5,
		TypeWhite:         TypeWhiteValue,
	}
}

// Value returns the current value of the named feature.
func (s Set) Value(name string) (float64, bool) {
	switch name {
	case FixedAcidity:
		return s.FixedAcidity, true
	case VolatileAcidity:
		return s.VolatileAcidity, true
	case CitricAcid:
		return s.CitricAcid, true
	case Chlorides:
		return s.Chlorides, true
	case FreeSulfurDioxide:
		return s.FreeSulfurDioxide, true
	case Density:
		return s.Density, true
	case Alcohol:
		return s.Alcohol, true
	case TypeWhite:
		return float64(s.TypeWhite), true
	}
	return 0, false
}

// Apply sets the named continuous feature. The type selector is not settable
// through this path; callers use the dedicated two-valued setter instead.
func (s *Set) Apply(name string, v float64) bool {
	switch name {
	case FixedAcidity:
		s.FixedAcidity = v
	case VolatileAcidity:
		s.VolatileAcidity = v
	case CitricAcid:
		s.CitricAcid = v
	case Chlorides:
		s.Chlorides = v
	case FreeSulfurDioxide:
		s.FreeSulfurDioxide = v
	case Density:
		s.Density = v
	case Alcohol:
		s.Alcohol = v
	default:
		return false
	}
	return true
}

// ParseValue parses raw input for the named feature and validates it against
// the feature's bounds. NaN and infinities are rejected alongside anything
// outside [min, max].
func ParseValue(name, raw string) (float64, error) {
	r, ok := RangeOf(name)
	if !ok {
		return 0, fmt.Errorf("unknown feature %q", name)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("feature %s: %w", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("feature %s: value is not finite", name)
	}
	if v < r.Min || v > r.Max {
		return 0, fmt.Errorf("feature %s: %g outside [%g, %g]", name, v, r.Min, r.Max)
	}
	return v, nil
}

// Validate checks an already-parsed value against the feature's bounds.
func Validate(name string, v float64) error {
	r, ok := RangeOf(name)
	if !ok {
		return fmt.Errorf("unknown feature %q", name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < r.Min || v > r.Max {
		return fmt.Errorf("feature %s: %g outside [%g, %g]", name, v, r.Min, r.Max)
	}
	return nil
}
