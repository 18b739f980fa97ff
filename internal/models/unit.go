package models

import "fmt"

// Unit is a mass unit a weight value is stored or displayed in.
type Unit string

const (
	UnitKG Unit = "kg"
	UnitLB Unit = "lb"
)

// DefaultUnit is used when synthesizing sets with no prior data.
const DefaultUnit = UnitLB

// kg → lb factor. The reverse direction divides by the same constant,
// so round trips are only float-exact to within ~1e-6 relative error.
// Kept asymmetric on purpose: stored data was written with these exact
// operations and reciprocal-constant output would not match it bit for bit.
const kgToLB = 2.20462

// ParseUnit parses "kg" or "lb".
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitKG:
		return UnitKG, nil
	case UnitLB:
		return UnitLB, nil
	}
	return "", fmt.Errorf("unknown weight unit %q", s)
}

// Convert converts a weight value between mass units. Identity when
// from == to. No rounding is applied; display rounding is the caller's
// concern.
func Convert(value float64, from, to Unit) float64 {
	if from == to {
		return value
	}
	if from == UnitKG && to == UnitLB {
		return value * kgToLB
	}
	if from == UnitLB && to == UnitKG {
		return value / kgToLB
	}
	return value
}
