package types

import "fmt"

// Dimension names one of the resolvable generation parameters
type Dimension string

const (
	DimensionStyle     Dimension = "badge_style"
	DimensionTone      Dimension = "badge_tone"
	DimensionCriterion Dimension = "criterion_style"
	DimensionLevel     Dimension = "badge_level"
)

// AllDimensions returns every dimension in resolution order
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionStyle,
		DimensionTone,
		DimensionCriterion,
		DimensionLevel,
	}
}

func (d Dimension) IsValid() bool {
	switch d {
	case DimensionStyle, DimensionTone, DimensionCriterion, DimensionLevel:
		return true
	default:
		return false
	}
}

func (d Dimension) String() string {
	return string(d)
}

// ParseDimension parses a string into a Dimension
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid dimension: %s", s)
	}
	return d, nil
}
