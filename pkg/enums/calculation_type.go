package enums

import "fmt"

// CalculationType selects how a discount value is interpreted.
type CalculationType string

const (
	CalculationTypePercentage CalculationType = "percentage"
	CalculationTypeFlat       CalculationType = "flat"
)

var validCalculationTypes = []CalculationType{
	CalculationTypePercentage,
	CalculationTypeFlat,
}

// String implements fmt.Stringer.
func (c CalculationType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CalculationType.
func (c CalculationType) IsValid() bool {
	for _, candidate := range validCalculationTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCalculationType converts raw input into a CalculationType.
func ParseCalculationType(value string) (CalculationType, error) {
	for _, candidate := range validCalculationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid calculation type %q", value)
}
