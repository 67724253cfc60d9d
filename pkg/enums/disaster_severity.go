package enums

import "fmt"

// DisasterSeverity is the reported severity band for a disaster.
type DisasterSeverity string

const (
	DisasterSeverityLow      DisasterSeverity = "low"
	DisasterSeverityMedium   DisasterSeverity = "medium"
	DisasterSeverityHigh     DisasterSeverity = "high"
	DisasterSeverityCritical DisasterSeverity = "critical"
)

var validDisasterSeverities = []DisasterSeverity{
	DisasterSeverityLow,
	DisasterSeverityMedium,
	DisasterSeverityHigh,
	DisasterSeverityCritical,
}

// String implements fmt.Stringer.
func (d DisasterSeverity) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DisasterSeverity.
func (d DisasterSeverity) IsValid() bool {
	for _, candidate := range validDisasterSeverities {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDisasterSeverity converts raw input into a DisasterSeverity.
func ParseDisasterSeverity(value string) (DisasterSeverity, error) {
	for _, candidate := range validDisasterSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid disaster severity %q", value)
}
