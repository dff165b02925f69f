package enums

import "fmt"

// RiskLevel grades how close a facility/commodity pair is to a stock-out.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
	RiskLevelUnknown  RiskLevel = "UNKNOWN"
)

var validRiskLevels = []RiskLevel{
	RiskLevelLow,
	RiskLevelMedium,
	RiskLevelHigh,
	RiskLevelCritical,
	RiskLevelUnknown,
}

// String implements fmt.Stringer.
func (r RiskLevel) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RiskLevel.
func (r RiskLevel) IsValid() bool {
	for _, candidate := range validRiskLevels {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRiskLevel converts raw input into a RiskLevel.
func ParseRiskLevel(value string) (RiskLevel, error) {
	for _, candidate := range validRiskLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid risk level %q", value)
}
