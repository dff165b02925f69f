package enums

import "fmt"

// AlertType names the condition that raised an alert.
type AlertType string

const (
	AlertTypeLowStock AlertType = "LOW_STOCK"
	AlertTypeStockOut AlertType = "STOCK_OUT"
	AlertTypeReorder  AlertType = "REORDER"
)

var validAlertTypes = []AlertType{
	AlertTypeLowStock,
	AlertTypeStockOut,
	AlertTypeReorder,
}

// String implements fmt.Stringer.
func (a AlertType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertType.
func (a AlertType) IsValid() bool {
	for _, candidate := range validAlertTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertType converts raw input into an AlertType.
func ParseAlertType(value string) (AlertType, error) {
	for _, candidate := range validAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert type %q", value)
}

// AlertLevel grades the urgency of an alert.
type AlertLevel string

const (
	AlertLevelInfo     AlertLevel = "INFO"
	AlertLevelWarning  AlertLevel = "WARNING"
	AlertLevelCritical AlertLevel = "CRITICAL"
)

var validAlertLevels = []AlertLevel{
	AlertLevelInfo,
	AlertLevelWarning,
	AlertLevelCritical,
}

// String implements fmt.Stringer.
func (a AlertLevel) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertLevel.
func (a AlertLevel) IsValid() bool {
	for _, candidate := range validAlertLevels {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertLevel converts raw input into an AlertLevel.
func ParseAlertLevel(value string) (AlertLevel, error) {
	for _, candidate := range validAlertLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert level %q", value)
}
