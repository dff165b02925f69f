package models

import "time"

// ServiceVolume is one reported service activity figure for a facility.
type ServiceVolume struct {
	ID              uint      `gorm:"column:id;primaryKey"`
	FacilityID      uint      `gorm:"column:facility_id;not null;index"`
	ServiceType     string    `gorm:"column:service_type;not null"`
	VolumeCount     int       `gorm:"column:volume_count;not null"`
	ReportingPeriod time.Time `gorm:"column:reporting_period;type:date;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}
