package models

import "time"

// Facility is a health facility registered in the master list.
type Facility struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	FacilityCode string    `gorm:"column:facility_code;not null;uniqueIndex"`
	FacilityName string    `gorm:"column:facility_name;not null"`
	District     string    `gorm:"column:district"`
	Region       string    `gorm:"column:region"`
	FacilityType string    `gorm:"column:facility_type"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
