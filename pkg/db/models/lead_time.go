package models

import "time"

// LeadTime tracks how long a supplier takes to resupply a facility/commodity pair.
type LeadTime struct {
	ID                  uint      `gorm:"column:id;primaryKey"`
	FacilityID          uint      `gorm:"column:facility_id;not null;uniqueIndex:idx_lead_times_pair_supplier"`
	CommodityID         uint      `gorm:"column:commodity_id;not null;uniqueIndex:idx_lead_times_pair_supplier"`
	Supplier            string    `gorm:"column:supplier;not null;uniqueIndex:idx_lead_times_pair_supplier"`
	AverageLeadTimeDays int       `gorm:"column:average_lead_time_days;not null"`
	LastUpdated         time.Time `gorm:"column:last_updated;autoUpdateTime"`
}
