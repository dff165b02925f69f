package models

import "time"

// Commodity is a tracked medical commodity from the product master.
type Commodity struct {
	ID            uint      `gorm:"column:id;primaryKey"`
	CommodityCode string    `gorm:"column:commodity_code;not null;uniqueIndex"`
	CommodityName string    `gorm:"column:commodity_name;not null"`
	CommodityType string    `gorm:"column:commodity_type"`
	UnitOfMeasure string    `gorm:"column:unit_of_measure"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
