package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

// StockMovement is one append-only issue/receipt/adjustment event.
type StockMovement struct {
	ID              uint               `gorm:"column:id;primaryKey"`
	FacilityID      uint               `gorm:"column:facility_id;not null;index"`
	CommodityID     uint               `gorm:"column:commodity_id;not null;index"`
	MovementType    enums.MovementType `gorm:"column:movement_type;not null"`
	Quantity        decimal.Decimal    `gorm:"column:quantity;type:numeric(10,2);not null"`
	UnitCost        decimal.Decimal    `gorm:"column:unit_cost;type:numeric(10,2);not null;default:0"`
	MovementDate    time.Time          `gorm:"column:movement_date;type:date;not null"`
	ReferenceNumber string             `gorm:"column:reference_number"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
}
