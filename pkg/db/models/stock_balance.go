package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance is the current stock snapshot per facility/commodity pair.
type StockBalance struct {
	ID           uint            `gorm:"column:id;primaryKey"`
	FacilityID   uint            `gorm:"column:facility_id;not null;uniqueIndex:idx_stock_balances_pair"`
	CommodityID  uint            `gorm:"column:commodity_id;not null;uniqueIndex:idx_stock_balances_pair"`
	CurrentStock decimal.Decimal `gorm:"column:current_stock;type:numeric(10,2);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"column:reorder_level;type:numeric(10,2);not null;default:0"`
	MaximumStock decimal.Decimal `gorm:"column:maximum_stock;type:numeric(10,2);not null;default:0"`
	LastUpdated  time.Time       `gorm:"column:last_updated;autoUpdateTime"`
}
