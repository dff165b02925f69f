package models

import (
	"time"

	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

// Alert records a stock condition that needs operator attention.
type Alert struct {
	ID          uint             `gorm:"column:id;primaryKey"`
	FacilityID  uint             `gorm:"column:facility_id;not null;index"`
	CommodityID uint             `gorm:"column:commodity_id;not null;index"`
	AlertType   enums.AlertType  `gorm:"column:alert_type;not null"`
	AlertLevel  enums.AlertLevel `gorm:"column:alert_level;not null"`
	Message     string           `gorm:"column:message;not null"`
	IsResolved  bool             `gorm:"column:is_resolved;not null;default:false"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	ResolvedAt  *time.Time       `gorm:"column:resolved_at"`
}
