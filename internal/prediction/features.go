package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/internal/inventory"
	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

const (
	defaultLookbackDays = 90
	defaultLeadTimeDays = 30

	// noConsumptionHorizon stands in for days-until-stockout when nothing was
	// issued in the window.
	noConsumptionHorizon = 365
)

// Features is the derived input vector for one facility/commodity pair.
type Features struct {
	CurrentStock        float64
	ReorderLevel        float64
	MaxStock            float64
	StockRatio          float64
	AvgDailyConsumption float64
	ConsumptionStd      float64
	ConsumptionTrend    float64
	ReceiptFrequency    float64
	AvgServiceVolume    float64
	AvgLeadTime         float64
	DayOfWeek           int
	Month               int
	DaysUntilStockout   float64
}

// Builder derives features from historical movement records.
type Builder struct {
	inventoryRepo inventory.Repository
	now           func() time.Time
}

// NewBuilder constructs a feature builder. now may be nil to use wall time.
func NewBuilder(inventoryRepo inventory.Repository, now func() time.Time) (*Builder, error) {
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &Builder{inventoryRepo: inventoryRepo, now: now}, nil
}

// Build derives the pair's feature vector over the trailing lookback window.
// It returns (nil, nil) when the pair has no movements in the window or no
// balance snapshot; that is the defined insufficient-data outcome, not an
// error.
func (b *Builder) Build(ctx context.Context, facilityID, commodityID uint, lookbackDays int) (*Features, error) {
	if lookbackDays <= 0 {
		lookbackDays = defaultLookbackDays
	}

	now := b.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -lookbackDays)

	movements, err := b.inventoryRepo.MovementsInWindow(ctx, facilityID, commodityID, start, end)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return nil, nil
	}

	balance, err := b.inventoryRepo.FindBalance(ctx, facilityID, commodityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	volumes, err := b.inventoryRepo.ServiceVolumesSince(ctx, facilityID, start)
	if err != nil {
		return nil, err
	}

	avgLeadTime := float64(defaultLeadTimeDays)
	leadTime, err := b.inventoryRepo.LatestLeadTime(ctx, facilityID, commodityID)
	switch {
	case err == nil:
		avgLeadTime = float64(leadTime.AverageLeadTimeDays)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	features := &Features{
		CurrentStock: balance.CurrentStock.InexactFloat64(),
		ReorderLevel: balance.ReorderLevel.InexactFloat64(),
		MaxStock:     balance.MaximumStock.InexactFloat64(),
		AvgLeadTime:  avgLeadTime,
		DayOfWeek:    mondayIndexedWeekday(now),
		Month:        int(now.Month()),
	}
	if features.MaxStock > 0 {
		features.StockRatio = features.CurrentStock / features.MaxStock
	}

	var issues []float64
	receiptCount := 0
	for _, movement := range movements {
		switch movement.MovementType {
		case enums.MovementTypeIssue:
			issues = append(issues, movement.Quantity.InexactFloat64())
		case enums.MovementTypeReceipt:
			receiptCount++
		}
	}

	features.AvgDailyConsumption = mean(issues)
	features.ConsumptionStd = sampleStd(issues)
	features.ConsumptionTrend = slope(issues)
	features.ReceiptFrequency = float64(receiptCount) / float64(lookbackDays)

	if len(volumes) > 0 {
		total := 0
		for _, volume := range volumes {
			total += volume.VolumeCount
		}
		features.AvgServiceVolume = float64(total) / float64(len(volumes))
	}

	if features.AvgDailyConsumption > 0 {
		features.DaysUntilStockout = features.CurrentStock / features.AvgDailyConsumption
	} else {
		features.DaysUntilStockout = noConsumptionHorizon
	}

	return features, nil
}

// mondayIndexedWeekday maps time.Weekday to a Monday=0..Sunday=6 index.
func mondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
