package prediction

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/internal/inventory"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:prediction_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Facility{},
		&models.Commodity{},
		&models.StockMovement{},
		&models.StockBalance{},
		&models.ServiceVolume{},
		&models.LeadTime{},
		&models.Prediction{},
	))
	return db
}

func seedPair(t *testing.T, db *gorm.DB) (*models.Facility, *models.Commodity) {
	t.Helper()

	facility := &models.Facility{FacilityCode: "FAC001", FacilityName: "Central Hospital"}
	require.NoError(t, db.Create(facility).Error)
	commodity := &models.Commodity{CommodityCode: "COM001", CommodityName: "Paracetamol 500mg"}
	require.NoError(t, db.Create(commodity).Error)
	return facility, commodity
}

func seedMovement(t *testing.T, db *gorm.DB, facilityID, commodityID uint, movementType enums.MovementType, qty int64, date time.Time) {
	t.Helper()

	require.NoError(t, db.Create(&models.StockMovement{
		FacilityID:   facilityID,
		CommodityID:  commodityID,
		MovementType: movementType,
		Quantity:     decimal.NewFromInt(qty),
		MovementDate: date,
	}).Error)
}

func seedBalance(t *testing.T, db *gorm.DB, facilityID, commodityID uint, current, reorder, max int64) {
	t.Helper()

	require.NoError(t, db.Create(&models.StockBalance{
		FacilityID:   facilityID,
		CommodityID:  commodityID,
		CurrentStock: decimal.NewFromInt(current),
		ReorderLevel: decimal.NewFromInt(reorder),
		MaximumStock: decimal.NewFromInt(max),
	}).Error)
}

func newTestBuilder(t *testing.T, db *gorm.DB) *Builder {
	t.Helper()

	builder, err := NewBuilder(inventory.NewRepository(db), fixedNow)
	require.NoError(t, err)
	return builder
}

func day(offset int) time.Time {
	base := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestBuild_InsufficientWithoutMovements(t *testing.T) {
	db := newTestDB(t)
	builder := newTestBuilder(t, db)
	facility, commodity := seedPair(t, db)
	seedBalance(t, db, facility.ID, commodity.ID, 100, 50, 200)

	features, err := builder.Build(context.Background(), facility.ID, commodity.ID, 90)
	require.NoError(t, err)
	assert.Nil(t, features)
}

func TestBuild_InsufficientWithoutBalance(t *testing.T) {
	db := newTestDB(t)
	builder := newTestBuilder(t, db)
	facility, commodity := seedPair(t, db)
	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeIssue, 10, day(-5))

	features, err := builder.Build(context.Background(), facility.ID, commodity.ID, 90)
	require.NoError(t, err)
	assert.Nil(t, features)
}

func TestBuild_FullVector(t *testing.T) {
	db := newTestDB(t)
	builder := newTestBuilder(t, db)
	facility, commodity := seedPair(t, db)

	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeIssue, 10, day(-30))
	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeIssue, 20, day(-20))
	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeIssue, 30, day(-10))
	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeReceipt, 100, day(-15))
	seedBalance(t, db, facility.ID, commodity.ID, 100, 50, 200)

	require.NoError(t, db.Create(&models.ServiceVolume{FacilityID: facility.ID, ServiceType: "OPD", VolumeCount: 100, ReportingPeriod: day(-40)}).Error)
	require.NoError(t, db.Create(&models.ServiceVolume{FacilityID: facility.ID, ServiceType: "OPD", VolumeCount: 200, ReportingPeriod: day(-20)}).Error)

	require.NoError(t, db.Create(&models.LeadTime{FacilityID: facility.ID, CommodityID: commodity.ID, Supplier: "NMS", AverageLeadTimeDays: 14}).Error)

	features, err := builder.Build(context.Background(), facility.ID, commodity.ID, 90)
	require.NoError(t, err)
	require.NotNil(t, features)

	assert.Equal(t, 100.0, features.CurrentStock)
	assert.Equal(t, 50.0, features.ReorderLevel)
	assert.Equal(t, 200.0, features.MaxStock)
	assert.InDelta(t, 0.5, features.StockRatio, 1e-9)
	assert.InDelta(t, 20.0, features.AvgDailyConsumption, 1e-9)
	assert.InDelta(t, 10.0, features.ConsumptionStd, 1e-9)
	assert.InDelta(t, 10.0, features.ConsumptionTrend, 1e-9)
	assert.InDelta(t, 1.0/90.0, features.ReceiptFrequency, 1e-9)
	assert.InDelta(t, 150.0, features.AvgServiceVolume, 1e-9)
	assert.Equal(t, 14.0, features.AvgLeadTime)
	assert.InDelta(t, 5.0, features.DaysUntilStockout, 1e-9)

	// 2024-03-15 is a Friday; weekday is Monday-indexed.
	assert.Equal(t, 4, features.DayOfWeek)
	assert.Equal(t, 3, features.Month)
}

func TestBuild_ZeroStockRatioWhenMaxUnset(t *testing.T) {
	db := newTestDB(t)
	builder := newTestBuilder(t, db)
	facility, commodity := seedPair(t, db)
	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeIssue, 10, day(-5))
	seedBalance(t, db, facility.ID, commodity.ID, 100, 50, 0)

	features, err := builder.Build(context.Background(), facility.ID, commodity.ID, 90)
	require.NoError(t, err)
	require.NotNil(t, features)
	assert.Equal(t, 0.0, features.StockRatio)
}

func TestBuild_NoIssuesYieldsSentinelHorizon(t *testing.T) {
	db := newTestDB(t)
	builder := newTestBuilder(t, db)
	facility, commodity := seedPair(t, db)
	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeReceipt, 100, day(-10))
	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeReceipt, 50, day(-5))
	seedBalance(t, db, facility.ID, commodity.ID, 100, 50, 200)

	features, err := builder.Build(context.Background(), facility.ID, commodity.ID, 90)
	require.NoError(t, err)
	require.NotNil(t, features)
	assert.Equal(t, 0.0, features.AvgDailyConsumption)
	assert.Equal(t, 0.0, features.ConsumptionStd)
	assert.Equal(t, 0.0, features.ConsumptionTrend)
	assert.Equal(t, 365.0, features.DaysUntilStockout)
	assert.InDelta(t, 2.0/90.0, features.ReceiptFrequency, 1e-9)
}

func TestBuild_WindowBoundaries(t *testing.T) {
	db := newTestDB(t)
	builder := newTestBuilder(t, db)
	facility, commodity := seedPair(t, db)
	seedBalance(t, db, facility.ID, commodity.ID, 100, 50, 200)

	// Outside the 90-day window; alone it leaves the pair insufficient.
	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeIssue, 10, day(-91))

	features, err := builder.Build(context.Background(), facility.ID, commodity.ID, 90)
	require.NoError(t, err)
	assert.Nil(t, features)

	// On the window edge; now the pair qualifies.
	seedMovement(t, db, facility.ID, commodity.ID, enums.MovementTypeIssue, 10, day(-90))

	features, err = builder.Build(context.Background(), facility.ID, commodity.ID, 90)
	require.NoError(t, err)
	require.NotNil(t, features)
	assert.InDelta(t, 10.0, features.AvgDailyConsumption, 1e-9)
}
