package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Facility{},
		&models.Commodity{},
		&models.StockMovement{},
		&models.StockBalance{},
		&models.ServiceVolume{},
		&models.LeadTime{},
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

func TestUpsertBalance_CreateThenRefresh(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	facility, commodity := seedPair(t, db)

	created, err := repo.UpsertBalance(ctx, &models.StockBalance{
		FacilityID:   facility.ID,
		CommodityID:  commodity.ID,
		CurrentStock: decimal.NewFromInt(500),
		ReorderLevel: decimal.NewFromInt(100),
		MaximumStock: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	refreshed, err := repo.UpsertBalance(ctx, &models.StockBalance{
		FacilityID:   facility.ID,
		CommodityID:  commodity.ID,
		CurrentStock: decimal.NewFromInt(80),
		ReorderLevel: decimal.NewFromInt(100),
		MaximumStock: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, refreshed.ID)
	assert.True(t, refreshed.CurrentStock.Equal(decimal.NewFromInt(80)))

	all, err := repo.AllBalances(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMovementsInWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	facility, commodity := seedPair(t, db)

	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	for _, day := range []int{0, 5, 40} {
		_, err := repo.CreateMovement(ctx, &models.StockMovement{
			FacilityID:   facility.ID,
			CommodityID:  commodity.ID,
			MovementType: enums.MovementTypeIssue,
			Quantity:     decimal.NewFromInt(int64(10 + day)),
			MovementDate: base.AddDate(0, 0, day),
		})
		require.NoError(t, err)
	}

	rows, err := repo.MovementsInWindow(ctx, facility.ID, commodity.ID, base, base.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].MovementDate.Before(rows[1].MovementDate))
	assert.True(t, rows[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, rows[1].Quantity.Equal(decimal.NewFromInt(15)))
}

func TestLeadTimes(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	facility, commodity := seedPair(t, db)

	first, err := repo.UpsertLeadTime(ctx, &models.LeadTime{
		FacilityID:          facility.ID,
		CommodityID:         commodity.ID,
		Supplier:            "NMS",
		AverageLeadTimeDays: 14,
	})
	require.NoError(t, err)

	updated, err := repo.UpsertLeadTime(ctx, &models.LeadTime{
		FacilityID:          facility.ID,
		CommodityID:         commodity.ID,
		Supplier:            "NMS",
		AverageLeadTimeDays: 21,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, 21, updated.AverageLeadTimeDays)

	_, err = repo.UpsertLeadTime(ctx, &models.LeadTime{
		FacilityID:          facility.ID,
		CommodityID:         commodity.ID,
		Supplier:            "UNICEF",
		AverageLeadTimeDays: 30,
	})
	require.NoError(t, err)

	latest, err := repo.LatestLeadTime(ctx, facility.ID, commodity.ID)
	require.NoError(t, err)
	assert.Equal(t, "UNICEF", latest.Supplier)
	assert.Equal(t, 30, latest.AverageLeadTimeDays)

	_, err = repo.FindLeadTime(ctx, facility.ID, commodity.ID, "MISSING")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestServiceVolumesSince(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	facility, _ := seedPair(t, db)

	january := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	february := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, period := range []time.Time{january, february} {
		_, err := repo.CreateServiceVolume(ctx, &models.ServiceVolume{
			FacilityID:      facility.ID,
			ServiceType:     "OPD",
			VolumeCount:     1200,
			ReportingPeriod: period,
		})
		require.NoError(t, err)
	}

	rows, err := repo.ServiceVolumesSince(ctx, facility.ID, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, february.Format("2006-01-02"), rows[0].ReportingPeriod.Format("2006-01-02"))
}

func TestListBalances_JoinsNames(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	facility, commodity := seedPair(t, db)

	_, err := repo.UpsertBalance(ctx, &models.StockBalance{
		FacilityID:   facility.ID,
		CommodityID:  commodity.ID,
		CurrentStock: decimal.NewFromInt(50),
		ReorderLevel: decimal.NewFromInt(100),
		MaximumStock: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	rows, err := repo.ListBalances(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Central Hospital", rows[0].FacilityName)
	assert.Equal(t, "COM001", rows[0].CommodityCode)
	assert.True(t, rows[0].CurrentStock.Equal(decimal.NewFromInt(50)))
}
