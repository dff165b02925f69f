package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/db"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// FindFacilityByCode loads a facility by its unique code.
func (r *repository) FindFacilityByCode(ctx context.Context, code string) (*models.Facility, error) {
	var facility models.Facility
	if err := r.db.WithContext(ctx).First(&facility, "facility_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &facility, nil
}

// FindCommodityByCode loads a commodity by its unique code.
func (r *repository) FindCommodityByCode(ctx context.Context, code string) (*models.Commodity, error) {
	var commodity models.Commodity
	if err := r.db.WithContext(ctx).First(&commodity, "commodity_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &commodity, nil
}

// FindFacilityByID loads a facility by primary key.
func (r *repository) FindFacilityByID(ctx context.Context, id uint) (*models.Facility, error) {
	var facility models.Facility
	if err := r.db.WithContext(ctx).First(&facility, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &facility, nil
}

// FindCommodityByID loads a commodity by primary key.
func (r *repository) FindCommodityByID(ctx context.Context, id uint) (*models.Commodity, error) {
	var commodity models.Commodity
	if err := r.db.WithContext(ctx).First(&commodity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &commodity, nil
}

// UpsertFacility inserts the facility or refreshes the master-list fields of
// the row already registered under the same code.
func (r *repository) UpsertFacility(ctx context.Context, facility *models.Facility) (*models.Facility, error) {
	tx := r.db.WithContext(ctx)

	var existing models.Facility
	err := tx.First(&existing, "facility_code = ?", facility.FacilityCode).Error
	switch {
	case err == nil:
		return refreshFacility(tx, &existing, facility)
	case errors.Is(err, gorm.ErrRecordNotFound):
		createErr := tx.Create(facility).Error
		if createErr == nil {
			return facility, nil
		}
		if !db.IsUniqueViolation(createErr, "facility_code") {
			return nil, createErr
		}
		// A concurrent upload registered the same code first; refresh that row.
		if err := tx.First(&existing, "facility_code = ?", facility.FacilityCode).Error; err != nil {
			return nil, err
		}
		return refreshFacility(tx, &existing, facility)
	default:
		return nil, err
	}
}

func refreshFacility(tx *gorm.DB, existing, incoming *models.Facility) (*models.Facility, error) {
	existing.FacilityName = incoming.FacilityName
	existing.District = incoming.District
	existing.Region = incoming.Region
	existing.FacilityType = incoming.FacilityType
	if err := tx.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// UpsertCommodity inserts the commodity or refreshes the master-list fields of
// the row already registered under the same code.
func (r *repository) UpsertCommodity(ctx context.Context, commodity *models.Commodity) (*models.Commodity, error) {
	tx := r.db.WithContext(ctx)

	var existing models.Commodity
	err := tx.First(&existing, "commodity_code = ?", commodity.CommodityCode).Error
	switch {
	case err == nil:
		return refreshCommodity(tx, &existing, commodity)
	case errors.Is(err, gorm.ErrRecordNotFound):
		createErr := tx.Create(commodity).Error
		if createErr == nil {
			return commodity, nil
		}
		if !db.IsUniqueViolation(createErr, "commodity_code") {
			return nil, createErr
		}
		// A concurrent upload registered the same code first; refresh that row.
		if err := tx.First(&existing, "commodity_code = ?", commodity.CommodityCode).Error; err != nil {
			return nil, err
		}
		return refreshCommodity(tx, &existing, commodity)
	default:
		return nil, err
	}
}

func refreshCommodity(tx *gorm.DB, existing, incoming *models.Commodity) (*models.Commodity, error) {
	existing.CommodityName = incoming.CommodityName
	existing.CommodityType = incoming.CommodityType
	existing.UnitOfMeasure = incoming.UnitOfMeasure
	if err := tx.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// ListFacilities returns all registered facilities ordered by name.
func (r *repository) ListFacilities(ctx context.Context) ([]models.Facility, error) {
	var rows []models.Facility
	err := r.db.WithContext(ctx).
		Order("facility_name ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListCommodities returns all registered commodities ordered by name.
func (r *repository) ListCommodities(ctx context.Context) ([]models.Commodity, error) {
	var rows []models.Commodity
	err := r.db.WithContext(ctx).
		Order("commodity_name ASC").
		Find(&rows).
		Error
	return rows, err
}

// CountFacilities returns the number of registered facilities.
func (r *repository) CountFacilities(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Facility{}).Count(&count).Error
	return count, err
}

// CountCommodities returns the number of registered commodities.
func (r *repository) CountCommodities(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Commodity{}).Count(&count).Error
	return count, err
}
