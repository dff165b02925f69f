package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/internal/catalog"
	"github.com/stocksentryhq/stocksentry-backend/internal/inventory"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
	"github.com/stocksentryhq/stocksentry-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Result reports the outcome of one processed upload batch. Row-level problems
// land in Errors while the rest of the batch still commits; Result is only
// produced when the batch itself went through.
type Result struct {
	Success   bool     `json:"success"`
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
	Message   string   `json:"message"`
}

// Service absorbs tabular uploads into the normalized inventory model.
type Service interface {
	Ingest(ctx context.Context, upload io.Reader) (*Result, error)
}

type service struct {
	tx            txRunner
	catalogRepo   catalog.Repository
	inventoryRepo inventory.Repository
	metrics       *metrics.IngestMetrics
}

// NewService builds the ingestion service.
func NewService(tx txRunner, catalogRepo catalog.Repository, inventoryRepo inventory.Repository, ingestMetrics *metrics.IngestMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{
		tx:            tx,
		catalogRepo:   catalogRepo,
		inventoryRepo: inventoryRepo,
		metrics:       ingestMetrics,
	}, nil
}

// Ingest classifies the upload by its header, then applies every row inside a
// single transaction. Unresolved references and malformed fields are appended
// to Result.Errors and skipped; repository failures roll the whole batch back.
func (s *service) Ingest(ctx context.Context, upload io.Reader) (*Result, error) {
	tbl, err := parseTable(upload)
	if err != nil {
		s.metrics.IncRejected("unreadable")
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to read upload")
	}

	kind, ok := Identify(tbl.header)
	if !ok {
		s.metrics.IncRejected("unknown_format")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Unknown file format. Please check column headers.")
	}
	if missing := MissingColumns(tbl.header, kind); len(missing) > 0 {
		s.metrics.IncRejected("missing_columns")
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "Missing required columns: %v", missing)
	}

	var result *Result
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		var txErr error
		switch kind {
		case KindFacilities:
			result, txErr = s.processFacilities(ctx, tbl, catalogRepo)
		case KindCommodities:
			result, txErr = s.processCommodities(ctx, tbl, catalogRepo)
		case KindStockMovements:
			result, txErr = s.processStockMovements(ctx, tbl, catalogRepo, inventoryRepo)
		case KindStockBalances:
			result, txErr = s.processStockBalances(ctx, tbl, catalogRepo, inventoryRepo)
		case KindServiceVolumes:
			result, txErr = s.processServiceVolumes(ctx, tbl, catalogRepo, inventoryRepo)
		case KindLeadTimes:
			result, txErr = s.processLeadTimes(ctx, tbl, catalogRepo, inventoryRepo)
		}
		return txErr
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(pkgerrors.CodeDependency, err, "ingest %s batch", kind)
	}

	s.metrics.ObserveBatch(kind.String(), result.Processed, len(result.Errors))
	return result, nil
}

func (s *service) processFacilities(ctx context.Context, tbl *table, repo catalog.Repository) (*Result, error) {
	processed := 0
	rowErrs := []string{}

	for i, row := range tbl.rows {
		rowNum := i + 1

		code := tbl.field(row, "facility_code")
		if code == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: facility_code is required", rowNum))
			continue
		}

		_, err := repo.UpsertFacility(ctx, &models.Facility{
			FacilityCode: code,
			FacilityName: tbl.field(row, "facility_name"),
			District:     tbl.field(row, "district"),
			Region:       tbl.field(row, "region"),
			FacilityType: tbl.field(row, "facility_type"),
		})
		if err != nil {
			return nil, err
		}
		processed++
	}
	return batchResult(KindFacilities, processed, rowErrs), nil
}

func (s *service) processCommodities(ctx context.Context, tbl *table, repo catalog.Repository) (*Result, error) {
	processed := 0
	rowErrs := []string{}

	for i, row := range tbl.rows {
		rowNum := i + 1

		code := tbl.field(row, "commodity_code")
		if code == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: commodity_code is required", rowNum))
			continue
		}

		_, err := repo.UpsertCommodity(ctx, &models.Commodity{
			CommodityCode: code,
			CommodityName: tbl.field(row, "commodity_name"),
			CommodityType: tbl.field(row, "commodity_type"),
			UnitOfMeasure: tbl.field(row, "unit_of_measure"),
		})
		if err != nil {
			return nil, err
		}
		processed++
	}
	return batchResult(KindCommodities, processed, rowErrs), nil
}

func (s *service) processStockMovements(ctx context.Context, tbl *table, catalogRepo catalog.Repository, inventoryRepo inventory.Repository) (*Result, error) {
	processed := 0
	rowErrs := []string{}

	for i, row := range tbl.rows {
		rowNum := i + 1

		facility, commodity, rowErr, err := resolvePair(ctx, catalogRepo, tbl, row, rowNum)
		if err != nil {
			return nil, err
		}
		if rowErr != "" {
			rowErrs = append(rowErrs, rowErr)
			continue
		}

		movementType, err := enums.ParseMovementType(tbl.field(row, "movement_type"))
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid movement_type %q", rowNum, tbl.field(row, "movement_type")))
			continue
		}

		quantity, err := parseNonNegativeDecimal(tbl.field(row, "quantity"))
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid quantity %q", rowNum, tbl.field(row, "quantity")))
			continue
		}

		movementDate, err := parseDate(tbl.field(row, "movement_date"))
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid movement_date %q", rowNum, tbl.field(row, "movement_date")))
			continue
		}

		unitCost := decimal.Zero
		if raw := tbl.field(row, "unit_cost"); raw != "" {
			unitCost, err = decimal.NewFromString(raw)
			if err != nil {
				rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid unit_cost %q", rowNum, raw))
				continue
			}
		}

		_, err = inventoryRepo.CreateMovement(ctx, &models.StockMovement{
			FacilityID:      facility.ID,
			CommodityID:     commodity.ID,
			MovementType:    movementType,
			Quantity:        quantity,
			UnitCost:        unitCost,
			MovementDate:    movementDate,
			ReferenceNumber: tbl.field(row, "reference_number"),
		})
		if err != nil {
			return nil, err
		}
		processed++
	}
	return batchResult(KindStockMovements, processed, rowErrs), nil
}

func (s *service) processStockBalances(ctx context.Context, tbl *table, catalogRepo catalog.Repository, inventoryRepo inventory.Repository) (*Result, error) {
	processed := 0
	rowErrs := []string{}

	for i, row := range tbl.rows {
		rowNum := i + 1

		facility, commodity, rowErr, err := resolvePair(ctx, catalogRepo, tbl, row, rowNum)
		if err != nil {
			return nil, err
		}
		if rowErr != "" {
			rowErrs = append(rowErrs, rowErr)
			continue
		}

		balance := &models.StockBalance{FacilityID: facility.ID, CommodityID: commodity.ID}
		badField := ""
		for _, column := range []struct {
			name string
			dst  *decimal.Decimal
		}{
			{"current_stock", &balance.CurrentStock},
			{"reorder_level", &balance.ReorderLevel},
			{"maximum_stock", &balance.MaximumStock},
		} {
			value, err := parseNonNegativeDecimal(tbl.field(row, column.name))
			if err != nil {
				badField = column.name
				break
			}
			*column.dst = value
		}
		if badField != "" {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid %s %q", rowNum, badField, tbl.field(row, badField)))
			continue
		}

		if _, err := inventoryRepo.UpsertBalance(ctx, balance); err != nil {
			return nil, err
		}
		processed++
	}
	return batchResult(KindStockBalances, processed, rowErrs), nil
}

func (s *service) processServiceVolumes(ctx context.Context, tbl *table, catalogRepo catalog.Repository, inventoryRepo inventory.Repository) (*Result, error) {
	processed := 0
	rowErrs := []string{}

	for i, row := range tbl.rows {
		rowNum := i + 1

		code := tbl.field(row, "facility_code")
		if code == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: facility_code is required", rowNum))
			continue
		}

		facility, err := catalogRepo.FindFacilityByCode(ctx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: Facility %s not found", rowNum, code))
			continue
		}
		if err != nil {
			return nil, err
		}

		volumeCount, err := strconv.Atoi(tbl.field(row, "volume_count"))
		if err != nil || volumeCount < 0 {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid volume_count %q", rowNum, tbl.field(row, "volume_count")))
			continue
		}

		reportingPeriod, err := parseDate(tbl.field(row, "reporting_period"))
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid reporting_period %q", rowNum, tbl.field(row, "reporting_period")))
			continue
		}

		_, err = inventoryRepo.CreateServiceVolume(ctx, &models.ServiceVolume{
			FacilityID:      facility.ID,
			ServiceType:     tbl.field(row, "service_type"),
			VolumeCount:     volumeCount,
			ReportingPeriod: reportingPeriod,
		})
		if err != nil {
			return nil, err
		}
		processed++
	}
	return batchResult(KindServiceVolumes, processed, rowErrs), nil
}

func (s *service) processLeadTimes(ctx context.Context, tbl *table, catalogRepo catalog.Repository, inventoryRepo inventory.Repository) (*Result, error) {
	processed := 0
	rowErrs := []string{}

	for i, row := range tbl.rows {
		rowNum := i + 1

		facility, commodity, rowErr, err := resolvePair(ctx, catalogRepo, tbl, row, rowNum)
		if err != nil {
			return nil, err
		}
		if rowErr != "" {
			rowErrs = append(rowErrs, rowErr)
			continue
		}

		days, err := strconv.Atoi(tbl.field(row, "average_lead_time_days"))
		if err != nil || days <= 0 {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid average_lead_time_days %q", rowNum, tbl.field(row, "average_lead_time_days")))
			continue
		}

		_, err = inventoryRepo.UpsertLeadTime(ctx, &models.LeadTime{
			FacilityID:          facility.ID,
			CommodityID:         commodity.ID,
			Supplier:            tbl.field(row, "supplier"),
			AverageLeadTimeDays: days,
		})
		if err != nil {
			return nil, err
		}
		processed++
	}
	return batchResult(KindLeadTimes, processed, rowErrs), nil
}

// resolvePair maps the row's facility and commodity codes to their master-list
// rows. A non-empty rowErr means the row must be skipped and recorded; a
// non-nil err aborts the batch.
func resolvePair(ctx context.Context, repo catalog.Repository, tbl *table, row []string, rowNum int) (*models.Facility, *models.Commodity, string, error) {
	facilityCode := tbl.field(row, "facility_code")
	if facilityCode == "" {
		return nil, nil, fmt.Sprintf("Row %d: facility_code is required", rowNum), nil
	}
	commodityCode := tbl.field(row, "commodity_code")
	if commodityCode == "" {
		return nil, nil, fmt.Sprintf("Row %d: commodity_code is required", rowNum), nil
	}

	facility, err := repo.FindFacilityByCode(ctx, facilityCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Sprintf("Row %d: Facility %s not found", rowNum, facilityCode), nil
	}
	if err != nil {
		return nil, nil, "", err
	}

	commodity, err := repo.FindCommodityByCode(ctx, commodityCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Sprintf("Row %d: Commodity %s not found", rowNum, commodityCode), nil
	}
	if err != nil {
		return nil, nil, "", err
	}

	return facility, commodity, "", nil
}

func batchResult(kind FileKind, processed int, rowErrs []string) *Result {
	return &Result{
		Success:   true,
		Processed: processed,
		Errors:    rowErrs,
		Message:   fmt.Sprintf("Successfully processed %d %s", processed, strings.ReplaceAll(kind.String(), "_", " ")),
	}
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func parseNonNegativeDecimal(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if value.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative value %q", raw)
	}
	return value, nil
}
