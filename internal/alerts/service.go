package alerts

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/internal/inventory"
	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
	"github.com/stocksentryhq/stocksentry-backend/pkg/enums"
	pkgerrors "github.com/stocksentryhq/stocksentry-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// GenerateResult reports the outcome of one low stock sweep.
type GenerateResult struct {
	Success       bool   `json:"success"`
	AlertsCreated int    `json:"alerts_created"`
	Message       string `json:"message"`
}

// Service raises and reads stock alerts.
type Service interface {
	Generate(ctx context.Context) (*GenerateResult, error)
	List(ctx context.Context) ([]AlertRow, error)
	CountUnresolved(ctx context.Context) (int64, error)
}

type service struct {
	tx            txRunner
	repo          Repository
	inventoryRepo inventory.Repository
}

// NewService builds the alerts service.
func NewService(tx txRunner, repo Repository, inventoryRepo inventory.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("alerts repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{
		tx:            tx,
		repo:          repo,
		inventoryRepo: inventoryRepo,
	}, nil
}

// Generate sweeps every stock balance and raises a LOW_STOCK alert for each
// pair at or below its reorder level. A pair with an unresolved LOW_STOCK
// alert is skipped, so repeated sweeps never duplicate alerts. Existing alerts
// are never resolved here.
func (s *service) Generate(ctx context.Context) (*GenerateResult, error) {
	created := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		balances, err := s.inventoryRepo.WithTx(tx).AllBalances(ctx)
		if err != nil {
			return err
		}
		for _, balance := range balances {
			if balance.CurrentStock.GreaterThan(balance.ReorderLevel) {
				continue
			}
			exists, err := repo.UnresolvedExists(ctx, balance.FacilityID, balance.CommodityID, enums.AlertTypeLowStock)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			alert := &models.Alert{
				FacilityID:  balance.FacilityID,
				CommodityID: balance.CommodityID,
				AlertType:   enums.AlertTypeLowStock,
				AlertLevel:  levelFor(balance.CurrentStock),
				Message:     fmt.Sprintf("Stock level (%s) is below reorder level (%s)", balance.CurrentStock, balance.ReorderLevel),
			}
			if err := repo.Create(ctx, alert); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate low stock alerts")
	}
	return &GenerateResult{
		Success:       true,
		AlertsCreated: created,
		Message:       fmt.Sprintf("Generated %d new alerts", created),
	}, nil
}

func (s *service) List(ctx context.Context) ([]AlertRow, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list alerts")
	}
	return rows, nil
}

func (s *service) CountUnresolved(ctx context.Context) (int64, error) {
	count, err := s.repo.CountUnresolved(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unresolved alerts")
	}
	return count, nil
}

// levelFor grades a breached balance: zero stock is CRITICAL, anything else
// below the reorder line is WARNING.
func levelFor(currentStock decimal.Decimal) enums.AlertLevel {
	if currentStock.IsZero() {
		return enums.AlertLevelCritical
	}
	return enums.AlertLevelWarning
}
