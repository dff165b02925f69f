package cron

import (
	"context"
	"fmt"

	"github.com/stocksentryhq/stocksentry-backend/internal/alerts"
	"github.com/stocksentryhq/stocksentry-backend/pkg/logger"
)

// LowStockJobParams configure the low stock sweep.
type LowStockJobParams struct {
	Logger *logger.Logger
	Alerts alertGenerator
}

type alertGenerator interface {
	Generate(ctx context.Context) (*alerts.GenerateResult, error)
}

// NewLowStockJob builds the cron job that sweeps stock balances and raises
// low stock alerts.
func NewLowStockJob(params LowStockJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alerts service required")
	}
	return &lowStockJob{
		logg:   params.Logger,
		alerts: params.Alerts,
	}, nil
}

type lowStockJob struct {
	logg   *logger.Logger
	alerts alertGenerator
}

func (j *lowStockJob) Name() string { return "low-stock-sweep" }

func (j *lowStockJob) Run(ctx context.Context) error {
	result, err := j.alerts.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate low stock alerts: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"created": result.AlertsCreated})
	j.logg.Info(logCtx, "low stock sweep complete")
	return nil
}
