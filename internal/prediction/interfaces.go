package prediction

import (
	"context"

	"gorm.io/gorm"

	"github.com/stocksentryhq/stocksentry-backend/pkg/db/models"
)

// Repository defines persistence over stored predictions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, prediction *models.Prediction) (*models.Prediction, error)
	List(ctx context.Context, filters ListFilters) ([]PredictionRow, error)
	Recent(ctx context.Context, limit int) ([]PredictionRow, error)
}
