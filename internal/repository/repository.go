package repository

import (
	"context"
	"time"

	"github.com/mr1hm/go-quake-magnitude/internal/models"
)

type Filter struct {
	Limit        int
	Offset       int
	Since        *time.Time
	Tier         *models.SeverityTier
	MinMagnitude *float64
}

// PredictionRepository stores past predictions. It is only used when
// history is switched on.
type PredictionRepository interface {
	Add(ctx context.Context, r *models.PredictionRecord) error
	GetByID(ctx context.Context, id string) (*models.PredictionRecord, error)
	ListPredictions(ctx context.Context, opts Filter) ([]models.PredictionRecord, error)
}
