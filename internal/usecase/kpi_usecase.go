package usecase

import (
	"context"

	"indicators/internal/domain/entity"
)

// KPIUsecase computes the rolling 30-day overview.
type KPIUsecase interface {
	Overview(ctx context.Context) (*entity.KPIOverview, error)
}
