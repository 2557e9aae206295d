package repository

import (
	"context"
	"time"

	"indicators/internal/domain/entity"
)

// KPIRepository aggregates records over an inclusive date window.
type KPIRepository interface {
	Totals(ctx context.Context, from, to time.Time) (*entity.KPITotals, error)
}
