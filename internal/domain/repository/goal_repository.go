package repository

import (
	"context"

	"indicators/internal/domain/entity"
)

// GoalRepository persists named KPI targets.
type GoalRepository interface {
	// List returns every goal ordered by key.
	List(ctx context.Context) ([]*entity.Goal, error)

	// FindByKey returns domainerrors.ErrNotFound when absent.
	FindByKey(ctx context.Context, key string) (*entity.Goal, error)

	Create(ctx context.Context, goal *entity.Goal) error
	Update(ctx context.Context, goal *entity.Goal) error
}
