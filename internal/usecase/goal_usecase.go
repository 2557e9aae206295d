package usecase

import (
	"context"

	"indicators/internal/domain/entity"
)

// UpsertGoalInput defines a goal write keyed by Key.
type UpsertGoalInput struct {
	Key   string
	Value float64
	Unit  string
}

// GoalUsecase manages KPI targets.
type GoalUsecase interface {
	ListGoals(ctx context.Context) ([]*entity.Goal, error)
	UpsertGoal(ctx context.Context, input UpsertGoalInput) (*entity.Goal, error)
	ValueOrDefault(ctx context.Context, key string, def float64) (float64, error)
}
