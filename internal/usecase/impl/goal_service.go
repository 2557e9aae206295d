package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "indicators/internal/delivery/context"
	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/repository"
	"indicators/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// goalService implements the GoalUsecase interface.
type goalService struct {
	txManager repository.TransactionManager
	goalRepo  repository.GoalRepository
	logger    *slog.Logger
}

// GoalServiceParams holds dependencies for GoalService, injected by Fx.
type GoalServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	GoalRepo  repository.GoalRepository
	Logger    *slog.Logger
}

// NewGoalService is the constructor for goalService.
func NewGoalService(params GoalServiceParams) usecase.GoalUsecase {
	return &goalService{
		txManager: params.TxManager,
		goalRepo:  params.GoalRepo,
		logger:    params.Logger,
	}
}

func (srv *goalService) ListGoals(ctx context.Context) ([]*entity.Goal, error) {
	return srv.goalRepo.List(ctx)
}

// UpsertGoal overwrites value and unit when the key exists and inserts otherwise.
func (srv *goalService) UpsertGoal(ctx context.Context, input usecase.UpsertGoalInput) (*entity.Goal, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("key is required")
	}

	var goal *entity.Goal
	err := srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		goalRepo := factory.NewGoalRepository()

		existing, err := goalRepo.FindByKey(ctx, key)
		if errors.Is(err, domainerrors.ErrNotFound) {
			goal = &entity.Goal{Key: key, Value: input.Value, Unit: input.Unit}

			return goalRepo.Create(ctx, goal)
		}
		if err != nil {
			return err
		}

		existing.Value = input.Value
		existing.Unit = input.Unit
		goal = existing

		return goalRepo.Update(ctx, goal)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert goal")
	}

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Info("Goal saved",
		slog.String("key", goal.Key),
		slog.Float64("value", goal.Value),
	)

	return goal, nil
}

// ValueOrDefault returns def when the key has never been set.
func (srv *goalService) ValueOrDefault(ctx context.Context, key string, def float64) (float64, error) {
	goal, err := srv.goalRepo.FindByKey(ctx, key)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return 0, err
	}

	return goal.Value, nil
}
