package postgres

import (
	"context"

	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/repository"
	"indicators/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository is the constructor for goalRepository.
func NewGoalRepository(db *gorm.DB) repository.GoalRepository {
	return &goalRepository{db: db}
}

func (repo *goalRepository) List(ctx context.Context) ([]*entity.Goal, error) {
	var rows []model.GoalModel
	if err := repo.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list goals")
	}

	goals := make([]*entity.Goal, 0, len(rows))
	for i := range rows {
		goals = append(goals, toGoalDomain(&rows[i]))
	}

	return goals, nil
}

func (repo *goalRepository) FindByKey(ctx context.Context, key string) (*entity.Goal, error) {
	// A zero-value struct condition would match any row.
	if key == "" {
		return nil, errors.WithStack(domainerrors.ErrNotFound)
	}

	var goalM model.GoalModel
	if err := repo.db.WithContext(ctx).Where(&model.GoalModel{Key: key}).First(&goalM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.WithStack(domainerrors.ErrNotFound)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find goal")
	}

	return toGoalDomain(&goalM), nil
}

func (repo *goalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	goalM := fromGoalDomain(goal)
	if err := repo.db.WithContext(ctx).Create(goalM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create goal")
	}

	goal.ID = goalM.ID

	return nil
}

func (repo *goalRepository) Update(ctx context.Context, goal *entity.Goal) error {
	err := repo.db.WithContext(ctx).
		Model(&model.GoalModel{}).
		Where("id = ?", goal.ID).
		Updates(map[string]any{"value": goal.Value, "unit": goal.Unit}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update goal")
	}

	return nil
}

func toGoalDomain(data *model.GoalModel) *entity.Goal {
	return &entity.Goal{
		ID:    data.ID,
		Key:   data.Key,
		Value: data.Value,
		Unit:  data.Unit,
	}
}

func fromGoalDomain(data *entity.Goal) *model.GoalModel {
	return &model.GoalModel{
		ID:    data.ID,
		Key:   data.Key,
		Value: data.Value,
		Unit:  data.Unit,
	}
}
