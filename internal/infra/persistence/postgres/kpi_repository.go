package postgres

import (
	"context"
	"time"

	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/repository"
	"indicators/internal/infra/persistence/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type kpiRepository struct {
	db *gorm.DB
}

// NewKPIRepository is the constructor for kpiRepository.
func NewKPIRepository(db *gorm.DB) repository.KPIRepository {
	return &kpiRepository{db: db}
}

// Totals sums production, orders and losses and counts delays and complaints with from <= date <= to.
func (repo *kpiRepository) Totals(ctx context.Context, from, to time.Time) (*entity.KPITotals, error) {
	db := repo.db.WithContext(ctx)
	lo, hi := datatypes.Date(from), datatypes.Date(to)
	totals := &entity.KPITotals{}

	inWindow := func(m any) *gorm.DB {
		return db.Model(m).Where("date >= ? AND date <= ?", lo, hi)
	}

	if err := inWindow(&model.EntryModel{}).
		Select("COALESCE(SUM(forno_m2), 0), COALESCE(SUM(pedidos_m2), 0)").
		Row().Scan(&totals.Production, &totals.Orders); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to sum entries")
	}

	if err := inWindow(&model.BreakageModel{}).
		Select("COALESCE(SUM(qty_m2), 0)").
		Row().Scan(&totals.Loss); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to sum breakages")
	}

	if err := inWindow(&model.DelayModel{}).Count(&totals.Delays).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count delays")
	}

	if err := inWindow(&model.ComplaintModel{}).Count(&totals.Complaints).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to count complaints")
	}

	return totals, nil
}
