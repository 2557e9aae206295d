package postgres

import (
	"context"
	"log/slog"

	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/query"
	"indicators/internal/domain/repository"
	"indicators/internal/errors"
	"indicators/internal/infra/persistence/model"

	"go.uber.org/fx"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// datasetRepository is the record store of one kind, driven by its descriptor.
type datasetRepository[T model.Record] struct {
	db      *gorm.DB
	logger  *slog.Logger
	desc    Descriptor[T]
	columns map[string]struct{}
}

func newDatasetRepository[T model.Record](db *gorm.DB, logger *slog.Logger, desc Descriptor[T]) *datasetRepository[T] {
	columns := make(map[string]struct{}, len(desc.Columns))
	for _, c := range desc.Columns {
		columns[c.Name] = struct{}{}
	}

	return &datasetRepository[T]{
		db:      db,
		logger:  logger,
		desc:    desc,
		columns: columns,
	}
}

func (r *datasetRepository[T]) Kind() string {
	return r.desc.Kind
}

func (r *datasetRepository[T]) Columns() []string {
	return r.desc.columnNames()
}

func (r *datasetRepository[T]) List(ctx context.Context, q query.ListQuery) ([]entity.Record, error) {
	tx := r.db.WithContext(ctx).Model(new(T))

	if q.From != nil {
		tx = tx.Where("date >= ?", datatypes.Date(*q.From))
	}
	if q.To != nil {
		tx = tx.Where("date <= ?", datatypes.Date(*q.To))
	}
	if q.Customer != "" && r.desc.Filters.Has(FilterCustomer) {
		tx = tx.Where("LOWER(customer) LIKE LOWER(?)", "%"+q.Customer+"%")
	}
	if q.Sector != "" && r.desc.Filters.Has(FilterSector) {
		tx = tx.Where("sector = ?", q.Sector)
	}

	tx = tx.Order(r.orderBy(q)).Limit(q.Limit).Offset(q.Offset)

	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list "+r.desc.Kind)
	}

	records := make([]entity.Record, 0, len(rows))
	for i := range rows {
		records = append(records, r.desc.flatten(&rows[i]))
	}

	return records, nil
}

// orderBy only ever emits a column from the descriptor; anything else falls back to id DESC.
func (r *datasetRepository[T]) orderBy(q query.ListQuery) clause.OrderByColumn {
	if _, ok := r.columns[q.OrderBy]; ok && q.OrderBy != "" {
		return clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc}
	}

	return clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}
}

func (r *datasetRepository[T]) Create(ctx context.Context, fields map[string]any) (entity.Record, error) {
	row, err := r.desc.build(fields)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create "+r.desc.Kind)
	}

	return r.desc.flatten(row), nil
}

// datasetRegistry maps kinds to their repositories.
type datasetRegistry struct {
	repos map[string]repository.DatasetRepository
	kinds []string
}

// RegistryParams defines the dependencies of the dataset registry.
type RegistryParams struct {
	fx.In

	DB     *gorm.DB
	Logger *slog.Logger
}

// NewDatasetRegistry validates every descriptor and fails startup on a mismatch with the schema.
func NewDatasetRegistry(params RegistryParams) (repository.DatasetRegistry, error) {
	reg := &datasetRegistry{repos: make(map[string]repository.DatasetRepository)}

	if err := register(reg, params, entryDescriptor()); err != nil {
		return nil, err
	}
	if err := register(reg, params, delayDescriptor()); err != nil {
		return nil, err
	}
	if err := register(reg, params, breakageDescriptor()); err != nil {
		return nil, err
	}
	if err := register(reg, params, complaintDescriptor()); err != nil {
		return nil, err
	}

	return reg, nil
}

func register[T model.Record](reg *datasetRegistry, params RegistryParams, desc Descriptor[T]) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	if _, dup := reg.repos[desc.Kind]; dup {
		return errors.Errorf("dataset %s registered twice", desc.Kind)
	}

	reg.repos[desc.Kind] = newDatasetRepository(params.DB, params.Logger, desc)
	reg.kinds = append(reg.kinds, desc.Kind)

	return nil
}

func (reg *datasetRegistry) Lookup(kind string) (repository.DatasetRepository, bool) {
	repo, ok := reg.repos[kind]

	return repo, ok
}

func (reg *datasetRegistry) Kinds() []string {
	return append([]string(nil), reg.kinds...)
}
