package impl

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	deliverycontext "indicators/internal/delivery/context"
	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/query"
	"indicators/internal/domain/repository"
	"indicators/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// datasetService implements the DatasetUsecase interface.
type datasetService struct {
	registry repository.DatasetRegistry
	logger   *slog.Logger
}

// DatasetServiceParams holds dependencies for DatasetService, injected by Fx.
type DatasetServiceParams struct {
	fx.In

	Registry repository.DatasetRegistry
	Logger   *slog.Logger
}

// NewDatasetService is the constructor for datasetService.
func NewDatasetService(params DatasetServiceParams) usecase.DatasetUsecase {
	return &datasetService{
		registry: params.Registry,
		logger:   params.Logger,
	}
}

func (srv *datasetService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *datasetService) repo(kind string) (repository.DatasetRepository, error) {
	repo, ok := srv.registry.Lookup(kind)
	if !ok {
		return nil, domainerrors.ErrUnknownDataset.WithDetails(kind)
	}

	return repo, nil
}

func (srv *datasetService) Kinds() []string {
	return srv.registry.Kinds()
}

func (srv *datasetService) List(ctx context.Context, kind string, q query.ListQuery) ([]entity.Record, error) {
	repo, err := srv.repo(kind)
	if err != nil {
		return nil, err
	}

	return repo.List(ctx, q)
}

func (srv *datasetService) Create(ctx context.Context, kind string, fields map[string]any) (entity.Record, error) {
	repo, err := srv.repo(kind)
	if err != nil {
		return nil, err
	}

	rec, err := repo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Record created", slog.String("kind", kind))

	return rec, nil
}

func (srv *datasetService) Import(ctx context.Context, kind string, src io.Reader) (int, error) {
	repo, err := srv.repo(kind)
	if err != nil {
		return 0, err
	}

	return repo.Import(ctx, src)
}

func (srv *datasetService) Export(ctx context.Context, kind string, q query.ListQuery, w io.Writer) (int, error) {
	repo, err := srv.repo(kind)
	if err != nil {
		return 0, err
	}

	records, err := repo.List(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := writeCSV(w, records); err != nil {
		return 0, errors.Wrapf(err, "failed to write %s export", kind)
	}

	srv.log(ctx).Debug("Records exported", slog.String("kind", kind), slog.Int("rows", len(records)))

	return len(records), nil
}

// writeCSV uses the first record's column names as the header.
func writeCSV(w io.Writer, records []entity.Record) error {
	out := csv.NewWriter(w)
	if err := out.Write(records[0].Names()); err != nil {
		return err
	}

	row := make([]string, 0, len(records[0]))
	for _, rec := range records {
		row = row[:0]
		for _, f := range rec {
			row = append(row, formatCell(f.Value))
		}
		if err := out.Write(row); err != nil {
			return err
		}
	}

	out.Flush()

	return out.Error()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}
