package usecase

import (
	"context"
	"io"

	"indicators/internal/domain/entity"
	"indicators/internal/domain/query"
)

// DatasetUsecase serves the four record kinds through one kind-parametrized API.
// An unknown kind is domainerrors.ErrUnknownDataset.
type DatasetUsecase interface {
	Kinds() []string
	List(ctx context.Context, kind string, q query.ListQuery) ([]entity.Record, error)
	Create(ctx context.Context, kind string, fields map[string]any) (entity.Record, error)
	Import(ctx context.Context, kind string, src io.Reader) (int, error)

	// Export writes the listing as CSV to w and returns the number of data rows.
	// No rows means an empty body with no header line.
	Export(ctx context.Context, kind string, q query.ListQuery, w io.Writer) (int, error)
}
