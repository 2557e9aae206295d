package postgres

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strings"

	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/query"
	"indicators/internal/errors"

	"gorm.io/gorm"
)

const importSavepoint = "import_row"

// numericColumns are coerced to float64 whenever present and non-empty, whatever the kind.
var numericColumns = map[string]struct{}{
	"pedidos_m2":  {},
	"forno_m2":    {},
	"days_late":   {},
	"order_value": {},
	"qty_m2":      {},
	"qty":         {},
}

// Import reads a header row then data rows. Only allow-listed columns are read.
// A row that fails date parsing, numeric coercion, a required field or the
// insert itself is skipped; every insert sits behind a savepoint so one bad
// row never aborts the transaction, which commits once at the end.
func (r *datasetRepository[T]) Import(ctx context.Context, src io.Reader) (int, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, domainerrors.ErrInvalidCSV.WithDetails(err.Error())
	}
	index := r.headerIndex(header)

	inserted, skipped := 0, 0
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for line := 2; ; line++ {
			cells, readErr := reader.Read()
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			if readErr != nil {
				var parseErr *csv.ParseError
				if !errors.As(readErr, &parseErr) {
					return errors.Wrap(readErr, "read csv")
				}
				skipped++
				r.logSkipped(ctx, line, readErr)

				continue
			}

			row, buildErr := r.decodeRow(index, cells)
			if buildErr != nil {
				skipped++
				r.logSkipped(ctx, line, buildErr)

				continue
			}

			if err := tx.SavePoint(importSavepoint).Error; err != nil {
				return errors.Wrap(err, "savepoint")
			}
			if err := tx.Create(row).Error; err != nil {
				if rbErr := tx.RollbackTo(importSavepoint).Error; rbErr != nil {
					return errors.Wrap(rbErr, "rollback to savepoint")
				}
				skipped++
				r.logSkipped(ctx, line, err)

				continue
			}
			inserted++
		}
	})
	if err != nil {
		return 0, domainerrors.NewDatabaseExecuteError(err, "failed to import "+r.desc.Kind)
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "CSV import finished",
			slog.String("kind", r.desc.Kind),
			slog.Int("inserted", inserted),
			slog.Int("skipped", skipped),
		)
	}

	return inserted, nil
}

// headerIndex maps allow-listed column names to their position in the file.
func (r *datasetRepository[T]) headerIndex(header []string) map[string]int {
	allowed := make(map[string]struct{}, len(r.desc.ImportColumns))
	for _, c := range r.desc.ImportColumns {
		allowed[c] = struct{}{}
	}

	index := make(map[string]int, len(allowed))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := allowed[name]; ok {
			index[name] = i
		}
	}

	return index
}

func (r *datasetRepository[T]) decodeRow(index map[string]int, cells []string) (*T, error) {
	values := make(map[string]any, len(index))
	for name, pos := range index {
		if pos >= len(cells) {
			continue
		}
		values[name] = strings.TrimSpace(cells[pos])
	}

	if raw, ok := values["date"].(string); ok && raw != "" {
		d, err := query.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		values["date"] = d
	}

	for name := range numericColumns {
		raw, ok := values[name].(string)
		if !ok || raw == "" {
			continue
		}
		f, err := parseFinite(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "column %s", name)
		}
		values[name] = f
	}

	return r.desc.build(values)
}

func (r *datasetRepository[T]) logSkipped(ctx context.Context, line int, err error) {
	if r.logger == nil {
		return
	}

	r.logger.DebugContext(ctx, "CSV row skipped",
		slog.String("kind", r.desc.Kind),
		slog.Int("line", line),
		slog.String("reason", err.Error()),
	)
}
