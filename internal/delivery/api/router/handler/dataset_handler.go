package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"indicators/internal/delivery/api/response"
	deliverycontext "indicators/internal/delivery/context"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/domain/query"
	"indicators/internal/usecase"
	"indicators/internal/util"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const importFormField = "file"

// DatasetHandlerParams holds dependencies for DatasetHandler, injected by Fx.
type DatasetHandlerParams struct {
	fx.In

	DatasetUC usecase.DatasetUsecase
	Logger    *slog.Logger
}

// DatasetHandler serves every record kind; the kind comes from the :kind path segment.
type DatasetHandler struct {
	datasetUC usecase.DatasetUsecase
	logger    *slog.Logger
}

// NewDatasetHandler is the constructor for DatasetHandler.
func NewDatasetHandler(params DatasetHandlerParams) *DatasetHandler {
	return &DatasetHandler{
		datasetUC: params.DatasetUC,
		logger:    params.Logger,
	}
}

// List returns the filtered, sorted and paginated records of a kind.
func (h *DatasetHandler) List(c echo.Context) error {
	q, err := query.Parse(c.QueryParams(), query.DefaultListLimit)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	records, err := h.datasetUC.List(c.Request().Context(), c.Param("kind"), q)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, records)
}

// Create validates and stores a single record.
func (h *DatasetHandler) Create(c echo.Context) error {
	// Bind would also copy the :kind path param into the map.
	fields := map[string]any{}
	if err := c.Echo().JSONSerializer.Deserialize(c, &fields); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid record input")
	}

	record, err := h.datasetUC.Create(c.Request().Context(), c.Param("kind"), fields)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, record)
}

// Import bulk-loads the uploaded CSV file, skipping rows that do not validate.
func (h *DatasetHandler) Import(c echo.Context) error {
	kind := c.Param("kind")
	start := time.Now()

	header, err := c.FormFile(importFormField)
	if err != nil {
		return response.HandleAppError(c, domainerrors.ErrValidationFailed.WithDetails("multipart field \"file\" is required"))
	}

	src, err := header.Open()
	if err != nil {
		return errors.Wrap(err, "open uploaded file")
	}
	defer src.Close()

	inserted, err := h.datasetUC.Import(c.Request().Context(), kind, src)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Info("CSV imported",
		slog.String("kind", kind),
		slog.String("filename", header.Filename),
		slog.String("size", util.FormatBytes(header.Size)),
		slog.Int("inserted", inserted),
		slog.String("took", util.FormatDuration(time.Since(start))),
	)

	return response.Success(c, http.StatusOK, map[string]int{"inserted": inserted})
}

// Export downloads the filtered records as CSV.
func (h *DatasetHandler) Export(c echo.Context) error {
	kind := c.Param("kind")

	q, err := query.Parse(c.QueryParams(), query.DefaultExportLimit)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	// Buffered so that a failure still renders as a JSON error.
	var buf bytes.Buffer
	if _, err := h.datasetUC.Export(c.Request().Context(), kind, q, &buf); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.CSV(c, kind+".csv", buf.Bytes())
}
