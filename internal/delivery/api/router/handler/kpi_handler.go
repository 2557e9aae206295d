package handler

import (
	"net/http"

	"indicators/internal/delivery/api/response"
	"indicators/internal/usecase"

	"github.com/labstack/echo/v4"
)

// KPIHandler serves the dashboard overview.
type KPIHandler struct {
	kpiUC usecase.KPIUsecase
}

// NewKPIHandler is the constructor for KPIHandler.
func NewKPIHandler(kpiUC usecase.KPIUsecase) *KPIHandler {
	return &KPIHandler{kpiUC: kpiUC}
}

// Overview returns the rolling 30-day KPIs with the executive summary.
func (h *KPIHandler) Overview(c echo.Context) error {
	overview, err := h.kpiUC.Overview(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, overview)
}
