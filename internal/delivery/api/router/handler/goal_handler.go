package handler

import (
	"log/slog"
	"net/http"

	"indicators/internal/delivery/api/response"
	"indicators/internal/domain/entity"
	"indicators/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// GoalHandlerParams holds dependencies for GoalHandler, injected by Fx.
type GoalHandlerParams struct {
	fx.In

	GoalUC usecase.GoalUsecase
	Logger *slog.Logger
}

// GoalHandler serves the KPI targets.
type GoalHandler struct {
	goalUC usecase.GoalUsecase
	logger *slog.Logger
}

// NewGoalHandler is the constructor for GoalHandler.
func NewGoalHandler(params GoalHandlerParams) *GoalHandler {
	return &GoalHandler{
		goalUC: params.GoalUC,
		logger: params.Logger,
	}
}

// UpsertGoalRequest represents the request body for writing a goal.
type UpsertGoalRequest struct {
	Key   string   `json:"key" validate:"required"`
	Value *float64 `json:"value" validate:"required"`
	Unit  string   `json:"unit"`
}

// GoalResponse is a single goal.
type GoalResponse struct {
	ID    uint    `json:"id"`
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ListGoals returns every goal ordered by key.
func (h *GoalHandler) ListGoals(c echo.Context) error {
	goals, err := h.goalUC.ListGoals(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	out := make([]GoalResponse, 0, len(goals))
	for _, goal := range goals {
		out = append(out, toGoalResponse(goal))
	}

	return response.Success(c, http.StatusOK, out)
}

// UpsertGoal overwrites the goal with the same key or creates it.
func (h *GoalHandler) UpsertGoal(c echo.Context) error {
	var req UpsertGoalRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid goal input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	goal, err := h.goalUC.UpsertGoal(c.Request().Context(), usecase.UpsertGoalInput{
		Key:   req.Key,
		Value: *req.Value,
		Unit:  req.Unit,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toGoalResponse(goal))
}

func toGoalResponse(goal *entity.Goal) GoalResponse {
	return GoalResponse{
		ID:    goal.ID,
		Key:   goal.Key,
		Value: goal.Value,
		Unit:  goal.Unit,
	}
}
