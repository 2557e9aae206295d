// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"indicators/internal/delivery/api/cookie"
	"indicators/internal/delivery/api/response"
	deliverycontext "indicators/internal/delivery/context"
	"indicators/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC        usecase.AuthUsecase
	RefreshCookie *cookie.RefreshCookie
	Logger        *slog.Logger
}

// AuthHandler serves the token lifecycle endpoints.
type AuthHandler struct {
	authUC        usecase.AuthUsecase
	refreshCookie *cookie.RefreshCookie
	logger        *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler.
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC:        params.AuthUC,
		refreshCookie: params.RefreshCookie,
		logger:        params.Logger,
	}
}

// LoginRequest represents the request body for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the body returned by every endpoint that issues tokens.
// The refresh token is only ever sent as a cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Email       string `json:"email"`
}

// SeedAdmin creates the bootstrap administrator when missing and signs it in.
func (h *AuthHandler) SeedAdmin(c echo.Context) error {
	pair, err := h.authUC.SeedAdmin(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return h.issue(c, pair)
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	pair, err := h.authUC.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return h.issue(c, pair)
}

// Refresh rotates the token pair using the refresh cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	pair, err := h.authUC.Refresh(c.Request().Context(), h.refreshCookie.Read(c))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return h.issue(c, pair)
}

// Logout clears the refresh cookie. Access tokens stay valid until they expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.refreshCookie.Clear(c)

	return response.Success(c, http.StatusOK, map[string]string{"detail": "Logged out"})
}

func (h *AuthHandler) issue(c echo.Context, pair *usecase.TokenPair) error {
	h.refreshCookie.Set(c, pair.RefreshToken, pair.RefreshTTL)

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).
		Info("Token pair issued", slog.String("email", pair.Email))

	return response.Success(c, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		Role:        pair.Role.String(),
		Email:       pair.Email,
	})
}
