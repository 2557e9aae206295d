// Package middleware contains the echo middleware specific to the JSON API.
package middleware

import (
	"strings"

	deliverycontext "indicators/internal/delivery/context"
	"indicators/internal/domain/entity"
	domainerrors "indicators/internal/domain/errors"
	"indicators/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware guards routes with bearer access tokens and roles.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUC usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{authUC: authUC}
}

// Authenticate resolves the bearer token to an active user and stores it in the context.
// The user is looked up on every request; nothing is cached.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errors.WithStack(domainerrors.ErrUnauthenticated)
		}

		user, err := m.authUC.Authenticate(c.Request().Context(), token)
		if err != nil {
			return err
		}

		deliverycontext.SetCurrentUser(c, user)

		return next(c)
	}
}

// RequireRoles admits users holding any of roles; no roles admits every authenticated user.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRoles(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := deliverycontext.CurrentUser(c)
			if !ok {
				return errors.WithStack(domainerrors.ErrUnauthenticated)
			}
			if !user.HasAnyRole(roles...) {
				return domainerrors.ErrForbidden.WithDetails("requires one of " + strings.Join(entity.Roles(roles).ToStrings(), ", "))
			}

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
