package context

import (
	"indicators/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyCurrentUser holds the authenticated *entity.User in echo.Context.
const KeyCurrentUser ContextKey = "current_user"

// SetCurrentUser stores the user resolved by the auth middleware.
func SetCurrentUser(c echo.Context, user *entity.User) {
	c.Set(string(KeyCurrentUser), user)
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c echo.Context) (*entity.User, bool) {
	user, ok := c.Get(string(KeyCurrentUser)).(*entity.User)

	return user, ok && user != nil
}
