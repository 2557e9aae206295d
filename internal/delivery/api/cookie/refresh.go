// Package cookie owns the refresh-token cookie, the only channel a refresh token travels in.
package cookie

import (
	"net/http"
	"time"

	"indicators/config"

	"github.com/labstack/echo/v4"
)

// RefreshCookie writes and reads the HttpOnly refresh cookie scoped to the auth routes.
type RefreshCookie struct {
	name   string
	path   string
	secure bool
}

// NewRefreshCookie is the constructor for RefreshCookie.
func NewRefreshCookie(cfg *config.Config) *RefreshCookie {
	return &RefreshCookie{
		name:   cfg.Auth.RefreshCookie.Name,
		path:   cfg.Auth.RefreshCookie.Path,
		secure: cfg.Auth.RefreshCookie.Secure,
	}
}

// Set stores token with a max-age equal to ttl.
func (rc *RefreshCookie) Set(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     rc.name,
		Value:    token,
		Path:     rc.path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   rc.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cookie on the client.
func (rc *RefreshCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     rc.name,
		Value:    "",
		Path:     rc.path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rc.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the refresh token or "" when the cookie is absent.
func (rc *RefreshCookie) Read(c echo.Context) string {
	ck, err := c.Cookie(rc.name)
	if err != nil {
		return ""
	}

	return ck.Value
}
