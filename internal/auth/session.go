package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "taskflow_sid"

// SetSessionCookie writes the session cookie. Production deployments sit
// behind HTTPS with a cross-origin frontend, so the cookie must be Secure
// with SameSite=None there; local development uses Lax.
func SetSessionCookie(c echo.Context, token string, production bool) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(SessionDuration / time.Second),
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}
	if production {
		cookie.SameSite = http.SameSiteNoneMode
	}
	c.SetCookie(cookie)
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c echo.Context, production bool) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}
	if production {
		cookie.SameSite = http.SameSiteNoneMode
	}
	c.SetCookie(cookie)
}
