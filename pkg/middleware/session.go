package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/auth"
	"taskflow/internal/config"
)

// Session authenticates requests from the session cookie and places the
// caller's claims in the request context. No operation behind this
// middleware runs without an established identity.
func Session(cfg *config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.SessionSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(auth.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized: Please log in."})
			}
			claims, err := auth.ValidateSessionToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized: Please log in."})
			}
			c.Set("user", claims)
			return next(c)
		}
	}
}
