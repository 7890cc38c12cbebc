package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const browseSessionCookie = "rl_session"

// BrowseSessionKey is where the session id is stored on the echo context.
const BrowseSessionKey = "browseSession"

// BrowseSession gives every client an opaque browsing-session id cookie.
// The id scopes server-held browse state and the once-per-session view
// markers; it carries no identity.
func BrowseSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(browseSessionCookie)
		if err != nil || cookie.Value == "" {
			cookie = &http.Cookie{
				Name:     browseSessionCookie,
				Value:    uuid.New().String(),
				Path:     "/",
				HttpOnly: true,
				Expires:  time.Now().Add(12 * time.Hour),
			}
			c.SetCookie(cookie)
		}

		c.Set(BrowseSessionKey, cookie.Value)

		return next(c)
	}
}

// RequestTimeout bounds every backend-touching request so an unreachable
// collaborator surfaces as a failure instead of a hung connection.
func RequestTimeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
