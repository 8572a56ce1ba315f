package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/maidaan/maidaan/internal/utils"
)

func bearer(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func sessionFromToken(secret, raw string) (Session, error) {
	claims, err := utils.ParseAccessToken(secret, raw)
	if err != nil {
		return Session{}, err
	}
	id, err := claims.ProfileID()
	if err != nil {
		return Session{}, err
	}
	return Session{ProfileID: id, Role: claims.Role}, nil
}

// JWTAuth validates a Bearer access token and stores the caller's Session
// on the context.  Requests without a valid token get 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			s, err := sessionFromToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			SetSession(c, s)
			return next(c)
		}
	}
}

// OptionalJWTAuth attaches a Session when a valid token is present and lets
// anonymous requests through.  A present but invalid token is still 401.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c)
			if !ok {
				return next(c)
			}
			s, err := sessionFromToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			SetSession(c, s)
			return next(c)
		}
	}
}
