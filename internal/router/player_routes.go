package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maidaan/maidaan/internal/handler"
	"github.com/maidaan/maidaan/internal/middleware"
	"github.com/maidaan/maidaan/internal/model"
)

// RegisterPlayer registers player-only endpoints.
func RegisterPlayer(e *echo.Echo, m *handler.MatchHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")
	auth := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.ProfilePlayer),
	}
	g.POST("/matches/:id/join", m.Join, only(append(auth, limit)...)...)
}
