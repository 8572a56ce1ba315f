package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maidaan/maidaan/internal/handler"
	"github.com/maidaan/maidaan/internal/middleware"
	"github.com/maidaan/maidaan/internal/model"
)

// RegisterAdmin registers venue management, payment and stats endpoints.
// All routes require the admin role; ownership is checked by the services.
func RegisterAdmin(e *echo.Echo, v *handler.VenueHandler, m *handler.MatchHandler, s *handler.StatsHandler, jwtSecret string) {
	g := e.Group("/v1")
	auth := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.ProfileAdmin),
	}

	g.PATCH("/venue", v.Update, auth...)
	g.POST("/venue/create", v.Create, auth...)
	g.PUT("/venue/pricing", v.SetPricing, auth...)
	g.POST("/venue/courts", v.AddCourt, auth...)

	g.PATCH("/matches/:id/payment", m.Pay, auth...)

	g.GET("/admin/stats", s.Overview, auth...)
	g.GET("/admin/stats/:date", s.Day, auth...)
}
