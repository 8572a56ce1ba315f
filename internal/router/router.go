// Package router registers the HTTP routes of the API on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/maidaan/maidaan/internal/handler"
	"github.com/maidaan/maidaan/internal/middleware"
	"github.com/maidaan/maidaan/internal/model"
)

// only drops nil middleware so optional layers (cache, rate limit) can be
// passed unconditionally.  It always returns a new slice.
func only(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, m := range mws {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterRoutes registers the health and readiness probes.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAuth registers registration, login and token rotation under
// /v1/auth, and the session endpoints that need a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// The /v1 groups below carry no group middleware.  Echo gives a group with
// middleware a catch-all route, which would answer unknown /v1 paths with
// 401 instead of 404, so auth is attached to each route.

// RegisterPublic registers the browse endpoints.  A token is optional; when
// present the venue's own admin sees the board under the admin policy.
// cache, when not nil, serves repeated venue reads from Redis.
func RegisterPublic(e *echo.Echo, v *handler.VenueHandler, s *handler.SlotHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	optional := middleware.OptionalJWTAuth(jwtSecret)
	g.GET("/venue", v.Get, only(optional, cache)...)
	g.GET("/venues/:id/courts/:court_id/slots", s.Slots, optional)
	g.POST("/venues/:id/courts/:court_id/selection", s.Select, optional)
}

// RegisterMember registers endpoints open to any signed-in profile.
// limit, when not nil, throttles booking submissions.
func RegisterMember(e *echo.Echo, m *handler.MatchHandler, p *handler.ProfileHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")
	auth := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.ProfileAdmin, model.ProfilePlayer),
	}
	g.GET("/profiles", p.Lookup, auth...)
	g.POST("/profiles", p.Create, auth...)
	g.PATCH("/profiles/:id", p.Update, auth...)

	g.POST("/matches", m.Book, only(append(auth, limit)...)...)
	g.GET("/matches/:id", m.Get, auth...)
	g.DELETE("/matches/:id", m.Cancel, auth...)
	g.GET("/my-matches", m.Mine, auth...)
}
