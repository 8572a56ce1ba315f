package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/maidaan/maidaan/internal/service"
)

// StatsHandler serves the admin dashboard figures.
type StatsHandler struct {
	stats *service.StatsService
	log   *zerolog.Logger
}

func NewStatsHandler(s *service.StatsService, log *zerolog.Logger) *StatsHandler {
	return &StatsHandler{stats: s, log: log}
}

// Overview returns the last seven days with paid bookings and today's
// figures.
func (h *StatsHandler) Overview(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	o, err := h.stats.Overview(ctx, a)
	if err != nil {
		return fail(c, h.log, "stats.overview", err)
	}
	return c.JSON(http.StatusOK, o)
}

// Day returns the paid matches of :date.
func (h *StatsHandler) Day(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.stats.Day(ctx, a, c.Param("date"))
	if err != nil {
		return fail(c, h.log, "stats.day", err)
	}
	return c.JSON(http.StatusOK, d)
}
