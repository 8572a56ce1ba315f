// Package handler holds the echo handlers of the HTTP API.  Handlers bind
// and validate the request, call a service and map its errors to JSON
// responses of the form {"error": "..."}.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/maidaan/maidaan/internal/availability"
	"github.com/maidaan/maidaan/internal/middleware"
	"github.com/maidaan/maidaan/internal/repository"
	"github.com/maidaan/maidaan/internal/service"
	"github.com/maidaan/maidaan/internal/timeslot"
	"github.com/maidaan/maidaan/internal/validate"
)

// MsgNotContiguous is shown when a selection would leave a gap.
const MsgNotContiguous = "Please select contiguous time slots only"

const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// actor returns the caller of an authenticated route.
func actor(c echo.Context) (service.Actor, bool) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{ID: s.ProfileID, Role: s.Role}, true
}

// optionalActor returns nil for anonymous callers.
func optionalActor(c echo.Context) *service.Actor {
	a, ok := actor(c)
	if !ok {
		return nil
	}
	return &a
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

func parseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	return id, err == nil && id > 0
}

// bindValid binds the body into dst and runs the echo validator.  On
// failure it returns the message to answer 400 with.
func bindValid(c echo.Context, dst any) (string, bool) {
	if err := c.Bind(dst); err != nil {
		return "invalid body", false
	}
	if err := c.Validate(dst); err != nil {
		return err.Error(), false
	}
	return "", true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// fail maps err to a status and writes it.  Unexpected errors are logged
// with op and answered with 500.
func fail(c echo.Context, log *zerolog.Logger, op string, err error) error {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Msg("request failed")
	}
	return c.JSON(status, echo.Map{"error": msg})
}

func classify(err error) (int, string) {
	var fe *validate.FieldError
	switch {
	case errors.As(err, &fe):
		return http.StatusBadRequest, fe.Error()
	case errors.Is(err, timeslot.ErrNotContiguous):
		return http.StatusUnprocessableEntity, MsgNotContiguous
	case errors.Is(err, availability.ErrSlotBooked), errors.Is(err, repository.ErrSlotTaken):
		return http.StatusConflict, "time slot already booked"
	case errors.Is(err, availability.ErrSlotPast):
		return http.StatusUnprocessableEntity, "cannot book a time slot in the past"
	case errors.Is(err, availability.ErrSlotUnavailable):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, timeslot.ErrInvalidSlot),
		errors.Is(err, availability.ErrEmptySelection),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrBookerRequired),
		errors.Is(err, service.ErrInvalidMethod),
		errors.Is(err, service.ErrInvalidHours),
		errors.Is(err, service.ErrInvalidCutoff),
		errors.Is(err, service.ErrInvalidRule),
		errors.Is(err, service.ErrInvalidCourt):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, availability.ErrUnknownCourt):
		return http.StatusNotFound, "court not found"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrCutoffPassed),
		errors.Is(err, service.ErrCourtInactive):
		return http.StatusConflict, err.Error()
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "already exists"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
