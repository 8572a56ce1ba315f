package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/service"
)

// MatchHandler serves booking submission and the match lifecycle.
type MatchHandler struct {
	booking *service.BookingService
	log     *zerolog.Logger
}

func NewMatchHandler(b *service.BookingService, log *zerolog.Logger) *MatchHandler {
	return &MatchHandler{booking: b, log: log}
}

type bookReq struct {
	VenueID       uint64   `json:"venue_id" validate:"required"`
	CourtID       uint64   `json:"court_id" validate:"required"`
	Date          string   `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlots     []string `json:"time_slots" validate:"required,min=1,dive,slot"`
	BookerName    string   `json:"booker_name"`
	BookerContact string   `json:"booker_contact" validate:"omitempty,phone10"`
	Price         *int64   `json:"price" validate:"omitempty,gte=0"`
}

type payReq struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash qr"`
}

// Book creates a pending match for a contiguous selection.
func (h *MatchHandler) Book(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req bookReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.booking.Book(ctx, a, service.BookRequest{
		VenueID:       req.VenueID,
		CourtID:       req.CourtID,
		Date:          req.Date,
		TimeSlots:     req.TimeSlots,
		BookerName:    req.BookerName,
		BookerContact: req.BookerContact,
		Price:         req.Price,
	})
	if err != nil {
		return fail(c, h.log, "match.book", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"match": m})
}

// Get returns one match.
func (h *MatchHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid match id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.booking.Get(ctx, id)
	if err != nil {
		return fail(c, h.log, "match.get", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"match": m})
}

// Mine lists the caller's hosted matches, newest first.
func (h *MatchHandler) Mine(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ms, err := h.booking.MyMatches(ctx, a)
	if err != nil {
		return fail(c, h.log, "match.mine", err)
	}
	if ms == nil {
		ms = []model.Match{}
	}
	return c.JSON(http.StatusOK, echo.Map{"matches": ms})
}

// Pay records payment of a pending match.
func (h *MatchHandler) Pay(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid match id")
	}
	var req payReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.booking.Pay(ctx, a, id, req.PaymentMethod)
	if err != nil {
		return fail(c, h.log, "match.pay", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"match": m})
}

// Cancel cancels a match and frees its slots.
func (h *MatchHandler) Cancel(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid match id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.booking.Cancel(ctx, a, id)
	if err != nil {
		return fail(c, h.log, "match.cancel", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"match": m})
}

// Join adds the caller to a match's players list.
func (h *MatchHandler) Join(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid match id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.booking.Join(ctx, a, id)
	if err != nil {
		return fail(c, h.log, "match.join", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"match": m})
}
