package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/maidaan/maidaan/internal/availability"
	"github.com/maidaan/maidaan/internal/service"
	"github.com/maidaan/maidaan/internal/timeslot"
)

// SlotHandler serves the slot board of a court and the contiguous
// selection flow.
type SlotHandler struct {
	booking *service.BookingService
	log     *zerolog.Logger
	now     func() time.Time
}

func NewSlotHandler(b *service.BookingService, log *zerolog.Logger) *SlotHandler {
	return &SlotHandler{booking: b, log: log, now: time.Now}
}

type selectionReq struct {
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	Selected []string `json:"selected" validate:"dive,slot"`
	Toggle   string   `json:"toggle" validate:"required,slot"`
}

type selectionResp struct {
	Selected []string `json:"selected"`
	Range    string   `json:"range"`
	Price    int64    `json:"price"`
}

// board loads the board addressed by the :id and :court_id params.  An
// empty date means today in the venue timezone.
func (h *SlotHandler) board(c echo.Context, venueID uint64, date string) (*availability.Board, error) {
	courtID, ok := parseID(c.Param("court_id"))
	if !ok {
		return nil, availability.ErrUnknownCourt
	}
	if strings.TrimSpace(date) == "" {
		date = timeslot.DateKey(h.now().In(h.booking.Location()))
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	return h.booking.Board(ctx, optionalActor(c), venueID, courtID, date)
}

// Slots returns the per-slot state of a court for ?date=YYYY-MM-DD.
func (h *SlotHandler) Slots(c echo.Context) error {
	venueID, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid venue id")
	}
	b, err := h.board(c, venueID, c.QueryParam("date"))
	if err != nil {
		return fail(c, h.log, "slots.board", err)
	}
	return c.JSON(http.StatusOK, b.View())
}

// Select toggles one slot in or out of a selection.  A toggle that would
// leave a gap is answered 422 with the previous selection untouched.
func (h *SlotHandler) Select(c echo.Context) error {
	venueID, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid venue id")
	}
	var req selectionReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	b, err := h.board(c, venueID, req.Date)
	if err != nil {
		return fail(c, h.log, "slots.select", err)
	}
	if !timeslot.OnGrid(req.Selected, b.AllTimeSlots()) {
		return fail(c, h.log, "slots.select", timeslot.ErrInvalidSlot)
	}
	prev := timeslot.SortByGrid(req.Selected, b.AllTimeSlots())
	if !timeslot.IsContiguous(prev, b.AllTimeSlots()) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": MsgNotContiguous, "selected": prev})
	}
	next, err := b.Toggle(prev, req.Toggle)
	if errors.Is(err, timeslot.ErrNotContiguous) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": MsgNotContiguous, "selected": prev})
	}
	if err != nil {
		return fail(c, h.log, "slots.select", err)
	}
	return c.JSON(http.StatusOK, selectionResp{
		Selected: next,
		Range:    timeslot.FormatTimeRange(next),
		Price:    b.Quote(next),
	})
}
