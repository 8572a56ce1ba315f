package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/repository"
	"github.com/maidaan/maidaan/internal/service"
)

// VenueHandler serves venue reads, edits and provisioning.
type VenueHandler struct {
	venues *service.VenueService
	log    *zerolog.Logger
}

func NewVenueHandler(v *service.VenueService, log *zerolog.Logger) *VenueHandler {
	return &VenueHandler{venues: v, log: log}
}

type operatingHoursReq struct {
	OpeningTime *string `json:"opening_time" validate:"omitempty,hhmm"`
	ClosingTime *string `json:"closing_time" validate:"omitempty,hhmm"`
}

type updateVenueReq struct {
	Name                    *string            `json:"name" validate:"omitempty,min=1"`
	Description             *string            `json:"description"`
	Location                *string            `json:"location" validate:"omitempty,min=1"`
	Contact                 *string            `json:"contact" validate:"omitempty,phone10"`
	OperatingHours          *operatingHoursReq `json:"operating_hours"`
	CancellationCutoffHours *int               `json:"cancellation_cutoff_hours" validate:"omitempty,gte=0,lte=168"`
	Amenities               *[]string          `json:"amenities"`
}

type createVenueReq struct {
	AdminID uint64 `json:"adminId" validate:"required"`
}

type pricingRuleReq struct {
	TimePeriod   string `json:"time_period" validate:"required,oneof=morning afternoon evening"`
	DayType      string `json:"day_type" validate:"required,oneof=weekday weekend"`
	PricePerHour int64  `json:"price_per_hour" validate:"gte=0"`
}

type pricingReq struct {
	Rules []pricingRuleReq `json:"rules" validate:"required,min=1,max=6,dive"`
}

type addCourtReq struct {
	SportType string `json:"sport_type" validate:"required"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
}

// Get returns one venue by venueId or adminId, or every venue when neither
// is given.  A missing venue answers {"venue": null}.
func (h *VenueHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		v   *model.Venue
		err error
	)
	switch {
	case c.QueryParam("venueId") != "":
		id, ok := parseID(c.QueryParam("venueId"))
		if !ok {
			return badRequest(c, "invalid venueId")
		}
		v, err = h.venues.Get(ctx, id)
	case c.QueryParam("adminId") != "":
		id, ok := parseID(c.QueryParam("adminId"))
		if !ok {
			return badRequest(c, "invalid adminId")
		}
		v, err = h.venues.ForAdmin(ctx, id)
	default:
		all, err := h.venues.List(ctx)
		if err != nil {
			return fail(c, h.log, "venue.list", err)
		}
		if all == nil {
			all = []*model.Venue{}
		}
		return c.JSON(http.StatusOK, echo.Map{"venues": all})
	}
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusOK, echo.Map{"venue": nil})
	}
	if err != nil {
		return fail(c, h.log, "venue.get", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"venue": v})
}

// Update edits the caller's venue.
func (h *VenueHandler) Update(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.QueryParam("venueId"))
	if !ok {
		return badRequest(c, "venueId is required")
	}
	var req updateVenueReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	patch := repository.VenuePatch{
		Name:                    req.Name,
		Description:             req.Description,
		Location:                req.Location,
		Contact:                 req.Contact,
		CancellationCutoffHours: req.CancellationCutoffHours,
		Amenities:               req.Amenities,
	}
	if req.OperatingHours != nil {
		patch.OpeningTime = req.OperatingHours.OpeningTime
		patch.ClosingTime = req.OperatingHours.ClosingTime
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	v, err := h.venues.Update(ctx, a, id, patch)
	if err != nil {
		return fail(c, h.log, "venue.update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"venue": v})
}

// Create provisions the default venue, courts and pricing for an admin.
func (h *VenueHandler) Create(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req createVenueReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	v, err := h.venues.Provision(ctx, a, req.AdminID)
	if errors.Is(err, repository.ErrConflict) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "admin already owns a venue"})
	}
	if err != nil {
		return fail(c, h.log, "venue.create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"venue": v})
}

// SetPricing upserts pricing rules of the caller's venue.
func (h *VenueHandler) SetPricing(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.QueryParam("venueId"))
	if !ok {
		return badRequest(c, "venueId is required")
	}
	var req pricingReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	rules := make([]model.PricingRule, 0, len(req.Rules))
	for _, r := range req.Rules {
		rules = append(rules, model.PricingRule{
			VenueID:      id,
			TimePeriod:   model.TimePeriod(r.TimePeriod),
			DayType:      model.DayType(r.DayType),
			PricePerHour: r.PricePerHour,
		})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	v, err := h.venues.SetPricing(ctx, a, id, rules)
	if err != nil {
		return fail(c, h.log, "venue.pricing", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"venue": v})
}

// AddCourt adds a court to the caller's venue.
func (h *VenueHandler) AddCourt(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.QueryParam("venueId"))
	if !ok {
		return badRequest(c, "venueId is required")
	}
	var req addCourtReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	court, err := h.venues.AddCourt(ctx, a, id, req.SportType, req.Name, req.Icon)
	if err != nil {
		return fail(c, h.log, "venue.add_court", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"court": court})
}
