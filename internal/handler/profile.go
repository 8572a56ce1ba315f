package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/repository"
)

// ProfileHandler serves profile lookup, creation and update.
type ProfileHandler struct {
	profiles ProfileStore
	log      *zerolog.Logger
}

func NewProfileHandler(p ProfileStore, log *zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: p, log: log}
}

type createProfileReq struct {
	ContactNumber string  `json:"contact_number" validate:"required,phone10"`
	ProfileType   string  `json:"profile_type" validate:"required,oneof=admin player"`
	Name          string  `json:"name" validate:"required"`
	Email         *string `json:"email" validate:"omitempty,email"`
}

type updateProfileReq struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Bio          *string `json:"bio"`
	JerseyName   *string `json:"jersey_name"`
	JerseyNumber *int    `json:"jersey_number" validate:"omitempty,gte=0,lte=999"`
	SkillLevel   *string `json:"skill_level"`
	Position     *string `json:"position"`
	AvatarURL    *string `json:"avatar_url" validate:"omitempty,url"`
}

// Lookup finds a profile by phone.  An unknown phone answers
// {"profile": null}.
func (h *ProfileHandler) Lookup(c echo.Context) error {
	phone := strings.TrimSpace(c.QueryParam("phone"))
	if phone == "" {
		return badRequest(c, "phone is required")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.profiles.GetByContact(ctx, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusOK, echo.Map{"profile": nil})
	}
	if err != nil {
		return fail(c, h.log, "profile.lookup", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": p})
}

// Create stores a walk-in profile without credentials.  Points and streak
// start at zero.
func (h *ProfileHandler) Create(c echo.Context) error {
	var req createProfileReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	p := &model.Profile{
		ContactNumber: req.ContactNumber,
		ProfileType:   req.ProfileType,
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "contact number already registered"})
		}
		return fail(c, h.log, "profile.create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"profile": p})
}

// Update edits the caller's own profile.
func (h *ProfileHandler) Update(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid profile id")
	}
	if id != a.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req updateProfileReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.profiles.Update(ctx, id, repository.ProfilePatch{
		Name:         req.Name,
		Email:        req.Email,
		JerseyName:   req.JerseyName,
		JerseyNumber: req.JerseyNumber,
		SkillLevel:   req.SkillLevel,
		Position:     req.Position,
		Bio:          req.Bio,
		AvatarURL:    req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return fail(c, h.log, "profile.update", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": p})
}
