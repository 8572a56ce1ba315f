package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/repository"
	"github.com/maidaan/maidaan/internal/utils"
)

// ProfileStore is the profile persistence used by the auth and profile
// handlers.
type ProfileStore interface {
	Create(ctx context.Context, p *model.Profile) error
	GetByID(ctx context.Context, id uint64) (*model.Profile, error)
	GetByContact(ctx context.Context, phone string) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	Update(ctx context.Context, id uint64, patch repository.ProfilePatch) (*model.Profile, error)
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, profileID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForProfile(ctx context.Context, profileID uint64) error
}

// AuthConfig carries the token settings.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	cfg      AuthConfig
	profiles ProfileStore
	tokens   TokenStore
	log      *zerolog.Logger
}

func NewAuthHandler(cfg AuthConfig, p ProfileStore, t TokenStore, log *zerolog.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, profiles: p, tokens: t, log: log}
}

type registerReq struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	Name          string `json:"name" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required,phone10"`
	ProfileType   string `json:"profile_type" validate:"required,oneof=admin player"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Portal   string `json:"portal" validate:"required,oneof=admin player"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	Profile *model.Profile `json:"profile"`
	Access  tokenPart      `json:"access"`
	Refresh tokenPart      `json:"refresh"`
}

// issue creates an access and refresh token pair for p.
func (h *AuthHandler) issue(ctx context.Context, p *model.Profile) (authResp, error) {
	access, err := utils.NewAccessToken(h.cfg.JWTSecret, p.ID, p.ProfileType, h.cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, fmt.Errorf("issue access: %w", err)
	}
	refresh, err := utils.NewRefreshToken(h.cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, fmt.Errorf("issue refresh: %w", err)
	}
	if err := h.tokens.StoreRefresh(ctx, p.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, fmt.Errorf("store refresh: %w", err)
	}
	return authResp{
		Profile: p,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	}, nil
}

// Register creates a profile and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	hash, err := utils.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		return fail(c, h.log, "auth.register", err)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	p := &model.Profile{
		ContactNumber: req.ContactNumber,
		ProfileType:   req.ProfileType,
		Name:          strings.TrimSpace(req.Name),
		Email:         &email,
		PasswordHash:  hash,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.profiles.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email or contact number already registered"})
		}
		return fail(c, h.log, "auth.register", err)
	}
	resp, err := h.issue(ctx, p)
	if err != nil {
		return fail(c, h.log, "auth.register", err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials.  The portal must match the profile type.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if msg, ok := bindValid(c, &req); !ok {
		return badRequest(c, msg)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.profiles.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return fail(c, h.log, "auth.login", err)
	}
	if !utils.VerifyPassword(p.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if p.ProfileType != req.Portal {
		return c.JSON(http.StatusForbidden, echo.Map{"error": fmt.Sprintf(
			"This account is registered as a %s, not a %s. Please use the correct login portal.", p.ProfileType, req.Portal)})
	}
	resp, err := h.issue(ctx, p)
	if err != nil {
		return fail(c, h.log, "auth.login", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	// The revoke is the claim on the token: a concurrent refresh that lost
	// the race finds no live row.
	if err := h.tokens.RevokeByHash(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return fail(c, h.log, "auth.refresh", err)
	}
	p, err := h.profiles.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err != nil {
		return fail(c, h.log, "auth.refresh", err)
	}
	resp, err := h.issue(ctx, p)
	if err != nil {
		return fail(c, h.log, "auth.refresh", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the given refresh token, or every refresh token of the
// caller when none is sent.  Runs behind JWTAuth.
func (h *AuthHandler) Logout(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	var req refreshReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if raw == "" {
		if err := h.tokens.RevokeAllForProfile(ctx, a.ID); err != nil {
			return fail(c, h.log, "auth.logout", err)
		}
		return c.NoContent(http.StatusNoContent)
	}
	hash := utils.HashRefreshRaw(raw)
	owner, err := h.tokens.ValidateRefresh(ctx, hash)
	if err != nil || owner != a.ID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.tokens.RevokeByHash(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return fail(c, h.log, "auth.logout", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p, err := h.profiles.GetByID(ctx, a.ID)
	if err != nil {
		return fail(c, h.log, "auth.me", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": p})
}
