package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/maidaan/maidaan/internal/config"
	"github.com/maidaan/maidaan/internal/utils"
)

const secret = "test-secret"

func newEcho() *echo.Echo {
	e := echo.New()
	whoami := func(c echo.Context) error {
		s, ok := SessionFrom(c)
		if !ok {
			return c.String(http.StatusOK, "anon")
		}
		return c.String(http.StatusOK, s.Role)
	}
	e.GET("/private", whoami, JWTAuth(secret))
	e.GET("/admin", whoami, JWTAuth(secret), RequireRole("admin"))
	e.GET("/public", whoami, OptionalJWTAuth(secret))
	return e
}

func token(t *testing.T, id uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, id, role, 5)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + tok.Token
}

func do(e *echo.Echo, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := newEcho()
	if rec := do(e, "/private", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(e, "/private", "Bearer garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rec.Code)
	}
	rec := do(e, "/private", token(t, 3, "player"))
	if rec.Code != http.StatusOK || rec.Body.String() != "player" {
		t.Fatalf("unexpected %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	e := newEcho()
	if rec := do(e, "/admin", token(t, 3, "player")); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for player, got %d", rec.Code)
	}
	if rec := do(e, "/admin", token(t, 1, "admin")); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	e := newEcho()
	if rec := do(e, "/public", ""); rec.Body.String() != "anon" {
		t.Fatalf("expected anon, got %q", rec.Body.String())
	}
	if rec := do(e, "/public", token(t, 1, "admin")); rec.Body.String() != "admin" {
		t.Fatalf("expected admin, got %q", rec.Body.String())
	}
	if rec := do(e, "/public", "Bearer nope"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rec.Code)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, got, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || got.Get("Content-Type") != "application/json" || string(body) != `{"ok":true}` {
		t.Fatalf("decode mismatch: %d %v %q %v", status, got, body, ok)
	}
	if _, _, _, ok := decodePayload([]byte{0, 0}); ok {
		t.Fatal("short payload must not decode")
	}
}

func TestKeys(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/matches?x=1", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/matches")
	SetSession(c, Session{ProfileID: 9, Role: "player"})

	rl := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}, c)
	if rl != "rl:ip:10.0.0.1:user:9:route:POST /v1/matches" {
		t.Fatalf("unexpected rate key %q", rl)
	}
	ck := cacheKeyFrom(config.CacheConfig{Prefix: "maidaan:cache"}, c)
	if !strings.HasPrefix(ck, "maidaan:cache:") {
		t.Fatalf("cache key must carry prefix, got %q", ck)
	}
}
