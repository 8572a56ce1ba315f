package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 42, "admin", 5)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := ParseAccessToken("s3cret", tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := claims.ProfileID()
	if err != nil || id != 42 || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v id=%d err=%v", claims, id, err)
	}
}

func TestParseAccessToken_Rejects(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 42, "player", 5)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken("other", tok.Token); err == nil {
		t.Fatal("expected wrong secret to fail")
	}
	expired, err := NewAccessToken("s3cret", 42, "player", -1)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseAccessToken("s3cret", expired.Token); err == nil {
		t.Fatal("expected expired token to fail")
	}
	if _, err := ParseAccessToken("s3cret", "not-a-jwt"); err == nil {
		t.Fatal("expected garbage to fail")
	}
}

func TestRefreshTokenHash(t *testing.T) {
	a, err := NewRefreshToken(1)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(a.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(a.Raw))
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) || HashRefreshRaw(a.Raw) == a.Raw {
		t.Fatal("hash must be deterministic and differ from raw")
	}
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter22", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(h, "hunter22") || VerifyPassword(h, "hunter23") {
		t.Fatal("password verification mismatch")
	}
	if VerifyPassword("", "") {
		t.Fatal("empty hash must not verify")
	}
}
