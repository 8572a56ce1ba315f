package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const sessionKey = "maidaan.session"

// Session is the authenticated caller of a request.  It is built by JWTAuth
// from the access token and read by handlers through SessionFrom.
type Session struct {
	ProfileID uint64
	Role      string // admin or player
}

// IsAdmin reports whether the caller logged in through the admin portal.
func (s Session) IsAdmin() bool { return s.Role == "admin" }

// SessionFrom returns the session of the request, if any.
func SessionFrom(c echo.Context) (Session, bool) {
	s, ok := c.Get(sessionKey).(Session)
	return s, ok && s.ProfileID != 0
}

// SetSession stores s on the context.
func SetSession(c echo.Context, s Session) {
	c.Set(sessionKey, s)
}

// sessionID is the caller identity used in rate limit keys.  Unauthenticated
// requests share "anon".
func sessionID(c echo.Context) string {
	if s, ok := SessionFrom(c); ok {
		return strconv.FormatUint(s.ProfileID, 10)
	}
	return "anon"
}
