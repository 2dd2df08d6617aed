package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie is the name of the session cookie.
	SessionCookie = "mp_session"
	// SessionMaxAge is the cookie lifetime in seconds (30 days).
	SessionMaxAge = 30 * 24 * 60 * 60
)

// Sessions stores and retrieves the session token via an HTTP cookie.
type Sessions struct {
	secure bool
}

// NewSessions creates the cookie session adapter. secure controls the Secure
// cookie attribute and should be true in production-like environments.
func NewSessions(secure bool) *Sessions {
	return &Sessions{secure: secure}
}

// Issue signs email and sets it as the session cookie on the response.
// Fails only when the signing secret is not configured.
func (s *Sessions) Issue(c *gin.Context, email string) error {
	token, err := SignIdentity(email)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, SessionMaxAge, "/", "", s.secure, true)
	return nil
}

// Read returns the authenticated identity from the request's session cookie.
// Fail-closed: a missing cookie, invalid token, or missing secret all report
// ok=false ("unauthenticated"), never an error.
func (s *Sessions) Read(c *gin.Context) (email string, ok bool) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		return "", false
	}
	return VerifyToken(token)
}

// Revoke overwrites the session cookie so the client discards it.
// Revocation cannot fail; logout is idempotent.
func (s *Sessions) Revoke(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", s.secure, true)
}
