package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/pkg/response"
)

// Session returns a middleware that authenticates the request from the
// session cookie and resolves the caller's effective owner and role into the
// gin context (auth.ContextEmail, auth.ContextOwnerEmail, auth.ContextRole).
// Any cookie or token failure yields 401, never a 500: an unverifiable
// session is simply not a session.
func Session(sessions *auth.Sessions, resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := sessions.Read(c)
		if !ok {
			response.Unauthorized(c, "not authenticated")
			c.Abort()
			return
		}
		eff, err := resolver.Resolve(c.Request.Context(), email)
		if err != nil {
			response.Internal(c, "failed to resolve account")
			c.Abort()
			return
		}
		if eff == nil {
			// Valid token for an account that no longer exists.
			sessions.Revoke(c)
			response.Unauthorized(c, "unknown account")
			c.Abort()
			return
		}
		c.Set(auth.ContextEmail, email)
		c.Set(auth.ContextOwnerEmail, eff.OwnerEmail)
		c.Set(auth.ContextRole, eff.Role)
		c.Next()
	}
}
