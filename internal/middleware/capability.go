package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/models"
	"github.com/marginpilot/backend/pkg/response"
)

// Capability is a pure predicate over a role, e.g. models.Role.CanWriteWorkshop.
type Capability func(models.Role) bool

// Require returns a middleware that allows only callers whose effective role
// satisfies the capability. Must run after Session.
func Require(capability Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, ok := c.Get(auth.ContextRole)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		role, _ := roleVal.(models.Role)
		if !capability(role) {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
