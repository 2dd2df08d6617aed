package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/marginpilot/backend/internal/models"
)

const (
	// ContextEmail is the gin context key for the authenticated identity.
	ContextEmail = "session_email"
	// ContextOwnerEmail is the gin context key for the effective tenant owner.
	ContextOwnerEmail = "owner_email"
	// ContextRole is the gin context key for the caller's effective role.
	ContextRole = "user_role"
)

// SessionEmail returns the authenticated identity set by the session middleware.
func SessionEmail(c *gin.Context) string {
	return c.MustGet(ContextEmail).(string)
}

// OwnerEmail returns the effective tenant owner set by the session middleware.
func OwnerEmail(c *gin.Context) string {
	return c.MustGet(ContextOwnerEmail).(string)
}

// UserRole returns the caller's effective role set by the session middleware.
func UserRole(c *gin.Context) models.Role {
	return c.MustGet(ContextRole).(models.Role)
}
