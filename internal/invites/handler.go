package invites

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/models"
	"github.com/marginpilot/backend/pkg/queue"
	"github.com/marginpilot/backend/pkg/response"
	"github.com/marginpilot/backend/pkg/utils"
)

// Handler handles member invitation endpoints.
type Handler struct {
	profiles *auth.Repository
	sessions *auth.Sessions
	jobs     *queue.Queue
	logger   *zap.Logger
}

// NewHandler creates an invites handler. jobs may be nil (email delivery disabled).
func NewHandler(profiles *auth.Repository, sessions *auth.Sessions, jobs *queue.Queue, logger *zap.Logger) *Handler {
	return &Handler{profiles: profiles, sessions: sessions, jobs: jobs, logger: logger}
}

// InviteRequest is the body for POST /company/users/invite.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// Invite handles POST /company/users/invite. Creates a signed invite token
// for the recipient and enqueues the invite email.
func (h *Handler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		response.BadRequest(c, "invalid role")
		return
	}
	ownerEmail := auth.OwnerEmail(c)
	recipient := auth.NormalizeEmail(req.Email)

	existing, err := h.profiles.GetByEmail(c.Request.Context(), recipient)
	if err != nil {
		response.Internal(c, "failed to check account")
		return
	}
	if existing != nil {
		response.Conflict(c, "an account with this email already exists")
		return
	}

	token, err := NewToken(recipient, role, ownerEmail)
	if err != nil {
		h.logger.Error("create invite token", zap.Error(err))
		response.Internal(c, "failed to create invite")
		return
	}

	if h.jobs != nil {
		owner, err := h.profiles.GetByEmail(c.Request.Context(), ownerEmail)
		companyName := ""
		if err == nil && owner != nil {
			companyName = owner.Company.Name
		}
		if err := h.jobs.EnqueueInviteEmail(c.Request.Context(), queue.InviteEmailPayload{
			RecipientEmail: recipient,
			OwnerEmail:     ownerEmail,
			CompanyName:    companyName,
			Role:           string(role),
			Token:          token,
		}); err != nil {
			h.logger.Warn("enqueue invite email", zap.Error(err))
		}
	}

	response.Created(c, gin.H{
		"token":      token,
		"email":      recipient,
		"role":       role,
		"expires_at": time.Now().Add(InviteTTL),
	})
}

// Validate handles GET /invites/:token/validate (public). Lets the signup
// page show who is being invited before a password is chosen.
func (h *Handler) Validate(c *gin.Context) {
	claims, err := ParseToken(c.Param("token"))
	if err != nil {
		response.BadRequest(c, "invalid or expired invite")
		return
	}
	response.OK(c, gin.H{
		"email":       claims.Email,
		"role":        claims.Role,
		"owner_email": claims.OwnerEmail,
	})
}

// AcceptRequest is the body for POST /auth/accept-invite.
type AcceptRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// Accept handles POST /auth/accept-invite (public). Creates the member
// profile, records the membership on the owner's company, and issues a session.
func (h *Handler) Accept(c *gin.Context) {
	var req AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	claims, err := ParseToken(req.Token)
	if err != nil {
		response.BadRequest(c, "invalid or expired invite")
		return
	}

	email := auth.NormalizeEmail(claims.Email)
	existing, err := h.profiles.GetByEmail(c.Request.Context(), email)
	if err != nil {
		response.Internal(c, "failed to check account")
		return
	}
	if existing != nil {
		response.Conflict(c, "an account with this email already exists")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	ownerEmail := claims.OwnerEmail
	member := &models.Profile{
		Email:             email,
		Password:          hash,
		CompanyOwnerEmail: &ownerEmail,
	}
	if err := h.profiles.Create(c.Request.Context(), member); err != nil {
		response.Internal(c, "failed to create account")
		return
	}

	// Record the membership on the owner's company so role resolution finds it.
	owner, err := h.profiles.GetByEmail(c.Request.Context(), ownerEmail)
	if err == nil && owner != nil {
		found := false
		for i := range owner.Company.Users {
			if auth.NormalizeEmail(owner.Company.Users[i].Email) == email {
				owner.Company.Users[i].Role = claims.Role
				found = true
				break
			}
		}
		if !found {
			owner.Company.Users = append(owner.Company.Users, models.CompanyUser{Email: email, Role: claims.Role})
		}
		if err := h.profiles.UpdateCompany(c.Request.Context(), ownerEmail, owner.Company); err != nil {
			h.logger.Warn("record membership", zap.Error(err), zap.String("owner", ownerEmail))
		}
	}

	if err := h.sessions.Issue(c, email); err != nil {
		h.logger.Error("issue session", zap.Error(err))
		response.Internal(c, "account created but session could not be established")
		return
	}
	response.Created(c, auth.MeResponse{
		Profile:    member.ToPublic(),
		OwnerEmail: ownerEmail,
		Role:       claims.Role,
	})
}
