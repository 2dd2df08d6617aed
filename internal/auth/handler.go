package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marginpilot/backend/internal/models"
	"github.com/marginpilot/backend/pkg/response"
	"github.com/marginpilot/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/register (owner signup).
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	CompanyName string `json:"company_name" binding:"required"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MeResponse is the payload for GET /auth/me and successful login/register.
type MeResponse struct {
	Profile    models.ProfilePublic `json:"profile"`
	OwnerEmail string               `json:"owner_email"`
	Role       models.Role          `json:"role"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo     *Repository
	sessions *Sessions
	resolver *Resolver
	limiter  *LoginLimiter
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, sessions *Sessions, resolver *Resolver, limiter *LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, sessions: sessions, resolver: resolver, limiter: limiter, logger: logger}
}

// NormalizeEmail trims and lowercases an email address. All profiles are
// stored with normalized emails so the exact-match lookup is safe.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register handles POST /auth/register. Creates an owner profile with a fresh
// company and issues a session.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	email := NormalizeEmail(req.Email)
	existing, err := h.repo.GetByEmail(c.Request.Context(), email)
	if err != nil {
		response.Internal(c, "failed to check account")
		return
	}
	if existing != nil {
		response.Conflict(c, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	profile := &models.Profile{
		Email:    email,
		Password: hash,
		Company: models.Company{
			Name:     strings.TrimSpace(req.CompanyName),
			Branches: []models.Branch{},
			Users:    []models.CompanyUser{},
		},
	}
	if err := h.repo.Create(c.Request.Context(), profile); err != nil {
		response.Internal(c, "failed to create account")
		return
	}

	if err := h.sessions.Issue(c, email); err != nil {
		h.logger.Error("issue session", zap.Error(err))
		response.Internal(c, "session could not be established")
		return
	}

	response.Created(c, MeResponse{
		Profile:    profile.ToPublic(),
		OwnerEmail: email,
		Role:       models.RoleAdmin,
	})
}

// Login handles POST /auth/login. The error message never distinguishes a
// missing account from a wrong password.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	email := NormalizeEmail(req.Email)
	if !h.limiter.Allow(c.Request.Context(), email, c.ClientIP()) {
		response.TooManyRequests(c, "too many login attempts, try again later")
		return
	}

	profile, err := h.repo.GetByEmail(c.Request.Context(), email)
	if err != nil {
		response.Internal(c, "failed to check account")
		return
	}
	if profile == nil || !utils.VerifyPassword(req.Password, profile.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	if err := h.sessions.Issue(c, email); err != nil {
		if errors.Is(err, ErrSecretNotConfigured) {
			h.logger.Error("issue session", zap.Error(err))
		}
		response.Internal(c, "session could not be established")
		return
	}
	h.limiter.Reset(c.Request.Context(), email, c.ClientIP())

	eff, err := h.resolver.Resolve(c.Request.Context(), email)
	if err != nil || eff == nil {
		// Session is established; fall back to self-ownership for the payload.
		eff = &models.EffectiveOwnerAndRole{OwnerEmail: email, Role: models.RoleAdmin}
	}
	response.OK(c, MeResponse{
		Profile:    profile.ToPublic(),
		OwnerEmail: eff.OwnerEmail,
		Role:       eff.Role,
	})
}

// Logout handles POST /auth/logout. Idempotent and always successful, even
// without a session.
func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Revoke(c)
	response.OK(c, gin.H{"logged_out": true})
}

// Me handles GET /auth/me (requires session middleware).
func (h *Handler) Me(c *gin.Context) {
	email := SessionEmail(c)
	profile, err := h.repo.GetByEmail(c.Request.Context(), email)
	if err != nil || profile == nil {
		response.Internal(c, "failed to load profile")
		return
	}
	ownerEmail := OwnerEmail(c)
	role := UserRole(c)
	response.OK(c, MeResponse{
		Profile:    profile.ToPublic(),
		OwnerEmail: ownerEmail,
		Role:       role,
	})
}
