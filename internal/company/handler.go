package company

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/models"
	"github.com/marginpilot/backend/internal/realtime"
	"github.com/marginpilot/backend/pkg/response"
	"github.com/marginpilot/backend/pkg/storage"
)

// Handler handles company, branch and member management endpoints.
// All operations act on the effective tenant owner's profile document.
type Handler struct {
	profiles *auth.Repository
	s3       *storage.S3
	events   *realtime.Hub
	logger   *zap.Logger
}

// NewHandler creates a company handler. s3 may be nil (logo upload disabled).
func NewHandler(profiles *auth.Repository, s3 *storage.S3, events *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{profiles: profiles, s3: s3, events: events, logger: logger}
}

func (h *Handler) ownerProfile(c *gin.Context) (*models.Profile, bool) {
	owner := auth.OwnerEmail(c)
	profile, err := h.profiles.GetByEmail(c.Request.Context(), owner)
	if err != nil {
		response.Internal(c, "failed to load company")
		return nil, false
	}
	if profile == nil {
		response.NotFound(c, "company not found")
		return nil, false
	}
	return profile, true
}

// GetCompany handles GET /company.
func (h *Handler) GetCompany(c *gin.Context) {
	profile, ok := h.ownerProfile(c)
	if !ok {
		return
	}
	response.OK(c, profile.Company)
}

// UpdateCompanyRequest is the body for PUT /company.
type UpdateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCompany handles PUT /company.
func (h *Handler) UpdateCompany(c *gin.Context) {
	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name required")
		return
	}
	profile, ok := h.ownerProfile(c)
	if !ok {
		return
	}
	profile.Company.Name = strings.TrimSpace(req.Name)
	if err := h.profiles.UpdateCompany(c.Request.Context(), profile.Email, profile.Company); err != nil {
		response.Internal(c, "failed to update company")
		return
	}
	h.events.Notify(profile.Email, realtime.EventCompanyUpdated, profile.Company)
	response.OK(c, profile.Company)
}

// UploadLogo handles POST /company/logo (multipart field "logo").
func (h *Handler) UploadLogo(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "logo storage not configured")
		return
	}
	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		response.BadRequest(c, "logo file required")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxLogoFileSize {
		response.BadRequest(c, "logo exceeds 5MB limit")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateLogoFileType(contentType, header.Filename) {
		response.BadRequest(c, "unsupported logo file type")
		return
	}

	profile, ok := h.ownerProfile(c)
	if !ok {
		return
	}
	url, err := h.s3.UploadLogo(c.Request.Context(), profile.Email, header.Filename, contentType, file)
	if err != nil {
		h.logger.Error("logo upload", zap.Error(err))
		response.Internal(c, "failed to upload logo")
		return
	}
	profile.Company.LogoURL = url
	if err := h.profiles.UpdateCompany(c.Request.Context(), profile.Email, profile.Company); err != nil {
		response.Internal(c, "failed to save logo")
		return
	}
	h.events.Notify(profile.Email, realtime.EventCompanyUpdated, profile.Company)
	response.OK(c, gin.H{"logo_url": url})
}

// ListBranches handles GET /company/branches.
func (h *Handler) ListBranches(c *gin.Context) {
	profile, ok := h.ownerProfile(c)
	if !ok {
		return
	}
	response.OK(c, profile.Company.Branches)
}

// BranchRequest is the body for branch create/update.
type BranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// CreateBranch handles POST /company/branches.
func (h *Handler) CreateBranch(c *gin.Context) {
	var req BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name required")
		return
	}
	profile, ok := h.ownerProfile(c)
	if !ok {
		return
	}
	branch := models.Branch{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		Address: strings.TrimSpace(req.Address),
	}
	profile.Company.Branches = append(profile.Company.Branches, branch)
	if err := h.profiles.UpdateCompany(c.Request.Context(), profile.Email, profile.Company); err != nil {
		response.Internal(c, "failed to create branch")
		return
	}
	h.events.Notify(profile.Email, realtime.EventCompanyUpdated, profile.Company)
	response.Created(c, branch)
}

// UpdateBranch handles PUT /company/branches/:id.
func (h *Handler) UpdateBranch(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid branch id")
		return
	}
	var req BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name required")
		return
	}
	profile, ok := h.ownerProfile(c)
	if !ok {
		return
	}
	for i := range profile.Company.Branches {
		if profile.Company.Branches[i].ID == branchID {
			profile.Company.Branches[i].Name = strings.TrimSpace(req.Name)
			profile.Company.Branches[i].Address = strings.TrimSpace(req.Address)
			if err := h.profiles.UpdateCompany(c.Request.Context(), profile.Email, profile.Company); err != nil {
				response.Internal(c, "failed to update branch")
				return
			}
			h.events.Notify(profile.Email, realtime.EventCompanyUpdated, profile.Company)
			response.OK(c, profile.Company.Branches[i])
			return
		}
	}
	response.NotFound(c, "branch not found")
}

// DeleteBranch handles DELETE /company/branches/:id.
func (h *Handler) DeleteBranch(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid branch id")
		return
	}
	profile, ok := h.ownerProfile(c)
	if !ok {
		return
	}
	branches := profile.Company.Branches
	for i := range branches {
		if branches[i].ID == branchID {
			profile.Company.Branches = append(branches[:i], branches[i+1:]...)
			if err := h.profiles.UpdateCompany(c.Request.Context(), profile.Email, profile.Company); err != nil {
				response.Internal(c, "failed to delete branch")
				return
			}
			h.events.Notify(profile.Email, realtime.EventCompanyUpdated, profile.Company)
			response.NoContent(c)
			return
		}
	}
	response.NotFound(c, "branch not found")
}

// ListUsers handles GET /company/users.
func (h *Handler) ListUsers(c *gin.Context) {
	profile, ok := h.ownerProfile(c)
	if !ok {
		return
	}
	response.OK(c, profile.Company.Users)
}

// UpdateUserRoleRequest is the body for PUT /company/users/:email.
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole handles PUT /company/users/:email.
func (h *Handler) UpdateUserRole(c *gin.Context) {
	memberEmail := auth.NormalizeEmail(c.Param("email"))
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "role required")
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		response.BadRequest(c, "invalid role")
		return
	}
	profile, okP := h.ownerProfile(c)
	if !okP {
		return
	}
	for i := range profile.Company.Users {
		if auth.NormalizeEmail(profile.Company.Users[i].Email) == memberEmail {
			profile.Company.Users[i].Role = role
			if err := h.profiles.UpdateCompany(c.Request.Context(), profile.Email, profile.Company); err != nil {
				response.Internal(c, "failed to update member")
				return
			}
			response.OK(c, profile.Company.Users[i])
			return
		}
	}
	response.NotFound(c, "member not found")
}

// RemoveUser handles DELETE /company/users/:email. Also clears the member
// profile's owner back-reference so they fall back to self-ownership.
func (h *Handler) RemoveUser(c *gin.Context) {
	memberEmail := auth.NormalizeEmail(c.Param("email"))
	profile, ok := h.ownerProfile(c)
	if !ok {
		return
	}
	users := profile.Company.Users
	for i := range users {
		if auth.NormalizeEmail(users[i].Email) == memberEmail {
			profile.Company.Users = append(users[:i], users[i+1:]...)
			if err := h.profiles.UpdateCompany(c.Request.Context(), profile.Email, profile.Company); err != nil {
				response.Internal(c, "failed to remove member")
				return
			}
			if err := h.profiles.ClearOwnerRef(c.Request.Context(), memberEmail, profile.Email); err != nil {
				h.logger.Warn("clear owner ref", zap.Error(err), zap.String("member", memberEmail))
			}
			response.NoContent(c)
			return
		}
	}
	response.NotFound(c, "member not found")
}
