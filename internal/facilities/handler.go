package facilities

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/models"
	"github.com/marginpilot/backend/internal/realtime"
	"github.com/marginpilot/backend/pkg/response"
)

// Handler handles facility HTTP endpoints.
type Handler struct {
	repo   *Repository
	events *realtime.Hub
}

// NewHandler creates a facilities handler.
func NewHandler(repo *Repository, events *realtime.Hub) *Handler {
	return &Handler{repo: repo, events: events}
}

// ListByBranch handles GET /branches/:id/facilities.
func (h *Handler) ListByBranch(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid branch id")
		return
	}
	list, err := h.repo.ListByBranch(c.Request.Context(), auth.OwnerEmail(c), branchID)
	if err != nil {
		response.Internal(c, "failed to list facilities")
		return
	}
	response.OK(c, list)
}

// FacilityRequest is the body for facility create/update.
type FacilityRequest struct {
	Name   string `json:"name" binding:"required"`
	Kind   string `json:"kind" binding:"required"`
	Bays   int    `json:"bays"`
	Active *bool  `json:"active"`
}

// Create handles POST /branches/:id/facilities.
func (h *Handler) Create(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid branch id")
		return
	}
	var req FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	kind, ok := models.ParseFacilityKind(req.Kind)
	if !ok {
		response.BadRequest(c, "invalid facility kind")
		return
	}
	if req.Bays < 0 {
		response.BadRequest(c, "bays must not be negative")
		return
	}
	if req.Bays == 0 {
		req.Bays = 1
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	owner := auth.OwnerEmail(c)
	facility := &models.Facility{
		OwnerEmail: owner,
		BranchID:   branchID,
		Name:       strings.TrimSpace(req.Name),
		Kind:       kind,
		Bays:       req.Bays,
		Active:     active,
	}
	if err := h.repo.Create(c.Request.Context(), facility); err != nil {
		response.Internal(c, "failed to create facility")
		return
	}
	h.events.Notify(owner, realtime.EventFacilitiesUpdated, facility)
	response.Created(c, facility)
}

// Update handles PUT /facilities/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid facility id")
		return
	}
	var req FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	kind, ok := models.ParseFacilityKind(req.Kind)
	if !ok {
		response.BadRequest(c, "invalid facility kind")
		return
	}
	owner := auth.OwnerEmail(c)
	facility, err := h.repo.GetByID(c.Request.Context(), owner, id)
	if err != nil {
		response.Internal(c, "failed to load facility")
		return
	}
	if facility == nil {
		response.NotFound(c, "facility not found")
		return
	}
	facility.Name = strings.TrimSpace(req.Name)
	facility.Kind = kind
	if req.Bays > 0 {
		facility.Bays = req.Bays
	}
	if req.Active != nil {
		facility.Active = *req.Active
	}
	if err := h.repo.Update(c.Request.Context(), facility); err != nil {
		response.Internal(c, "failed to update facility")
		return
	}
	h.events.Notify(owner, realtime.EventFacilitiesUpdated, facility)
	response.OK(c, facility)
}

// Delete handles DELETE /facilities/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid facility id")
		return
	}
	owner := auth.OwnerEmail(c)
	deleted, err := h.repo.Delete(c.Request.Context(), owner, id)
	if err != nil {
		response.Internal(c, "failed to delete facility")
		return
	}
	if !deleted {
		response.NotFound(c, "facility not found")
		return
	}
	h.events.Notify(owner, realtime.EventFacilitiesUpdated, gin.H{"deleted": id})
	response.NoContent(c)
}
