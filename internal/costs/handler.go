package costs

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/models"
	"github.com/marginpilot/backend/internal/realtime"
	"github.com/marginpilot/backend/internal/targets"
	"github.com/marginpilot/backend/pkg/response"
)

// Handler handles cost item HTTP endpoints and the breakdown report.
type Handler struct {
	repo       *Repository
	targetRepo *targets.Repository
	events     *realtime.Hub
}

// NewHandler creates a costs handler. The targets repository supplies the GP%
// used for the break-even figure in the breakdown.
func NewHandler(repo *Repository, targetRepo *targets.Repository, events *realtime.Hub) *Handler {
	return &Handler{repo: repo, targetRepo: targetRepo, events: events}
}

// ListByBranch handles GET /branches/:id/costs.
func (h *Handler) ListByBranch(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid branch id")
		return
	}
	list, err := h.repo.ListByBranch(c.Request.Context(), auth.OwnerEmail(c), branchID)
	if err != nil {
		response.Internal(c, "failed to list costs")
		return
	}
	response.OK(c, list)
}

// CostItemRequest is the body for cost item create/update.
type CostItemRequest struct {
	Category string  `json:"category" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Amount   float64 `json:"amount"`
}

// Create handles POST /branches/:id/costs.
func (h *Handler) Create(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid branch id")
		return
	}
	var req CostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	category, ok := models.ParseCostCategory(req.Category)
	if !ok {
		response.BadRequest(c, "category must be fixed or variable")
		return
	}
	if req.Amount < 0 {
		response.BadRequest(c, "amount must not be negative")
		return
	}
	owner := auth.OwnerEmail(c)
	item := &models.CostItem{
		OwnerEmail: owner,
		BranchID:   branchID,
		Category:   category,
		Name:       strings.TrimSpace(req.Name),
		Amount:     req.Amount,
	}
	if err := h.repo.Create(c.Request.Context(), item); err != nil {
		response.Internal(c, "failed to create cost item")
		return
	}
	h.events.Notify(owner, realtime.EventCostsUpdated, item)
	response.Created(c, item)
}

// Update handles PUT /costs/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cost item id")
		return
	}
	var req CostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	category, ok := models.ParseCostCategory(req.Category)
	if !ok {
		response.BadRequest(c, "category must be fixed or variable")
		return
	}
	if req.Amount < 0 {
		response.BadRequest(c, "amount must not be negative")
		return
	}
	owner := auth.OwnerEmail(c)
	item, err := h.repo.GetByID(c.Request.Context(), owner, id)
	if err != nil {
		response.Internal(c, "failed to load cost item")
		return
	}
	if item == nil {
		response.NotFound(c, "cost item not found")
		return
	}
	item.Category = category
	item.Name = strings.TrimSpace(req.Name)
	item.Amount = req.Amount
	if err := h.repo.Update(c.Request.Context(), item); err != nil {
		response.Internal(c, "failed to update cost item")
		return
	}
	h.events.Notify(owner, realtime.EventCostsUpdated, item)
	response.OK(c, item)
}

// Delete handles DELETE /costs/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cost item id")
		return
	}
	owner := auth.OwnerEmail(c)
	deleted, err := h.repo.Delete(c.Request.Context(), owner, id)
	if err != nil {
		response.Internal(c, "failed to delete cost item")
		return
	}
	if !deleted {
		response.NotFound(c, "cost item not found")
		return
	}
	h.events.Notify(owner, realtime.EventCostsUpdated, gin.H{"deleted": id})
	response.NoContent(c)
}

// Breakdown is the payload for GET /branches/:id/costs/breakdown.
type Breakdown struct {
	Totals           Totals  `json:"totals"`
	TargetGPPct      float64 `json:"target_gp_pct"`
	BreakEvenRevenue float64 `json:"break_even_revenue"`
	Currency         string  `json:"currency"`
}

// GetBreakdown handles GET /branches/:id/costs/breakdown. Break-even revenue
// is the labor revenue needed for gross profit to cover total monthly costs.
func (h *Handler) GetBreakdown(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid branch id")
		return
	}
	owner := auth.OwnerEmail(c)
	totals, err := h.repo.TotalsByBranch(c.Request.Context(), owner, branchID)
	if err != nil {
		response.Internal(c, "failed to aggregate costs")
		return
	}
	settings, err := h.targetRepo.GetSettings(c.Request.Context(), owner, branchID)
	if err != nil {
		response.Internal(c, "failed to load target settings")
		return
	}
	breakEven := 0.0
	if settings.TargetGPPct > 0 {
		breakEven = totals.Total / (settings.TargetGPPct / 100)
	}
	response.OK(c, Breakdown{
		Totals:           totals,
		TargetGPPct:      settings.TargetGPPct,
		BreakEvenRevenue: breakEven,
		Currency:         settings.Currency,
	})
}
