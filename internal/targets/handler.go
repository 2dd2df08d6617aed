package targets

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/realtime"
	"github.com/marginpilot/backend/pkg/response"
)

// Handler handles target settings, calculated targets and the what-if simulator.
type Handler struct {
	repo   *Repository
	events *realtime.Hub
}

// NewHandler creates a targets handler.
func NewHandler(repo *Repository, events *realtime.Hub) *Handler {
	return &Handler{repo: repo, events: events}
}

func branchParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid branch id")
		return uuid.Nil, false
	}
	return id, true
}

// GetSettings handles GET /branches/:id/targets.
func (h *Handler) GetSettings(c *gin.Context) {
	branchID, ok := branchParam(c)
	if !ok {
		return
	}
	settings, err := h.repo.GetSettings(c.Request.Context(), auth.OwnerEmail(c), branchID)
	if err != nil {
		response.Internal(c, "failed to load target settings")
		return
	}
	response.OK(c, settings)
}

func validateSettings(s Settings) string {
	switch {
	case s.Technicians < 0:
		return "technicians must not be negative"
	case s.WorkingDays < 0 || s.WorkingDays > 31:
		return "working_days must be between 0 and 31"
	case s.HoursPerDay < 0 || s.HoursPerDay > 24:
		return "hours_per_day must be between 0 and 24"
	case s.EfficiencyPct < 0 || s.EfficiencyPct > 200:
		return "efficiency_pct must be between 0 and 200"
	case s.UtilizationPct < 0 || s.UtilizationPct > 100:
		return "utilization_pct must be between 0 and 100"
	case s.LaborRate < 0:
		return "labor_rate must not be negative"
	case s.TargetGPPct < 0 || s.TargetGPPct > 100:
		return "target_gp_pct must be between 0 and 100"
	}
	return ""
}

// PutSettings handles PUT /branches/:id/targets.
func (h *Handler) PutSettings(c *gin.Context) {
	branchID, ok := branchParam(c)
	if !ok {
		return
	}
	var s Settings
	if err := c.ShouldBindJSON(&s); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if msg := validateSettings(s); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		s.Currency = DefaultSettings().Currency
	}
	owner := auth.OwnerEmail(c)
	if err := h.repo.UpsertSettings(c.Request.Context(), owner, branchID, s); err != nil {
		response.Internal(c, "failed to save target settings")
		return
	}
	h.events.Notify(owner, realtime.EventTargetsUpdated, gin.H{"branch_id": branchID})
	response.OK(c, s)
}

// GetCalculated handles GET /branches/:id/targets/calculated.
func (h *Handler) GetCalculated(c *gin.Context) {
	branchID, ok := branchParam(c)
	if !ok {
		return
	}
	settings, err := h.repo.GetSettings(c.Request.Context(), auth.OwnerEmail(c), branchID)
	if err != nil {
		response.Internal(c, "failed to load target settings")
		return
	}
	response.OK(c, Calculate(settings))
}

// Simulate handles POST /branches/:id/simulate. Nothing is persisted.
func (h *Handler) Simulate(c *gin.Context) {
	branchID, ok := branchParam(c)
	if !ok {
		return
	}
	var overrides Overrides
	if err := c.ShouldBindJSON(&overrides); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	base, err := h.repo.GetSettings(c.Request.Context(), auth.OwnerEmail(c), branchID)
	if err != nil {
		response.Internal(c, "failed to load target settings")
		return
	}
	if msg := validateSettings(Apply(base, overrides)); msg != "" {
		response.BadRequest(c, msg)
		return
	}
	response.OK(c, Simulate(base, overrides))
}
