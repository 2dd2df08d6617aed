package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/costs"
	"github.com/marginpilot/backend/internal/targets"
	"github.com/marginpilot/backend/pkg/response"
)

const (
	cacheKeyPrefix = "mp:dashboard:"
	cacheTTL       = 60 * time.Second
)

// BranchSummary holds the monthly KPIs for one branch.
type BranchSummary struct {
	BranchID     uuid.UUID          `json:"branch_id"`
	BranchName   string             `json:"branch_name"`
	Targets      targets.Calculated `json:"targets"`
	Costs        costs.Totals       `json:"costs"`
	NetMargin    float64            `json:"net_margin"`
	NetMarginPct float64            `json:"net_margin_pct"`
}

// Summary is the payload for GET /dashboard/summary.
type Summary struct {
	OwnerEmail   string          `json:"owner_email"`
	CompanyName  string          `json:"company_name"`
	Branches     []BranchSummary `json:"branches"`
	TotalRevenue float64         `json:"total_revenue"`
	TotalGP      float64         `json:"total_gross_profit"`
	TotalCosts   float64         `json:"total_costs"`
	NetMargin    float64         `json:"net_margin"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// Handler aggregates per-branch KPIs for the dashboard. Results are cached in
// Redis briefly: the dashboard polls, the numbers move slowly.
type Handler struct {
	profiles   *auth.Repository
	targetRepo *targets.Repository
	costRepo   *costs.Repository
	cache      *redis.Client
	logger     *zap.Logger
}

// NewHandler creates a dashboard handler. cache may be nil (no caching).
func NewHandler(profiles *auth.Repository, targetRepo *targets.Repository, costRepo *costs.Repository, cache *redis.Client, logger *zap.Logger) *Handler {
	return &Handler{profiles: profiles, targetRepo: targetRepo, costRepo: costRepo, cache: cache, logger: logger}
}

// GetSummary handles GET /dashboard/summary.
func (h *Handler) GetSummary(c *gin.Context) {
	owner := auth.OwnerEmail(c)
	ctx := c.Request.Context()

	if cached, ok := h.fromCache(ctx, owner); ok {
		response.OK(c, cached)
		return
	}

	profile, err := h.profiles.GetByEmail(ctx, owner)
	if err != nil || profile == nil {
		response.Internal(c, "failed to load company")
		return
	}

	summary := Summary{
		OwnerEmail:  owner,
		CompanyName: profile.Company.Name,
		Branches:    []BranchSummary{},
		GeneratedAt: time.Now().UTC(),
	}
	for _, branch := range profile.Company.Branches {
		settings, err := h.targetRepo.GetSettings(ctx, owner, branch.ID)
		if err != nil {
			response.Internal(c, "failed to load target settings")
			return
		}
		totals, err := h.costRepo.TotalsByBranch(ctx, owner, branch.ID)
		if err != nil {
			response.Internal(c, "failed to aggregate costs")
			return
		}
		calc := targets.Calculate(settings)
		net := calc.GrossProfit - totals.Total
		netPct := 0.0
		if calc.LaborRevenue > 0 {
			netPct = net / calc.LaborRevenue * 100
		}
		summary.Branches = append(summary.Branches, BranchSummary{
			BranchID:     branch.ID,
			BranchName:   branch.Name,
			Targets:      calc,
			Costs:        totals,
			NetMargin:    net,
			NetMarginPct: netPct,
		})
		summary.TotalRevenue += calc.LaborRevenue
		summary.TotalGP += calc.GrossProfit
		summary.TotalCosts += totals.Total
	}
	summary.NetMargin = summary.TotalGP - summary.TotalCosts

	h.toCache(ctx, owner, summary)
	response.OK(c, summary)
}

func (h *Handler) fromCache(ctx context.Context, owner string) (*Summary, bool) {
	if h.cache == nil {
		return nil, false
	}
	raw, err := h.cache.Get(ctx, cacheKeyPrefix+owner).Bytes()
	if err != nil {
		return nil, false
	}
	var s Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	return &s, true
}

func (h *Handler) toCache(ctx context.Context, owner string, s Summary) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, cacheKeyPrefix+owner, raw, cacheTTL).Err(); err != nil {
		h.logger.Debug("dashboard cache write failed", zap.Error(err))
	}
}
