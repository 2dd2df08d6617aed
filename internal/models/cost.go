package models

import (
	"time"

	"github.com/google/uuid"
)

// CostCategory is either fixed or variable.
type CostCategory string

const (
	CostFixed    CostCategory = "fixed"
	CostVariable CostCategory = "variable"
)

// ParseCostCategory returns the CostCategory for s, or false if unknown.
func ParseCostCategory(s string) (CostCategory, bool) {
	switch CostCategory(s) {
	case CostFixed, CostVariable:
		return CostCategory(s), true
	}
	return "", false
}

// CostItem is a monthly cost line for a branch.
type CostItem struct {
	ID         uuid.UUID    `json:"id"`
	OwnerEmail string       `json:"-"`
	BranchID   uuid.UUID    `json:"branch_id"`
	Category   CostCategory `json:"category"`
	Name       string       `json:"name"`
	Amount     float64      `json:"amount"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
