package models

import (
	"time"

	"github.com/google/uuid"
)

// FacilityKind categorizes workshop facilities.
type FacilityKind string

const (
	FacilityServiceBay  FacilityKind = "service_bay"
	FacilityLift        FacilityKind = "lift"
	FacilityDiagnostics FacilityKind = "diagnostics"
	FacilityBodyshop    FacilityKind = "bodyshop"
	FacilityOther       FacilityKind = "other"
)

// ParseFacilityKind returns the FacilityKind for s, or false if unknown.
func ParseFacilityKind(s string) (FacilityKind, bool) {
	switch FacilityKind(s) {
	case FacilityServiceBay, FacilityLift, FacilityDiagnostics, FacilityBodyshop, FacilityOther:
		return FacilityKind(s), true
	}
	return "", false
}

// Facility is a piece of workshop infrastructure at a branch.
type Facility struct {
	ID         uuid.UUID    `json:"id"`
	OwnerEmail string       `json:"-"`
	BranchID   uuid.UUID    `json:"branch_id"`
	Name       string       `json:"name"`
	Kind       FacilityKind `json:"kind"`
	Bays       int          `json:"bays"`
	Active     bool         `json:"active"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
