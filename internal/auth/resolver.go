package auth

import (
	"context"
	"strings"

	"github.com/marginpilot/backend/internal/models"
)

// ProfileStore is the lookup surface the resolver needs. Implemented by
// Repository; faked in tests.
type ProfileStore interface {
	// GetByEmail returns the profile with exactly this email, or (nil, nil)
	// when no such profile exists.
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// Resolver maps an authenticated identity to its effective tenant owner and role.
type Resolver struct {
	profiles ProfileStore
}

// NewResolver creates a role resolver over the given profile store.
func NewResolver(profiles ProfileStore) *Resolver {
	return &Resolver{profiles: profiles}
}

// Resolve determines the effective (owner, role) pair for sessionEmail.
//
// An owner profile (empty companyOwnerEmail) is its own tenant with role
// admin. A member profile takes its role from the owner's company.users list
// (matched case-insensitively after trimming), defaulting to staff when not
// listed. If the referenced owner profile does not exist, the caller is
// treated as their own owner with role admin: a deliberate policy choice that
// prevents total lockout on referential-integrity failure.
//
// Returns (nil, nil) when no profile exists for sessionEmail. Note the
// asymmetry: this initial lookup is exact-match while membership matching is
// case-insensitive; emails are normalized at signup and invite-accept.
func (r *Resolver) Resolve(ctx context.Context, sessionEmail string) (*models.EffectiveOwnerAndRole, error) {
	profile, err := r.profiles.GetByEmail(ctx, sessionEmail)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	ownerEmail := ""
	if profile.CompanyOwnerEmail != nil {
		ownerEmail = strings.TrimSpace(*profile.CompanyOwnerEmail)
	}
	if ownerEmail == "" {
		return &models.EffectiveOwnerAndRole{OwnerEmail: sessionEmail, Role: models.RoleAdmin}, nil
	}

	owner, err := r.profiles.GetByEmail(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return &models.EffectiveOwnerAndRole{OwnerEmail: sessionEmail, Role: models.RoleAdmin}, nil
	}

	want := strings.ToLower(strings.TrimSpace(sessionEmail))
	role := models.RoleStaff
	for _, member := range owner.Company.Users {
		if strings.ToLower(strings.TrimSpace(member.Email)) == want {
			role = member.Role
			break
		}
	}
	return &models.EffectiveOwnerAndRole{OwnerEmail: ownerEmail, Role: role}, nil
}
