package models

import (
	"time"

	"github.com/google/uuid"
)

// Branch is a workshop location belonging to a company.
type Branch struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`
}

// CompanyUser is a member entry in the owner's company document.
// Email comparison against member entries is case-insensitive and trimmed.
type CompanyUser struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Company is the tenant document embedded in the owner's profile.
type Company struct {
	Name     string        `json:"name"`
	LogoURL  string        `json:"logo_url,omitempty"`
	Branches []Branch      `json:"branches"`
	Users    []CompanyUser `json:"users"`
}

// Profile represents an account. An owner profile has an empty
// CompanyOwnerEmail and an authoritative Company document; a member profile
// references its owner via CompanyOwnerEmail and its Company is unused.
type Profile struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Password          string    `json:"-"`
	Company           Company   `json:"company"`
	CompanyOwnerEmail *string   `json:"company_owner_email,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsOwner reports whether the profile owns its own company.
func (p *Profile) IsOwner() bool {
	return p.CompanyOwnerEmail == nil || *p.CompanyOwnerEmail == ""
}

// ProfilePublic is Profile without sensitive fields for API responses.
// Constructed fresh so the password hash can never leak through a forgotten
// field-strip.
type ProfilePublic struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Company           Company   `json:"company"`
	CompanyOwnerEmail *string   `json:"company_owner_email,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToPublic converts Profile to ProfilePublic.
func (p *Profile) ToPublic() ProfilePublic {
	return ProfilePublic{
		ID:                p.ID,
		Email:             p.Email,
		Company:           p.Company,
		CompanyOwnerEmail: p.CompanyOwnerEmail,
		CreatedAt:         p.CreatedAt,
	}
}

// EffectiveOwnerAndRole is the per-request resolution of "who am I, in which
// tenant, with what role". Never persisted.
type EffectiveOwnerAndRole struct {
	OwnerEmail string `json:"owner_email"`
	Role       Role   `json:"role"`
}
