package models

// Role represents a user's role within a company.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ParseRole returns the Role for s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleStaff:
		return Role(s), true
	}
	return "", false
}

// CanAccessBranchSettings reports whether the role may view and edit branch settings.
func (r Role) CanAccessBranchSettings() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanAccessCompanySettings reports whether the role may view company settings.
func (r Role) CanAccessCompanySettings() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanAccessCompanyUsers reports whether the role may manage company members.
func (r Role) CanAccessCompanyUsers() bool {
	return r == RoleAdmin
}

// CanWriteWorkshop reports whether the role may modify workshop data
// (facilities, targets, costs).
func (r Role) CanWriteWorkshop() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanWriteCompanyProfile reports whether the role may modify the company profile.
func (r Role) CanWriteCompanyProfile() bool {
	return r == RoleAdmin
}
