package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "manager", "staff"} {
		role, ok := ParseRole(s)
		require.True(t, ok)
		require.Equal(t, Role(s), role)
	}
	for _, s := range []string{"", "Admin", "owner", "superuser"} {
		_, ok := ParseRole(s)
		require.False(t, ok, "%q parsed as a role", s)
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role                Role
		branchSettings      bool
		companySettings     bool
		companyUsers        bool
		writeWorkshop       bool
		writeCompanyProfile bool
	}{
		{RoleAdmin, true, true, true, true, true},
		{RoleManager, true, true, false, true, false},
		{RoleStaff, false, false, false, false, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.branchSettings, tt.role.CanAccessBranchSettings(), "%s branch settings", tt.role)
		require.Equal(t, tt.companySettings, tt.role.CanAccessCompanySettings(), "%s company settings", tt.role)
		require.Equal(t, tt.companyUsers, tt.role.CanAccessCompanyUsers(), "%s company users", tt.role)
		require.Equal(t, tt.writeWorkshop, tt.role.CanWriteWorkshop(), "%s write workshop", tt.role)
		require.Equal(t, tt.writeCompanyProfile, tt.role.CanWriteCompanyProfile(), "%s write company profile", tt.role)
	}
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	r := Role("intruder")
	require.False(t, r.CanAccessBranchSettings())
	require.False(t, r.CanAccessCompanySettings())
	require.False(t, r.CanAccessCompanyUsers())
	require.False(t, r.CanWriteWorkshop())
	require.False(t, r.CanWriteCompanyProfile())
}
