package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileIsOwner(t *testing.T) {
	p := &Profile{Email: "owner@x.com"}
	require.True(t, p.IsOwner())

	empty := ""
	p.CompanyOwnerEmail = &empty
	require.True(t, p.IsOwner())

	owner := "owner@x.com"
	member := &Profile{Email: "bob@x.com", CompanyOwnerEmail: &owner}
	require.False(t, member.IsOwner())
}

func TestPasswordNeverSerialized(t *testing.T) {
	p := &Profile{Email: "owner@x.com", Password: "$2a$12$secret"}

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secret")

	pub, err := json.Marshal(p.ToPublic())
	require.NoError(t, err)
	require.NotContains(t, string(pub), "secret")
}

func TestToPublicKeepsCompanyDocument(t *testing.T) {
	p := &Profile{
		Email: "owner@x.com",
		Company: Company{
			Name:     "Test Garage",
			Branches: []Branch{{Name: "Main"}},
			Users:    []CompanyUser{{Email: "bob@x.com", Role: RoleStaff}},
		},
	}
	pub := p.ToPublic()
	require.Equal(t, "owner@x.com", pub.Email)
	require.Equal(t, "Test Garage", pub.Company.Name)
	require.Len(t, pub.Company.Branches, 1)
	require.Len(t, pub.Company.Users, 1)
}
