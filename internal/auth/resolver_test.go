package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marginpilot/backend/internal/models"
)

type fakeProfileStore struct {
	profiles map[string]*models.Profile
	err      error
}

func (f *fakeProfileStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[email], nil
}

func ownerProfile(email string, users ...models.CompanyUser) *models.Profile {
	return &models.Profile{
		Email: email,
		Company: models.Company{
			Name:  "Test Garage",
			Users: users,
		},
	}
}

func memberProfile(email, owner string) *models.Profile {
	return &models.Profile{Email: email, CompanyOwnerEmail: &owner}
}

func TestResolveOwnerIsAdminOfOwnTenant(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.Profile{
		"owner@x.com": ownerProfile("owner@x.com"),
	}}
	eff, err := NewResolver(store).Resolve(context.Background(), "owner@x.com")
	require.NoError(t, err)
	require.NotNil(t, eff)
	require.Equal(t, "owner@x.com", eff.OwnerEmail)
	require.Equal(t, models.RoleAdmin, eff.Role)
}

func TestResolveMemberRoleFromOwnerCompany(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.Profile{
		"owner@x.com": ownerProfile("owner@x.com",
			models.CompanyUser{Email: "bob@x.com", Role: models.RoleManager},
		),
		"bob@x.com": memberProfile("bob@x.com", "owner@x.com"),
	}}
	eff, err := NewResolver(store).Resolve(context.Background(), "bob@x.com")
	require.NoError(t, err)
	require.NotNil(t, eff)
	require.Equal(t, "owner@x.com", eff.OwnerEmail)
	require.Equal(t, models.RoleManager, eff.Role)
}

func TestResolveMembershipMatchIsCaseInsensitive(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.Profile{
		"owner@x.com": ownerProfile("owner@x.com",
			models.CompanyUser{Email: "  Bob@X.com ", Role: models.RoleManager},
		),
		"bob@x.com": memberProfile("bob@x.com", "owner@x.com"),
	}}
	eff, err := NewResolver(store).Resolve(context.Background(), "bob@x.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, eff.Role)
}

func TestResolveUnlistedMemberDefaultsToStaff(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.Profile{
		"owner@x.com": ownerProfile("owner@x.com",
			models.CompanyUser{Email: "someone-else@x.com", Role: models.RoleAdmin},
		),
		"bob@x.com": memberProfile("bob@x.com", "owner@x.com"),
	}}
	eff, err := NewResolver(store).Resolve(context.Background(), "bob@x.com")
	require.NoError(t, err)
	require.Equal(t, "owner@x.com", eff.OwnerEmail)
	require.Equal(t, models.RoleStaff, eff.Role)
}

func TestResolveMissingOwnerFallsBackToSelf(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.Profile{
		"bob@x.com": memberProfile("bob@x.com", "gone@x.com"),
	}}
	eff, err := NewResolver(store).Resolve(context.Background(), "bob@x.com")
	require.NoError(t, err)
	require.NotNil(t, eff)
	require.Equal(t, "bob@x.com", eff.OwnerEmail)
	require.Equal(t, models.RoleAdmin, eff.Role)
}

func TestResolveUnknownIdentity(t *testing.T) {
	store := &fakeProfileStore{profiles: map[string]*models.Profile{}}
	eff, err := NewResolver(store).Resolve(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	require.Nil(t, eff)
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	store := &fakeProfileStore{err: errors.New("db down")}
	eff, err := NewResolver(store).Resolve(context.Background(), "owner@x.com")
	require.Error(t, err)
	require.Nil(t, eff)
}

func TestResolveBlankOwnerRefTreatedAsOwner(t *testing.T) {
	blank := "   "
	store := &fakeProfileStore{profiles: map[string]*models.Profile{
		"owner@x.com": {Email: "owner@x.com", CompanyOwnerEmail: &blank},
	}}
	eff, err := NewResolver(store).Resolve(context.Background(), "owner@x.com")
	require.NoError(t, err)
	require.Equal(t, "owner@x.com", eff.OwnerEmail)
	require.Equal(t, models.RoleAdmin, eff.Role)
}
