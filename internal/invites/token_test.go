package invites

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/marginpilot/backend/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestInviteTokenRoundTrip(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	token, err := NewToken("bob@x.com", models.RoleManager, "owner@x.com")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "bob@x.com", claims.Email)
	require.Equal(t, models.RoleManager, claims.Role)
	require.Equal(t, "owner@x.com", claims.OwnerEmail)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, time.Now().Add(InviteTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestInviteTokenRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	_, err := NewToken("bob@x.com", models.RoleStaff, "owner@x.com")
	require.Error(t, err)

	_, err = ParseToken("anything")
	require.ErrorIs(t, err, ErrInvalidInvite)
}

func TestInviteTokenRejectsTampering(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	token, err := NewToken("bob@x.com", models.RoleStaff, "owner@x.com")
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	require.ErrorIs(t, err, ErrInvalidInvite)

	_, err = ParseToken("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidInvite)
}

func TestInviteTokenRejectsForeignSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	token, err := NewToken("bob@x.com", models.RoleStaff, "owner@x.com")
	require.NoError(t, err)

	t.Setenv("AUTH_SECRET", strings.Repeat("y", 32))
	_, err = ParseToken(token)
	require.ErrorIs(t, err, ErrInvalidInvite)
}

func TestInviteTokenRejectsExpired(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	claims := Claims{
		Email:      "bob@x.com",
		Role:       models.RoleStaff,
		OwnerEmail: "owner@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(expired)
	require.ErrorIs(t, err, ErrInvalidInvite)
}

func TestInviteTokenRejectsUnknownRole(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	claims := Claims{
		Email:      "bob@x.com",
		Role:       models.Role("superuser"),
		OwnerEmail: "owner@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(token)
	require.ErrorIs(t, err, ErrInvalidInvite)
}
