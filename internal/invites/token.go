package invites

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marginpilot/backend/internal/auth"
	"github.com/marginpilot/backend/internal/models"
)

// InviteTTL is how long an invite link stays valid.
const InviteTTL = 7 * 24 * time.Hour

var ErrInvalidInvite = errors.New("invalid or expired invite")

// Claims are the invite token claims: who is invited, into whose company,
// with what role.
type Claims struct {
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	OwnerEmail string      `json:"owner_email"`
	jwt.RegisteredClaims
}

// NewToken creates a signed invite token. Uses the same signing secret as
// sessions, so an unconfigured secret fails here too.
func NewToken(email string, role models.Role, ownerEmail string) (string, error) {
	secret, err := auth.Secret()
	if err != nil {
		return "", err
	}
	claims := Claims{
		Email:      email,
		Role:       role,
		OwnerEmail: ownerEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(InviteTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates an invite token and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	secret, err := auth.Secret()
	if err != nil {
		return nil, ErrInvalidInvite
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidInvite
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidInvite
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidInvite
	}
	if _, ok := models.ParseRole(string(claims.Role)); !ok {
		return nil, ErrInvalidInvite
	}
	return claims, nil
}
