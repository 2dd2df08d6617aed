package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	for _, email := range []string{
		"owner@example.com",
		"User.Name+tag@Example.COM",
		"a@b.c",
	} {
		token, err := SignIdentity(email)
		require.NoError(t, err)
		require.Contains(t, token, ".")

		got, ok := VerifyToken(token)
		require.True(t, ok)
		require.Equal(t, email, got)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	token, err := SignIdentity("owner@example.com")
	require.NoError(t, err)

	// Flipping any single character must invalidate the token.
	for i := 0; i < len(token); i++ {
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if string(mutated) == token {
			continue
		}
		_, ok := VerifyToken(string(mutated))
		require.False(t, ok, "mutation at position %d accepted", i)
	}
}

func TestVerifyRejectsMalformedTokens(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)

	for _, token := range []string{
		"",
		"nodot",
		".",
		"payloadonly.",
		".sigonly",
		"not-base64!@#.also-not-base64!@#",
	} {
		_, ok := VerifyToken(token)
		require.False(t, ok, "token %q accepted", token)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	token, err := SignIdentity("owner@example.com")
	require.NoError(t, err)

	t.Setenv("AUTH_SECRET", strings.Repeat("x", 32))
	_, ok := VerifyToken(token)
	require.False(t, ok)
}

func TestSecretConfiguration(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	_, err := SignIdentity("owner@example.com")
	require.ErrorIs(t, err, ErrSecretNotConfigured)

	_, ok := VerifyToken("irrelevant.token")
	require.False(t, ok)

	t.Setenv("AUTH_SECRET", "too-short")
	_, err = SignIdentity("owner@example.com")
	require.ErrorIs(t, err, ErrSecretNotConfigured)

	t.Setenv("AUTH_SECRET", "exactly16chars!!")
	_, err = SignIdentity("owner@example.com")
	require.NoError(t, err)
}
