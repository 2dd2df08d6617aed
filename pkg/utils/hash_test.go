package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.True(t, VerifyPassword("correct horse battery staple", hash))
	require.False(t, VerifyPassword("wrong password", hash))
}

func TestVerifyPasswordLegacyPlaintext(t *testing.T) {
	// Stored values that are not bcrypt hashes are legacy plaintext rows.
	require.True(t, VerifyPassword("hunter2", "hunter2"))
	require.False(t, VerifyPassword("hunter2", "hunter3"))
	require.False(t, VerifyPassword("hunter", "hunter2"))
}

func TestVerifyPasswordEmptyInputs(t *testing.T) {
	require.False(t, VerifyPassword("", ""))
	require.False(t, VerifyPassword("", "stored"))
	require.False(t, VerifyPassword("given", ""))
}

func TestVerifyPasswordMalformedBcryptPrefix(t *testing.T) {
	// Looks like bcrypt but is not a valid hash; must fail, not panic.
	require.False(t, VerifyPassword("anything", "$2a$nonsense"))
}
