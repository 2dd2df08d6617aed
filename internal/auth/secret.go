package auth

import (
	"errors"
	"os"
)

// MinSecretLength is the minimum accepted length of AUTH_SECRET.
const MinSecretLength = 16

// ErrSecretNotConfigured indicates AUTH_SECRET is missing or too short.
// It signals a deployment defect and is the only auth error allowed to
// propagate out of the signing path.
var ErrSecretNotConfigured = errors.New("auth: AUTH_SECRET must be set to at least 16 characters")

// Secret returns the session signing secret from the environment.
// It re-reads the environment on every call so configuration changes and
// test fault injection take effect without caching.
func Secret() ([]byte, error) {
	s := os.Getenv("AUTH_SECRET")
	if len(s) < MinSecretLength {
		return nil, ErrSecretNotConfigured
	}
	return []byte(s), nil
}
