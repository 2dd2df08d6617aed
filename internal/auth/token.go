package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Session tokens are two-part strings "payload.signature": payload is the
// unpadded base64url encoding of the identity email, signature is the
// base64url HMAC-SHA256 of the payload part under the signing secret.
// The server keeps no session state; token validity is determined entirely
// by the secret.

// SignIdentity encodes email into a tamper-evident session token.
// Fails only when the signing secret is not configured.
func SignIdentity(email string) (string, error) {
	secret, err := Secret()
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString([]byte(email))
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return payload + "." + sig, nil
}

// VerifyToken validates a session token and returns the embedded identity.
// All failures (malformed token, bad encoding, signature mismatch, missing
// secret) report ok=false; VerifyToken never panics and never distinguishes
// failure causes to callers.
func VerifyToken(token string) (email string, ok bool) {
	payload, sig, found := strings.Cut(token, ".")
	if !found || payload == "" || sig == "" {
		return "", false
	}
	secret, err := Secret()
	if err != nil {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	given, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	// hmac.Equal is constant-time over equal-length inputs; a length
	// mismatch reveals only length, which is not secret here.
	if !hmac.Equal(mac.Sum(nil), given) {
		return "", false
	}
	return string(raw), true
}
