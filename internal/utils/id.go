package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecureToken returns length random bytes, base64url encoded.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RequestID returns a short random id, or "unknown" if randomness is unavailable.
func RequestID() string {
	id, err := GenerateSecureToken(9)
	if err != nil {
		return "unknown"
	}
	return id
}
