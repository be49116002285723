package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

var ErrInvalidState = errors.New("invalid OAuth state")

// GenerateState creates an OAuth state of the form nonce.payload, where payload carries
// metadata such as the flow ("signin" or "signup"). The nonce is returned separately so the
// caller can remember it until the callback arrives.
func GenerateState(data map[string]string) (state, nonce string, err error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	nonce = base64.RawURLEncoding.EncodeToString(randomBytes)

	payloadBytes, err := sonic.Marshal(data)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal state data: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)

	return nonce + "." + payload, nonce, nil
}

// DecodeState splits a state produced by GenerateState.
func DecodeState(state string) (nonce string, data map[string]string, err error) {
	parts := strings.Split(state, ".")
	if len(parts) != 2 || parts[0] == "" {
		return "", nil, ErrInvalidState
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if err := sonic.Unmarshal(payloadBytes, &data); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return parts[0], data, nil
}
