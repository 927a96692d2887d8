package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// invitationTokenBytes gives 256 bits of entropy, enough that collisions are
// negligible for the lifetime of the system. The store's unique index on the
// token column is the backstop, not a second source of uniqueness.
const invitationTokenBytes = 32

// IssueToken generates a random invitation token: 43 base64url characters,
// safe in a URL query parameter without further encoding.
func IssueToken() (string, error) {
	b := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate invitation token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
