package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidHostKey = errors.New("invalid host key")

// Poll codes use an unambiguous alphabet (no 0/O, 1/I/L) so they can
// be read aloud and typed from a projector screen.
const pollCodeChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GeneratePollCode creates a short, human-shareable poll code.
func GeneratePollCode(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate poll code: %w", err)
	}
	for i := range b {
		b[i] = pollCodeChars[int(b[i])%len(pollCodeChars)]
	}
	return string(b), nil
}

// GenerateHostKey creates an HMAC-based host key for a poll.
// This is deterministic and verifiable, so host mutations can be
// authorized without storing the key in the database.
func GenerateHostKey(pollID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(pollID))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateHostKey checks if the provided host key is valid for the poll.
func ValidateHostKey(pollID, hostKey, salt string) error {
	expected := GenerateHostKey(pollID, salt)
	if !hmac.Equal([]byte(hostKey), []byte(expected)) {
		return ErrInvalidHostKey
	}
	return nil
}

// NewSessionID mints an opaque participant session identifier. Clients
// normally generate and persist their own; this exists for headless
// callers (load harness, tests) that need fresh identities.
func NewSessionID() string {
	return "s_" + uuid.NewString()
}

// NewOwnerID mints an opaque host account identifier for clients that
// arrive without one.
func NewOwnerID() string {
	return "u_" + uuid.NewString()
}
