package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewResetSecret builds the plaintext reset secret: 32 random bytes in
// hex with the user ID appended. The secret leaves the process exactly
// once, inside the reset email; only its hash is ever persisted.
func NewResetSecret(userID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf) + userID, nil
}

// HashResetSecret maps a reset secret to its stored form.
func HashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
