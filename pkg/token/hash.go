// Package token provides random credential generation and hashing.
package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash computes the SHA-256 hash of a credential, hex encoded for
// storage. Plaintext credentials are never kept after issuance.
func Hash(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:])
}

// Verify verifies a presented credential against a stored hash.
//
// Uses constant-time comparison to prevent timing attacks.
func Verify(secret, expectedHash string) bool {
	actual := Hash(secret)
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expectedHash)) == 1
}
