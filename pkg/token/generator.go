// Package token provides random credential generation and hashing.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// SecretLength is the default secret length in bytes (256 bits).
const SecretLength = 32

// EnrollTokenLength is the byte length of enrollment tokens: 32 hex
// characters, compact enough for QR payloads and links.
const EnrollTokenLength = 16

// Generate generates a cryptographically secure random secret.
//
// The result is Base64 RawURL encoded for safe transport in JSON bodies
// and query strings.
func Generate() (string, error) {
	return GenerateWithLength(SecretLength)
}

// GenerateWithLength generates a secret with the given byte length.
func GenerateWithLength(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateHex generates a hex-encoded random string with the given byte
// length. Enrollment tokens use this form so they survive being typed or
// embedded in QR payloads without case-sensitivity surprises.
func GenerateHex(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
