// Package domain defines the core domain models for the relay.
//
// Domain models are pure value objects and entities without any IO
// dependencies or framework coupling.
package domain

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/argon2"

	"github.com/ossiavoice/relay-go/pkg/token"
)

// OwnerIDPrefix is the prefix for owner identifiers.
const OwnerIDPrefix = "own-"

// Argon2id parameters for owner secret hashing. Owner authentication
// happens on enrollment issuance, device management, and listener joins,
// all low-rate paths that tolerate a memory-hard hash.
const (
	argon2Time        = 2
	argon2Memory      = 16 * 1024 // KiB
	argon2Parallelism = 2
	argon2KeyLen      = 32
	argon2SaltLen     = 16
)

// timeNow is an indirection for tests that need deterministic clocks.
var timeNow = time.Now

// Owner is the authenticated root identity. It authorizes enrollment
// issuance and device management and is the credential behind listener
// joins. Owners live for the process lifetime and are never deleted or
// persisted; in-memory only is a documented property of the relay.
type Owner struct {
	// OwnerID is the unique identifier, format: own-{ulid_lowercase}.
	OwnerID string `json:"owner_id"`

	// SecretHash is the argon2id hash of the owner secret. The
	// plaintext is returned exactly once, at registration.
	SecretHash string `json:"-"`

	// CreatedAt is the registration timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`
}

// NewOwner creates an Owner with a generated ID and secret.
// Returns the owner and the plaintext secret (only returned once).
func NewOwner() (*Owner, string, error) {
	id, err := generateID(OwnerIDPrefix)
	if err != nil {
		return nil, "", err
	}

	plainSecret, err := token.Generate()
	if err != nil {
		return nil, "", ErrInternalServer.WithCause(err)
	}

	hash, err := HashOwnerSecret(plainSecret)
	if err != nil {
		return nil, "", ErrInternalServer.WithCause(err)
	}

	return &Owner{
		OwnerID:    id,
		SecretHash: hash,
		CreatedAt:  timeNow().UnixMilli(),
	}, plainSecret, nil
}

// VerifySecret checks a presented secret against the stored hash in
// constant time.
func (o *Owner) VerifySecret(secret string) bool {
	return verifyOwnerSecret(secret, o.SecretHash)
}

// HashOwnerSecret computes an argon2id hash of the secret.
// Format: $argon2id$v=19$m=16384,t=2,p=2$<salt_b64>$<hash_b64>
func HashOwnerSecret(secret string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(secret), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)

	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(hash)
	return "$argon2id$v=19$m=16384,t=2,p=2$" + saltB64 + "$" + hashB64, nil
}

// verifyOwnerSecret recomputes the hash with the stored salt and compares
// in constant time. Malformed stored hashes fail closed.
func verifyOwnerSecret(secret, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	actual := argon2.IDKey([]byte(secret), salt, argon2Time, argon2Memory, argon2Parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

// generateID generates a prefixed lowercase ULID identifier.
func generateID(prefix string) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(timeNow()), entropy)
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	return prefix + strings.ToLower(id.String()), nil
}
