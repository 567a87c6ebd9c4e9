// Package domain defines the core domain models for the relay.
package domain

import (
	"github.com/ossiavoice/relay-go/pkg/token"
)

// DeviceIDPrefix is the prefix for device identifiers.
const DeviceIDPrefix = "dev-"

// Device is a partner browser's authenticated credential, minted by
// redeeming an enrollment token. A device always references exactly one
// owner and one participant.
type Device struct {
	// DeviceID is the unique identifier, format: dev-{ulid_lowercase}.
	DeviceID string `json:"device_id"`

	// SecretHash is the SHA-256 hash of the device secret. Device
	// secrets are verified on every session join, so they use a cheap
	// hash rather than the owners' argon2id.
	SecretHash string `json:"-"`

	// ParticipantID identifies the conversational partner this device
	// sends transcripts for.
	ParticipantID string `json:"participant_id"`

	// OwnerID is the owner who authorized the enrollment.
	OwnerID string `json:"owner_id"`

	// DisplayName is the partner's display name, carried from the
	// enrollment for the interpreter UI.
	DisplayName string `json:"display_name"`

	// CreatedAt is the mint timestamp (Unix milliseconds).
	CreatedAt int64 `json:"created_at"`
}

// NewDevice creates a Device with a generated ID and secret.
// Returns the device and the plaintext secret (only returned here and
// on rotation).
func NewDevice(participantID, ownerID, displayName string) (*Device, string, error) {
	id, err := generateID(DeviceIDPrefix)
	if err != nil {
		return nil, "", err
	}

	plainSecret, err := token.Generate()
	if err != nil {
		return nil, "", ErrInternalServer.WithCause(err)
	}

	return &Device{
		DeviceID:      id,
		SecretHash:    token.Hash(plainSecret),
		ParticipantID: participantID,
		OwnerID:       ownerID,
		DisplayName:   displayName,
		CreatedAt:     timeNow().UnixMilli(),
	}, plainSecret, nil
}

// VerifySecret checks a presented secret against the stored hash in
// constant time.
func (d *Device) VerifySecret(secret string) bool {
	return token.Verify(secret, d.SecretHash)
}

// RotateSecret replaces the stored secret hash, preserving identity
// fields. The old secret is invalid for future joins the moment this
// returns; there is no grace period. Returns the new plaintext secret.
func (d *Device) RotateSecret() (string, error) {
	newSecret, err := token.Generate()
	if err != nil {
		return "", ErrInternalServer.WithCause(err)
	}
	d.SecretHash = token.Hash(newSecret)
	return newSecret, nil
}

// Clone returns a deep copy. Stores hand out clones so callers can't
// mutate registry state in place.
func (d *Device) Clone() *Device {
	c := *d
	return &c
}
