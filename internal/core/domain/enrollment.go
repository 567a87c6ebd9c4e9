// Package domain defines the core domain models for the relay.
package domain

import (
	"time"

	"github.com/ossiavoice/relay-go/pkg/token"
)

// DefaultEnrollTTL is the lifetime of an enrollment token.
const DefaultEnrollTTL = 600 * time.Second

// Enrollment is a single-use, time-limited token binding a participant
// to an owner. Redeeming it mints a device credential; the record is
// deleted on first successful redemption regardless of remaining TTL.
//
// Expired-but-unredeemed enrollments are not swept; they stay in memory
// until process exit. Enrollment volume is owner-driven and tiny, so a
// sweeper would buy nothing.
type Enrollment struct {
	// Token is the opaque hex token handed to the partner browser.
	Token string `json:"-"`

	// ParticipantID identifies the partner being onboarded.
	ParticipantID string `json:"participant_id"`

	// OwnerID is the issuing owner.
	OwnerID string `json:"owner_id"`

	// DisplayName is the partner's display name.
	DisplayName string `json:"display_name"`

	// ExpiresAt is the absolute expiry (Unix milliseconds).
	ExpiresAt int64 `json:"expires_at"`
}

// NewEnrollment creates an enrollment with a generated token and the
// given TTL.
func NewEnrollment(participantID, ownerID, displayName string, ttl time.Duration) (*Enrollment, error) {
	tok, err := token.GenerateHex(token.EnrollTokenLength)
	if err != nil {
		return nil, ErrInternalServer.WithCause(err)
	}

	return &Enrollment{
		Token:         tok,
		ParticipantID: participantID,
		OwnerID:       ownerID,
		DisplayName:   displayName,
		ExpiresAt:     timeNow().Add(ttl).UnixMilli(),
	}, nil
}

// IsExpired reports whether the enrollment is past its expiry.
func (e *Enrollment) IsExpired() bool {
	return timeNow().UnixMilli() > e.ExpiresAt
}
