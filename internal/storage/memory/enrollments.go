// Package memory provides the in-memory stores backing the relay's
// registries.
package memory

import (
	"context"
	"sync"

	"github.com/ossiavoice/relay-go/internal/core/domain"
)

// EnrollmentStore stores pending enrollment tokens in memory.
//
// Tokens are removed only on successful consumption. Expired tokens that
// are never redeemed remain until process exit; enrollment volume is
// owner-driven and tiny, so Consume deliberately leaves expired records
// in place rather than paying for a sweep.
//
// A single mutex guards the map: expiry check and deletion must be one
// atomic step so two concurrent redeemers can never both win, and the
// token population is far too small for shard-level locking to matter.
type EnrollmentStore struct {
	mu          sync.Mutex
	enrollments map[string]*domain.Enrollment
}

// NewEnrollmentStore creates an empty enrollment store.
func NewEnrollmentStore() *EnrollmentStore {
	return &EnrollmentStore{enrollments: make(map[string]*domain.Enrollment)}
}

// Put stores a pending enrollment under its token.
func (s *EnrollmentStore) Put(_ context.Context, e *domain.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments[e.Token] = e
	return nil
}

// Consume atomically removes and returns the enrollment for a token.
// Unknown and expired tokens both yield ErrEnrollmentInvalid; only a
// valid token is deleted, and exactly one caller can ever consume it.
func (s *EnrollmentStore) Consume(_ context.Context, tok string) (*domain.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.enrollments[tok]
	if !ok || e.IsExpired() {
		return nil, domain.ErrEnrollmentInvalid
	}
	delete(s.enrollments, tok)
	return e, nil
}

// Count returns the number of pending enrollments, expired ones included.
func (s *EnrollmentStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.enrollments)
}
