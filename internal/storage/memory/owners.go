// Package memory provides the in-memory stores backing the relay's
// registries.
package memory

import (
	"context"

	"github.com/ossiavoice/relay-go/internal/core/domain"
	"github.com/ossiavoice/relay-go/pkg/cmap"
)

// OwnerStore stores owners in memory. Owners are write-once: there is no
// update or delete, a documented limitation of the relay.
type OwnerStore struct {
	owners *cmap.Map[*domain.Owner]
}

// NewOwnerStore creates an empty owner store.
func NewOwnerStore() *OwnerStore {
	return &OwnerStore{owners: cmap.New[*domain.Owner]()}
}

// Get retrieves an owner by ID.
func (s *OwnerStore) Get(_ context.Context, ownerID string) (*domain.Owner, error) {
	owner, ok := s.owners.Get(ownerID)
	if !ok {
		return nil, domain.ErrOwnerUnauthorized.WithDetails("unknown owner")
	}
	return owner, nil
}

// Create stores a new owner.
func (s *OwnerStore) Create(_ context.Context, owner *domain.Owner) error {
	if _, stored := s.owners.SetIfAbsent(owner.OwnerID, owner); !stored {
		// ULID collision; practically unreachable.
		return domain.ErrInternalServer.WithDetails("owner id collision")
	}
	return nil
}

// Count returns the number of registered owners.
func (s *OwnerStore) Count() int {
	return s.owners.Count()
}
