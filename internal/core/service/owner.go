// Package service provides domain services for the relay.
//
// OwnerService is the root of the authorization chain: it registers
// owner identities and authenticates them for enrollment issuance,
// device management, and listener joins.
package service

import (
	"context"
	"log/slog"

	"github.com/ossiavoice/relay-go/internal/core/domain"
)

// OwnerRepository defines the storage interface for owner records.
type OwnerRepository interface {
	// Get retrieves an owner by ID.
	Get(ctx context.Context, ownerID string) (*domain.Owner, error)

	// Create stores a new owner.
	Create(ctx context.Context, owner *domain.Owner) error
}

// OwnerService handles owner registration and authentication.
type OwnerService struct {
	repo   OwnerRepository
	logger *slog.Logger
}

// NewOwnerService creates a new OwnerService.
func NewOwnerService(repo OwnerRepository, logger *slog.Logger) *OwnerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OwnerService{repo: repo, logger: logger}
}

// RegisterOwnerResponse contains the result of owner registration.
// Secret is the plaintext owner secret, returned only here.
type RegisterOwnerResponse struct {
	OwnerID string
	Secret  string
}

// Register creates a fresh owner identity with a random secret.
// Owners are never deleted in this design.
func (s *OwnerService) Register(ctx context.Context) (*RegisterOwnerResponse, error) {
	owner, secret, err := domain.NewOwner()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, owner); err != nil {
		return nil, err
	}

	s.logger.Info("owner registered", "owner_id", owner.OwnerID)
	return &RegisterOwnerResponse{OwnerID: owner.OwnerID, Secret: secret}, nil
}

// Authenticate verifies an ownerId/secret pair. Unknown owners and
// secret mismatches both return ErrOwnerUnauthorized — authentication
// fails closed and never reveals which part was wrong.
func (s *OwnerService) Authenticate(ctx context.Context, ownerID, secret string) error {
	owner, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return domain.ErrOwnerUnauthorized
	}
	if !owner.VerifySecret(secret) {
		return domain.ErrOwnerUnauthorized
	}
	return nil
}
