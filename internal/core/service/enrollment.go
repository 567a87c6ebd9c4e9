// Package service provides domain services for the relay.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ossiavoice/relay-go/internal/core/domain"
)

// EnrollmentRepository defines the storage interface for pending
// enrollment tokens.
type EnrollmentRepository interface {
	// Put stores a pending enrollment under its token.
	Put(ctx context.Context, e *domain.Enrollment) error

	// Consume atomically removes and returns the enrollment for a
	// token. Unknown and expired tokens yield ErrEnrollmentInvalid.
	Consume(ctx context.Context, tok string) (*domain.Enrollment, error)
}

// EnrollmentService brokers single-use enrollment tokens: owners issue
// them, partner browsers redeem them exactly once for a device
// credential.
type EnrollmentService struct {
	repo    EnrollmentRepository
	owners  *OwnerService
	devices *DeviceService
	ttl     time.Duration
	logger  *slog.Logger
}

// NewEnrollmentService creates a new EnrollmentService. A zero ttl falls
// back to domain.DefaultEnrollTTL.
func NewEnrollmentService(repo EnrollmentRepository, owners *OwnerService, devices *DeviceService, ttl time.Duration, logger *slog.Logger) *EnrollmentService {
	if ttl <= 0 {
		ttl = domain.DefaultEnrollTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrollmentService{
		repo:    repo,
		owners:  owners,
		devices: devices,
		ttl:     ttl,
		logger:  logger,
	}
}

// IssueEnrollmentRequest contains parameters for token issuance.
type IssueEnrollmentRequest struct {
	ParticipantID string
	OwnerID       string
	OwnerSecret   string
	DisplayName   string
}

// IssueEnrollmentResponse contains the issued token and its TTL.
type IssueEnrollmentResponse struct {
	Token     string
	ExpiresIn int64 // seconds
}

// Issue mints an enrollment token for a participant, authorized by the
// owner's credentials.
func (s *EnrollmentService) Issue(ctx context.Context, req *IssueEnrollmentRequest) (*IssueEnrollmentResponse, error) {
	if req.ParticipantID == "" || req.OwnerID == "" {
		return nil, domain.ErrMissingFields
	}
	if err := s.owners.Authenticate(ctx, req.OwnerID, req.OwnerSecret); err != nil {
		return nil, err
	}

	e, err := domain.NewEnrollment(req.ParticipantID, req.OwnerID, req.DisplayName, s.ttl)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Put(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("enrollment issued",
		"owner_id", req.OwnerID,
		"participant_id", req.ParticipantID,
		"expires_in_s", int64(s.ttl.Seconds()))

	return &IssueEnrollmentResponse{
		Token:     e.Token,
		ExpiresIn: int64(s.ttl.Seconds()),
	}, nil
}

// Redeem consumes an enrollment token and mints the device credential it
// authorizes. A token is honored at most once: the consume happens
// before the mint, so a second redemption always fails, even immediately
// after a successful first one.
func (s *EnrollmentService) Redeem(ctx context.Context, tok string) (*MintDeviceResponse, error) {
	e, err := s.repo.Consume(ctx, tok)
	if err != nil {
		return nil, err
	}

	resp, err := s.devices.Mint(ctx, e.ParticipantID, e.OwnerID, e.DisplayName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("enrollment redeemed",
		"owner_id", e.OwnerID,
		"participant_id", e.ParticipantID,
		"device_id", resp.DeviceID)
	return resp, nil
}
