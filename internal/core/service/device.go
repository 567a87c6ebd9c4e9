// Package service provides domain services for the relay.
package service

import (
	"context"
	"log/slog"

	"github.com/ossiavoice/relay-go/internal/core/domain"
)

// DeviceRepository defines the storage interface for device records.
type DeviceRepository interface {
	// Get retrieves a device by ID.
	Get(ctx context.Context, deviceID string) (*domain.Device, error)

	// Create stores a new device.
	Create(ctx context.Context, dev *domain.Device) error

	// Update replaces an existing device record.
	Update(ctx context.Context, dev *domain.Device) error

	// Delete removes a device by ID.
	Delete(ctx context.Context, deviceID string) error
}

// DeviceService handles device credential minting, authentication,
// revocation, and secret rotation.
type DeviceService struct {
	repo   DeviceRepository
	owners *OwnerService
	logger *slog.Logger
}

// NewDeviceService creates a new DeviceService.
func NewDeviceService(repo DeviceRepository, owners *OwnerService, logger *slog.Logger) *DeviceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeviceService{repo: repo, owners: owners, logger: logger}
}

// MintDeviceResponse contains a freshly minted device credential.
// Secret is plaintext and returned only on mint and rotation.
type MintDeviceResponse struct {
	DeviceID      string
	Secret        string
	ParticipantID string
	OwnerID       string
	DisplayName   string
}

// Mint creates a device credential bound to a participant and owner.
// Called by the enrollment broker after a token is consumed; there is no
// direct external path to minting.
func (s *DeviceService) Mint(ctx context.Context, participantID, ownerID, displayName string) (*MintDeviceResponse, error) {
	dev, secret, err := domain.NewDevice(participantID, ownerID, displayName)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, dev); err != nil {
		return nil, err
	}

	s.logger.Info("device minted",
		"device_id", dev.DeviceID,
		"owner_id", dev.OwnerID,
		"participant_id", dev.ParticipantID)

	return &MintDeviceResponse{
		DeviceID:      dev.DeviceID,
		Secret:        secret,
		ParticipantID: dev.ParticipantID,
		OwnerID:       dev.OwnerID,
		DisplayName:   dev.DisplayName,
	}, nil
}

// Authenticate verifies a deviceId/secret pair for a session join.
// Unknown devices and secret mismatches both return
// ErrDeviceUnauthorized. Returns the device on success so the caller can
// bind participant identity to the connection.
func (s *DeviceService) Authenticate(ctx context.Context, deviceID, secret string) (*domain.Device, error) {
	dev, err := s.repo.Get(ctx, deviceID)
	if err != nil {
		return nil, domain.ErrDeviceUnauthorized
	}
	if !dev.VerifySecret(secret) {
		return nil, domain.ErrDeviceUnauthorized
	}
	return dev, nil
}

// RevokeDeviceRequest contains parameters for device revocation.
type RevokeDeviceRequest struct {
	OwnerID     string
	OwnerSecret string
	DeviceID    string
}

// Revoke removes a device credential. Requires owner authentication and
// ownership of the device; a device owned by someone else is
// indistinguishable from an absent one (ErrDeviceNotFound).
//
// Revocation does not terminate an already-open session connection for
// the device; only future joins are blocked.
func (s *DeviceService) Revoke(ctx context.Context, req *RevokeDeviceRequest) error {
	if err := s.owners.Authenticate(ctx, req.OwnerID, req.OwnerSecret); err != nil {
		return err
	}

	dev, err := s.repo.Get(ctx, req.DeviceID)
	if err != nil || dev.OwnerID != req.OwnerID {
		return domain.ErrDeviceNotFound
	}

	if err := s.repo.Delete(ctx, req.DeviceID); err != nil {
		return err
	}

	s.logger.Info("device revoked", "device_id", req.DeviceID, "owner_id", req.OwnerID)
	return nil
}

// RotateDeviceRequest contains parameters for device secret rotation.
type RotateDeviceRequest struct {
	OwnerID     string
	OwnerSecret string
	DeviceID    string
}

// RotateDeviceResponse contains the rotated credential.
type RotateDeviceResponse struct {
	DeviceID string
	Secret   string
}

// Rotate replaces a device's secret, preserving its identity fields.
// Same authorization as Revoke. The old secret is invalid for future
// joins as soon as this returns.
func (s *DeviceService) Rotate(ctx context.Context, req *RotateDeviceRequest) (*RotateDeviceResponse, error) {
	if err := s.owners.Authenticate(ctx, req.OwnerID, req.OwnerSecret); err != nil {
		return nil, err
	}

	dev, err := s.repo.Get(ctx, req.DeviceID)
	if err != nil || dev.OwnerID != req.OwnerID {
		return nil, domain.ErrDeviceNotFound
	}

	newSecret, err := dev.RotateSecret()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, dev); err != nil {
		return nil, err
	}

	s.logger.Info("device secret rotated", "device_id", req.DeviceID, "owner_id", req.OwnerID)
	return &RotateDeviceResponse{DeviceID: dev.DeviceID, Secret: newSecret}, nil
}
