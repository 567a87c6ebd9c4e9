// Package memory provides the in-memory stores backing the relay's
// registries.
package memory

import (
	"context"

	"github.com/ossiavoice/relay-go/internal/core/domain"
	"github.com/ossiavoice/relay-go/pkg/cmap"
)

// DeviceStore stores device credentials in memory. Devices are mutated
// by secret rotation and removed by revocation; the store hands out
// clones so callers can't reach registry state directly.
type DeviceStore struct {
	devices *cmap.Map[*domain.Device]
}

// NewDeviceStore creates an empty device store.
func NewDeviceStore() *DeviceStore {
	return &DeviceStore{devices: cmap.New[*domain.Device]()}
}

// Get retrieves a device by ID.
func (s *DeviceStore) Get(_ context.Context, deviceID string) (*domain.Device, error) {
	dev, ok := s.devices.Get(deviceID)
	if !ok {
		return nil, domain.ErrDeviceNotFound
	}
	return dev.Clone(), nil
}

// Create stores a new device.
func (s *DeviceStore) Create(_ context.Context, dev *domain.Device) error {
	if _, stored := s.devices.SetIfAbsent(dev.DeviceID, dev.Clone()); !stored {
		return domain.ErrInternalServer.WithDetails("device id collision")
	}
	return nil
}

// Update replaces an existing device record.
func (s *DeviceStore) Update(_ context.Context, dev *domain.Device) error {
	if !s.devices.Has(dev.DeviceID) {
		return domain.ErrDeviceNotFound
	}
	s.devices.Set(dev.DeviceID, dev.Clone())
	return nil
}

// Delete removes a device by ID.
func (s *DeviceStore) Delete(_ context.Context, deviceID string) error {
	if _, ok := s.devices.GetAndDelete(deviceID); !ok {
		return domain.ErrDeviceNotFound
	}
	return nil
}

// Count returns the number of stored devices.
func (s *DeviceStore) Count() int {
	return s.devices.Count()
}
