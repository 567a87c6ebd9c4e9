package domain

import (
	"strings"
	"testing"
)

func TestNewDevice(t *testing.T) {
	dev, secret, err := NewDevice("p1", "own-abc", "Susa")
	if err != nil {
		t.Fatalf("NewDevice() error: %v", err)
	}

	if !strings.HasPrefix(dev.DeviceID, DeviceIDPrefix) {
		t.Errorf("DeviceID = %q, want %q prefix", dev.DeviceID, DeviceIDPrefix)
	}
	if dev.ParticipantID != "p1" || dev.OwnerID != "own-abc" || dev.DisplayName != "Susa" {
		t.Errorf("identity fields not carried: %+v", dev)
	}
	if !dev.VerifySecret(secret) {
		t.Error("VerifySecret rejected the freshly minted secret")
	}
	if dev.VerifySecret("wrong") {
		t.Error("VerifySecret accepted a wrong secret")
	}
}

func TestDeviceRotateSecret(t *testing.T) {
	dev, oldSecret, err := NewDevice("p1", "own-abc", "Susa")
	if err != nil {
		t.Fatalf("NewDevice() error: %v", err)
	}
	oldID := dev.DeviceID

	newSecret, err := dev.RotateSecret()
	if err != nil {
		t.Fatalf("RotateSecret() error: %v", err)
	}

	if newSecret == oldSecret {
		t.Error("rotation returned the old secret")
	}
	if dev.VerifySecret(oldSecret) {
		t.Error("old secret still valid after rotation")
	}
	if !dev.VerifySecret(newSecret) {
		t.Error("new secret rejected after rotation")
	}
	if dev.DeviceID != oldID {
		t.Error("rotation changed the device ID")
	}
}

func TestDeviceClone(t *testing.T) {
	dev, _, err := NewDevice("p1", "own-abc", "Susa")
	if err != nil {
		t.Fatalf("NewDevice() error: %v", err)
	}

	c := dev.Clone()
	c.DisplayName = "changed"
	if dev.DisplayName == "changed" {
		t.Error("mutating the clone changed the original")
	}
}
