package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ossiavoice/relay-go/internal/core/domain"
)

func TestOwnerStore(t *testing.T) {
	ctx := context.Background()
	store := NewOwnerStore()

	owner, _, err := domain.NewOwner()
	if err != nil {
		t.Fatalf("NewOwner() error: %v", err)
	}
	if err := store.Create(ctx, owner); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := store.Get(ctx, owner.OwnerID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.OwnerID != owner.OwnerID {
		t.Errorf("Get() returned %q, want %q", got.OwnerID, owner.OwnerID)
	}

	if _, err := store.Get(ctx, "own-missing"); !errors.Is(err, domain.ErrOwnerUnauthorized) {
		t.Errorf("Get(missing) error = %v, want ErrOwnerUnauthorized", err)
	}
	if store.Count() != 1 {
		t.Errorf("Count() = %d, want 1", store.Count())
	}
}

func TestEnrollmentStoreConsumeOnce(t *testing.T) {
	ctx := context.Background()
	store := NewEnrollmentStore()

	e, err := domain.NewEnrollment("p1", "own-abc", "Susa", domain.DefaultEnrollTTL)
	if err != nil {
		t.Fatalf("NewEnrollment() error: %v", err)
	}
	if err := store.Put(ctx, e); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := store.Consume(ctx, e.Token)
	if err != nil {
		t.Fatalf("first Consume() error: %v", err)
	}
	if got.ParticipantID != "p1" {
		t.Errorf("ParticipantID = %q, want p1", got.ParticipantID)
	}

	if _, err := store.Consume(ctx, e.Token); !errors.Is(err, domain.ErrEnrollmentInvalid) {
		t.Errorf("second Consume() error = %v, want ErrEnrollmentInvalid", err)
	}
}

func TestEnrollmentStoreConsumeConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewEnrollmentStore()

	e, err := domain.NewEnrollment("p1", "own-abc", "Susa", domain.DefaultEnrollTTL)
	if err != nil {
		t.Fatalf("NewEnrollment() error: %v", err)
	}
	if err := store.Put(ctx, e); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Consume(ctx, e.Token); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("token consumed by %d callers, want exactly 1", wins.Load())
	}
}

func TestDeviceStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewDeviceStore()

	dev, _, err := domain.NewDevice("p1", "own-abc", "Susa")
	if err != nil {
		t.Fatalf("NewDevice() error: %v", err)
	}
	if err := store.Create(ctx, dev); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := store.Get(ctx, dev.DeviceID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	// Mutating the returned record must not touch the stored one.
	got.DisplayName = "changed"
	again, _ := store.Get(ctx, dev.DeviceID)
	if again.DisplayName != "Susa" {
		t.Error("store returned a live reference, not a clone")
	}

	// Update via rotation.
	newSecret, err := got.RotateSecret()
	if err != nil {
		t.Fatalf("RotateSecret() error: %v", err)
	}
	got.DisplayName = "Susa"
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	updated, _ := store.Get(ctx, dev.DeviceID)
	if !updated.VerifySecret(newSecret) {
		t.Error("rotated secret not persisted by Update")
	}

	if err := store.Delete(ctx, dev.DeviceID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, dev.DeviceID); !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrDeviceNotFound", err)
	}
	if err := store.Delete(ctx, dev.DeviceID); !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Errorf("double Delete() error = %v, want ErrDeviceNotFound", err)
	}
	if err := store.Update(ctx, dev); !errors.Is(err, domain.ErrDeviceNotFound) {
		t.Errorf("Update() on deleted device error = %v, want ErrDeviceNotFound", err)
	}
}
