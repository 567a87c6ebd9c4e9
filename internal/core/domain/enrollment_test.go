package domain

import (
	"testing"
	"time"
)

func TestNewEnrollment(t *testing.T) {
	e, err := NewEnrollment("p1", "own-abc", "Susa", DefaultEnrollTTL)
	if err != nil {
		t.Fatalf("NewEnrollment() error: %v", err)
	}

	if len(e.Token) != 32 {
		t.Errorf("token length = %d, want 32 hex chars", len(e.Token))
	}
	if e.IsExpired() {
		t.Error("fresh enrollment reports expired")
	}
	wantExpiry := time.Now().Add(DefaultEnrollTTL).UnixMilli()
	if diff := wantExpiry - e.ExpiresAt; diff < -1000 || diff > 1000 {
		t.Errorf("ExpiresAt off by %dms", diff)
	}
}

func TestEnrollmentExpiry(t *testing.T) {
	e, err := NewEnrollment("p1", "own-abc", "Susa", DefaultEnrollTTL)
	if err != nil {
		t.Fatalf("NewEnrollment() error: %v", err)
	}

	// Just past expiry must fail, even by a hair.
	restore := timeNow
	defer func() { timeNow = restore }()
	timeNow = func() time.Time {
		return time.UnixMilli(e.ExpiresAt + 1)
	}

	if !e.IsExpired() {
		t.Error("enrollment at expiresAt+1ms reports valid")
	}
}

func TestEnrollmentZeroTTL(t *testing.T) {
	e, err := NewEnrollment("p1", "own-abc", "Susa", 0)
	if err != nil {
		t.Fatalf("NewEnrollment() error: %v", err)
	}

	restore := timeNow
	defer func() { timeNow = restore }()
	timeNow = func() time.Time {
		return time.UnixMilli(e.ExpiresAt + 1)
	}

	if !e.IsExpired() {
		t.Error("zero-TTL enrollment never expires")
	}
}
