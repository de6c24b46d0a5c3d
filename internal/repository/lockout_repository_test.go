package repository

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestLockoutRepositoryGetAndList(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewLockoutRepository(db)
	now := time.Now().UTC()

	if _, err := repo.Get("nobody"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Get missing = %v, want ErrRecordNotFound", err)
	}

	if err := repo.Lock("user-1", now.Add(15*time.Minute), 5); err != nil {
		t.Fatalf("lock user-1: %v", err)
	}
	if err := repo.Lock("user-2", now.Add(-time.Minute), 3); err != nil {
		t.Fatalf("lock user-2: %v", err)
	}

	l, err := repo.Get("user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !l.Locked(now) {
		t.Fatal("user-1 should be locked")
	}
	if l.FailedAttempts != 5 {
		t.Errorf("failed_attempts = %d", l.FailedAttempts)
	}

	expired, err := repo.Get("user-2")
	if err != nil {
		t.Fatalf("get expired: %v", err)
	}
	if expired.Locked(now) {
		t.Fatal("user-2 lock already expired")
	}

	locked, err := repo.ListLocked(now)
	if err != nil {
		t.Fatalf("list locked: %v", err)
	}
	if len(locked) != 1 || locked[0].UserID != "user-1" {
		t.Fatalf("locked = %+v, want only user-1", locked)
	}
}
