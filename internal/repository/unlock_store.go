package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"lockdesk/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnlockStore clears an account lockout and appends the audit record in one
// transaction. If the audit write fails the unlock rolls back: a privileged
// mutation without its trail must not survive.
type UnlockStore struct {
	db    *gorm.DB
	audit AuditRepository

	// Serializes unlock transactions from begin through commit. The chain
	// head read inside AppendTx only sees committed rows, so two in-flight
	// transactions would otherwise pick the same seq and the loser would
	// fail on the unique index. This store is the only writer of the trail.
	mu sync.Mutex
}

func NewUnlockStore(db *gorm.DB, audit AuditRepository) *UnlockStore {
	return &UnlockStore{db: db, audit: audit}
}

type unlockValues struct {
	UserID         string     `json:"user_id"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until"`
	UnlockedAt     time.Time  `json:"unlocked_at"`
	UnlockedBy     string     `json:"unlocked_by"`
	WasLocked      bool       `json:"was_locked"`
}

// Unlock clears the lock for targetID on behalf of actorID. Unlocking an
// account with no lockout row, or one that already expired, succeeds and is
// still audited: the admin action happened either way.
func (s *UnlockStore) Unlock(ctx context.Context, targetID, actorID string, now time.Time) (*domain.AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec *domain.AuditRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lockout domain.AccountLockout
		wasLocked := false
		err := tx.Where("user_id = ?", targetID).First(&lockout).Error
		switch {
		case err == nil:
			wasLocked = lockout.Locked(now)
			lockout.FailedAttempts = 0
			lockout.LockedUntil = nil
			lockout.UnlockedAt = &now
			lockout.UnlockedBy = actorID
			if err := tx.Save(&lockout).Error; err != nil {
				return fmt.Errorf("clear lockout: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No row to clear.
		default:
			return fmt.Errorf("load lockout: %w", err)
		}

		values, err := json.Marshal(unlockValues{
			UserID:         targetID,
			FailedAttempts: 0,
			LockedUntil:    nil,
			UnlockedAt:     now,
			UnlockedBy:     actorID,
			WasLocked:      wasLocked,
		})
		if err != nil {
			return fmt.Errorf("marshal audit values: %w", err)
		}

		rec = &domain.AuditRecord{
			ID:          uuid.NewString(),
			ActorID:     actorID,
			ActionType:  domain.ActionAccountUnlocked,
			RecordID:    targetID,
			TargetTable: domain.TableAccountLockouts,
			NewValues:   string(values),
			CreatedAt:   now,
		}
		if err := s.audit.AppendTx(tx, rec); err != nil {
			return fmt.Errorf("append audit record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
