package domain

import "time"

// AccountLockout is the lock state for a single account. Threshold counting
// and backoff policy live with whatever writes the lock; this service only
// reads and clears state.
type AccountLockout struct {
	UserID         string     `gorm:"primaryKey;size:64" json:"user_id"`
	FailedAttempts int        `gorm:"not null;default:0" json:"failed_attempts"`
	LockedAt       *time.Time `json:"locked_at,omitempty"`
	LockedUntil    *time.Time `gorm:"index:idx_account_lockouts_locked_until" json:"locked_until,omitempty"`
	UnlockedAt     *time.Time `json:"unlocked_at,omitempty"`
	UnlockedBy     string     `gorm:"size:64" json:"unlocked_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Locked reports whether the account is locked at the given instant.
func (l *AccountLockout) Locked(now time.Time) bool {
	if l == nil || l.LockedUntil == nil {
		return false
	}
	return l.LockedUntil.After(now)
}
