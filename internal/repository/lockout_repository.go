package repository

import (
	"time"

	"lockdesk/internal/domain"

	"gorm.io/gorm"
)

type LockoutRepository interface {
	Get(userID string) (*domain.AccountLockout, error)
	ListLocked(now time.Time) ([]domain.AccountLockout, error)
	Lock(userID string, until time.Time, attempts int) error
}

type GormLockoutRepository struct{ db *gorm.DB }

func NewLockoutRepository(db *gorm.DB) LockoutRepository { return &GormLockoutRepository{db: db} }

func (r *GormLockoutRepository) Get(userID string) (*domain.AccountLockout, error) {
	var l domain.AccountLockout
	err := r.db.Where("user_id = ?", userID).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *GormLockoutRepository) ListLocked(now time.Time) ([]domain.AccountLockout, error) {
	var out []domain.AccountLockout
	err := r.db.Where("locked_until IS NOT NULL AND locked_until > ?", now).
		Order("locked_until ASC").Find(&out).Error
	return out, err
}

// Lock records a lockout. The threshold policy lives with the caller, this
// only writes state. Used by the auth flow and by tests.
func (r *GormLockoutRepository) Lock(userID string, until time.Time, attempts int) error {
	now := time.Now().UTC()
	l := domain.AccountLockout{
		UserID:         userID,
		FailedAttempts: attempts,
		LockedAt:       &now,
		LockedUntil:    &until,
	}
	return r.db.Save(&l).Error
}
