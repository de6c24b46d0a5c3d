package service

import (
	"context"
	"errors"
	"time"

	"lockdesk/internal/domain"
	"lockdesk/internal/repository"

	"gorm.io/gorm"
)

// LockoutService serves the admin read views over lock state.
type LockoutService struct {
	lockouts repository.LockoutRepository
}

func NewLockoutService(lockouts repository.LockoutRepository) *LockoutService {
	return &LockoutService{lockouts: lockouts}
}

// Get returns the lockout row for userID, or nil when the account has never
// been locked. Absence is a normal answer, not an error.
func (s *LockoutService) Get(_ context.Context, userID string) (*domain.AccountLockout, error) {
	l, err := s.lockouts.Get(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, NewError(KindUnexpected, "lockout lookup failed", err)
	}
	return l, nil
}

func (s *LockoutService) ListLocked(_ context.Context, now time.Time) ([]domain.AccountLockout, error) {
	out, err := s.lockouts.ListLocked(now)
	if err != nil {
		return nil, NewError(KindUnexpected, "lockout list failed", err)
	}
	return out, nil
}
