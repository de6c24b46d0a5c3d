package service

import (
	"context"
	"time"

	"lockdesk/internal/domain"
)

// RoleAuthorizer answers whether a principal holds a named role. A lookup
// error is not a denial: callers must distinguish "no" from "don't know".
type RoleAuthorizer interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

// AccountUnlocker clears a lockout and returns the audit record written for
// the action.
type AccountUnlocker interface {
	Unlock(ctx context.Context, targetID, actorID string, now time.Time) (*domain.AuditRecord, error)
}

// LockoutReader serves the read-only admin views of lock state.
type LockoutReader interface {
	Get(ctx context.Context, userID string) (*domain.AccountLockout, error)
	ListLocked(ctx context.Context, now time.Time) ([]domain.AccountLockout, error)
}
