package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lockdesk/internal/observability"
	"lockdesk/internal/repository"

	"golang.org/x/sync/singleflight"
)

// CachedRoleResolver answers role checks from a small TTL cache backed by the
// role grants table. A TTL of zero disables caching: revoking admin then
// takes effect on the next request instead of after the TTL.
type CachedRoleResolver struct {
	roles repository.RoleRepository
	ttl   time.Duration
	sf    singleflight.Group

	mu    sync.Mutex
	cache map[string]roleCacheEntry
}

type roleCacheEntry struct {
	has       bool
	expiresAt time.Time
}

func NewCachedRoleResolver(roles repository.RoleRepository, ttl time.Duration) *CachedRoleResolver {
	return &CachedRoleResolver{
		roles: roles,
		ttl:   ttl,
		cache: make(map[string]roleCacheEntry),
	}
}

func (r *CachedRoleResolver) HasRole(ctx context.Context, userID, role string) (bool, error) {
	key := fmt.Sprintf("role:%s:user:%s", role, userID)
	if r.ttl > 0 {
		r.mu.Lock()
		entry, ok := r.cache[key]
		r.mu.Unlock()
		if ok && time.Now().Before(entry.expiresAt) {
			observability.RecordRoleCacheEvent(ctx, "hit")
			return entry.has, nil
		}
	}

	result, err, shared := r.sf.Do(key, func() (interface{}, error) {
		has, err := r.roles.HasRole(userID, role)
		if err != nil {
			return false, err
		}
		if r.ttl > 0 {
			r.mu.Lock()
			r.cache[key] = roleCacheEntry{has: has, expiresAt: time.Now().Add(r.ttl)}
			r.mu.Unlock()
		}
		return has, nil
	})
	if shared {
		observability.RecordRoleCacheEvent(ctx, "singleflight_shared")
	} else {
		observability.RecordRoleCacheEvent(ctx, "miss")
	}
	if err != nil {
		// Do not cache failures. The caller maps this to a server error,
		// never to a denial.
		return false, NewError(KindUnexpected, "role lookup failed", err)
	}
	return result.(bool), nil
}

// Invalidate drops cached answers for one user, for example after a grant or
// revoke through the CLI.
func (r *CachedRoleResolver) Invalidate(userID, role string) {
	r.mu.Lock()
	delete(r.cache, fmt.Sprintf("role:%s:user:%s", role, userID))
	r.mu.Unlock()
}
