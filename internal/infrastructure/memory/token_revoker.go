// Package memory holds process-local fallbacks for stores that are optional
// in deployment.
package memory

import (
	"context"
	"sync"
	"time"
)

// TokenRevoker is an in-process denylist used when Redis is not configured.
// Entries vanish on restart and are not shared between replicas.
type TokenRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewTokenRevoker returns an empty denylist.
func NewTokenRevoker() *TokenRevoker {
	return &TokenRevoker{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke denies tokenID until the given instant and drops expired entries.
func (r *TokenRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, exp := range r.entries {
		if !exp.After(now) {
			delete(r.entries, id)
		}
	}
	if until.After(now) {
		r.entries[tokenID] = until
	}
	return nil
}

// IsRevoked reports whether tokenID is denied right now.
func (r *TokenRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !exp.After(r.now()) {
		delete(r.entries, tokenID)
		return false, nil
	}
	return true, nil
}
