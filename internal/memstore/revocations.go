package memstore

import (
	"context"
	"time"

	"github.com/hackgods/medicare-hms/internal/auth"
)

type Revocations struct {
	s *Store
}

var _ auth.Revocations = (*Revocations)(nil)

func (r *Revocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for id, exp := range r.s.revoked {
		if !exp.After(now) {
			delete(r.s.revoked, id)
		}
	}
	if until.After(now) {
		r.s.revoked[tokenID] = until
	}
	return nil
}

func (r *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	exp, ok := r.s.revoked[tokenID]
	return ok && exp.After(r.s.now()), nil
}
