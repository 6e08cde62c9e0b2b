package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hackgods/medicare-hms/internal/auth"
)

const revokedKeyPrefix = "revoked:token:"

// Revocations is a token denylist keyed by jti. Entries expire with the token
// so the set never outgrows the live sessions.
type Revocations struct {
	client redis.Cmdable
	now    func() time.Time
}

var _ auth.Revocations = (*Revocations)(nil)

func NewRevocations(client redis.Cmdable) *Revocations {
	return &Revocations{client: client, now: time.Now}
}

func revokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}

func (r *Revocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
