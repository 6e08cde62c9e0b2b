package auth

import (
	"context"
	"time"
)

// Revocations remembers token ids that were logged out before they expired.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
