package ports

import (
	"context"
	"time"
)

// RefreshTokenStore is the allow-list of live refresh tokens. A token absent
// from the store is invalid regardless of its shape.
type RefreshTokenStore interface {
	// Save associates an opaque refresh token with a user id for ttl.
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// Consume atomically looks up and removes the token, returning the
	// associated user id. A missing token returns domain.ErrInvalidToken.
	Consume(ctx context.Context, token string) (string, error)
	// Revoke removes the token if present. Revoking an unknown token is not
	// an error.
	Revoke(ctx context.Context, token string) error
}
