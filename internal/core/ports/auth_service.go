package ports

import (
	"context"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// TokenPair is an access/refresh credential pair. ExpiresIn is the access
// token lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Claims is the identity embedded in a valid access token.
type Claims struct {
	UserID string
	Email  string
	Name   string
	Role   domain.Role
}

// AuthService issues, rotates, validates, and revokes token pairs.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	// Refresh consumes the given refresh token and returns a rotated pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Validate(ctx context.Context, accessToken string) (*Claims, error)
	// Logout revokes the refresh token. It never fails from the caller's view.
	Logout(ctx context.Context, refreshToken string)
}
