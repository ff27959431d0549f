package ports

import (
	"context"
	"time"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// UserStats is the roll-up returned by Stats.
type UserStats struct {
	Total        int64
	Active       int64
	Inactive     int64
	ByRole       map[domain.Role]int64
	RecentLogins int64 // logins within the window passed to Stats
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	// TouchLastLogin stamps last_login_at without bumping updated_at.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Stats(ctx context.Context, recentWindow time.Duration) (*UserStats, error)
}
