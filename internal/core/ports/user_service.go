package ports

import (
	"context"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// CreateUserInput carries all data for a new account. Password is checked
// against the domain policy and hashed before storage.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
	IsActive *bool // nil defaults to active
}

// UpdateUserInput is a partial update: zero-valued fields are left unchanged.
// An empty Password means "no change".
type UpdateUserInput struct {
	Email    string
	Name     string
	Role     domain.Role
	IsActive *bool
	Password string
}

// UserService defines use-case operations for account administration.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// ResetPassword queues a reset notification for the account and returns
	// without waiting for delivery.
	ResetPassword(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	Stats(ctx context.Context) (*UserStats, error)
}
