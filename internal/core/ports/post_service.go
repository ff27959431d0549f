package ports

import (
	"context"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// CreatePostInput carries all caller-supplied data for a new post. ID and
// PublishedAt are assigned by the service. When Slug is empty it is derived
// from Title.
type CreatePostInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	Author     string
	AuthorType domain.AuthorType
	Category   string
	Tags       []string
	ReadTime   string
	Visibility domain.Visibility
	Featured   bool
}

// ListPostsInput carries the parameters for the list and search endpoints.
// Role scopes the visible tiers; the remaining fields are optional filters.
type ListPostsInput struct {
	Role     domain.Role
	Category string
	Featured *bool
	Search   string
}

// PostService defines use-case operations for posts.
type PostService interface {
	List(ctx context.Context, input ListPostsInput) ([]*domain.Post, error)
	GetBySlug(ctx context.Context, slug string, role domain.Role) (*domain.Post, error)
	GetByID(ctx context.Context, id int64, role domain.Role) (*domain.Post, error)
	Create(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	// Update is a full-record replace addressed by slug; the slug itself is
	// immutable on this path.
	Update(ctx context.Context, slug string, input CreatePostInput) (*domain.Post, error)
	// UpdateByID is the id-addressed variant; it may change the slug.
	UpdateByID(ctx context.Context, id int64, input CreatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, slug string) error
	Search(ctx context.Context, query string, role domain.Role) ([]*domain.Post, error)
	Stats(ctx context.Context) (*PostStats, error)
}
