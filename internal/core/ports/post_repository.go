package ports

import (
	"context"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// ListPostsFilter carries all query parameters for listing posts.
// Visibilities is always populated by the service layer from the caller's
// role; an empty slice means "match nothing", never "match everything".
type ListPostsFilter struct {
	Visibilities []domain.Visibility
	Category     string // optional: exact match
	Featured     *bool  // optional: filter on the featured flag
	Search       string // optional: case-insensitive substring across title, excerpt, content, tags
}

// PostStats is the roll-up returned by CountByTier.
type PostStats struct {
	Total    int64
	ByTier   map[domain.Visibility]int64
	ByAuthor map[domain.AuthorType]int64
	Featured int64
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	FindBySlug(ctx context.Context, slug string) (*domain.Post, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	// List returns posts matching filter, newest first.
	List(ctx context.Context, filter ListPostsFilter) ([]*domain.Post, error)
	// Update replaces the stored record addressed by p.Slug.
	Update(ctx context.Context, p *domain.Post) error
	// Replace replaces the stored record addressed by p.ID in a single
	// backend call; a slug held by another post surfaces as ErrSlugTaken.
	Replace(ctx context.Context, p *domain.Post) error
	Delete(ctx context.Context, slug string) error
	// NextID reserves and returns the next numeric post id.
	NextID(ctx context.Context) (int64, error)
	CountByTier(ctx context.Context) (*PostStats, error)
}
