package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/parnasoft/blog-platform/internal/core/domain"
	"github.com/parnasoft/blog-platform/internal/core/ports"
)

type PostService struct {
	repo ports.PostRepository
	log  zerolog.Logger
}

func NewPostService(repo ports.PostRepository, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, log: log}
}

// List returns the posts visible to the caller's role, newest first. The
// repository query is already scoped to the allowed tiers; each item is
// re-checked with CanView as defense in depth.
func (s *PostService) List(ctx context.Context, input ports.ListPostsInput) ([]*domain.Post, error) {
	posts, err := s.repo.List(ctx, ports.ListPostsFilter{
		Visibilities: domain.ListFilter(input.Role),
		Category:     input.Category,
		Featured:     input.Featured,
		Search:       input.Search,
	})
	if err != nil {
		s.log.Error().Err(err).Str("role", string(input.Role)).Msg("failed to list posts")
		return nil, err
	}

	visible := posts[:0]
	for _, p := range posts {
		if domain.CanView(p.Visibility, input.Role) {
			visible = append(visible, p)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].PublishedAt.After(visible[j].PublishedAt)
	})
	return visible, nil
}

// GetBySlug retrieves a single post. A post the caller may not view is
// indistinguishable from a missing one.
func (s *PostService) GetBySlug(ctx context.Context, slug string, role domain.Role) (*domain.Post, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(p.Visibility, role) {
		return nil, domain.ErrPostNotFound
	}
	return p, nil
}

// GetByID is the id-addressed variant of GetBySlug.
func (s *PostService) GetByID(ctx context.Context, id int64, role domain.Role) (*domain.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(p.Visibility, role) {
		return nil, domain.ErrPostNotFound
	}
	return p, nil
}

// Create validates the input, derives the slug from the title when absent,
// assigns the id and publication time, and persists the post.
func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	if input.Slug == "" {
		input.Slug = domain.Slugify(input.Title)
	}
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reserve post id: %w", err)
	}

	post := postFromInput(id, input)
	post.PublishedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, post); err != nil {
		s.log.Error().Err(err).Str("slug", post.Slug).Msg("failed to create post")
		return nil, err
	}

	s.log.Info().Str("slug", post.Slug).Int64("id", post.ID).Str("visibility", string(post.Visibility)).Msg("post created")
	return post, nil
}

// Update is a full-record replace addressed by slug. The slug itself is
// immutable on this path; id and publishedAt are preserved from the stored
// record.
func (s *PostService) Update(ctx context.Context, slug string, input ports.CreatePostInput) (*domain.Post, error) {
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	input.Slug = existing.Slug
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	post := postFromInput(existing.ID, input)
	post.PublishedAt = existing.PublishedAt

	if err := s.repo.Update(ctx, post); err != nil {
		s.log.Error().Err(err).Str("slug", slug).Msg("failed to update post")
		return nil, err
	}
	return post, nil
}

// UpdateByID replaces the record addressed by id and may change the slug.
func (s *PostService) UpdateByID(ctx context.Context, id int64, input ports.CreatePostInput) (*domain.Post, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Slug == "" {
		input.Slug = existing.Slug
	}
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	post := postFromInput(existing.ID, input)
	post.PublishedAt = existing.PublishedAt

	// Slug changes and plain field updates go through the same id-addressed
	// replace: one backend call, so a failure never leaves the record gone.
	if err := s.repo.Replace(ctx, post); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("failed to update post")
		return nil, err
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.Delete(ctx, slug); err != nil {
		return err
	}
	s.log.Info().Str("slug", slug).Msg("post deleted")
	return nil
}

// Search performs the same role scoping as List plus a case-insensitive
// substring match across title, excerpt, content, and tags. The repository
// may match server-side; results are re-filtered locally so callers never
// depend on it.
func (s *PostService) Search(ctx context.Context, query string, role domain.Role) ([]*domain.Post, error) {
	posts, err := s.List(ctx, ports.ListPostsInput{Role: role, Search: query})
	if err != nil {
		return nil, err
	}

	matched := posts[:0]
	for _, p := range posts {
		if postMatches(p, query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (s *PostService) Stats(ctx context.Context) (*ports.PostStats, error) {
	return s.repo.CountByTier(ctx)
}

func postMatches(p *domain.Post, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Excerpt), q) ||
		strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func validatePostInput(in ports.CreatePostInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "",
		strings.TrimSpace(in.Excerpt) == "",
		strings.TrimSpace(in.Content) == "",
		strings.TrimSpace(in.Author) == "",
		strings.TrimSpace(in.Category) == "",
		strings.TrimSpace(in.ReadTime) == "":
		return domain.ErrInvalidPost
	case !domain.ValidSlug(in.Slug):
		return domain.ErrInvalidPost
	case !domain.ValidVisibility(in.Visibility):
		return domain.ErrInvalidPost
	case !domain.ValidAuthorType(in.AuthorType):
		return domain.ErrInvalidPost
	}
	return nil
}

func postFromInput(id int64, in ports.CreatePostInput) *domain.Post {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Post{
		ID:         id,
		Slug:       in.Slug,
		Title:      in.Title,
		Excerpt:    in.Excerpt,
		Content:    in.Content,
		Author:     in.Author,
		AuthorType: in.AuthorType,
		Category:   in.Category,
		Tags:       tags,
		ReadTime:   in.ReadTime,
		Visibility: in.Visibility,
		Featured:   in.Featured,
	}
}
