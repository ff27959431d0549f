package handler

import (
	"time"

	"github.com/parnasoft/blog-platform/internal/core/domain"
	"github.com/parnasoft/blog-platform/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createPostRequest struct {
	Title      string   `json:"title"      validate:"required"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"    validate:"required"`
	Content    string   `json:"content"    validate:"required"`
	Author     string   `json:"author"     validate:"required"`
	AuthorType string   `json:"authorType" validate:"required,oneof=general md notice"`
	Category   string   `json:"category"   validate:"required"`
	Tags       []string `json:"tags"`
	ReadTime   string   `json:"readTime"   validate:"required"`
	Visibility string   `json:"visibility" validate:"required,oneof=public internal restricted"`
	Featured   bool     `json:"featured"`
}

func (r createPostRequest) toInput() ports.CreatePostInput {
	return ports.CreatePostInput{
		Title:      r.Title,
		Slug:       r.Slug,
		Excerpt:    r.Excerpt,
		Content:    r.Content,
		Author:     r.Author,
		AuthorType: domain.AuthorType(r.AuthorType),
		Category:   r.Category,
		Tags:       r.Tags,
		ReadTime:   r.ReadTime,
		Visibility: domain.Visibility(r.Visibility),
		Featured:   r.Featured,
	}
}

type postResponse struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	AuthorType  string    `json:"authorType"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"publishedAt"`
	ReadTime    string    `json:"readTime"`
	Visibility  string    `json:"visibility"`
	Featured    bool      `json:"featured"`
}

func toPostResponse(p *domain.Post) postResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return postResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		Author:      p.Author,
		AuthorType:  string(p.AuthorType),
		Category:    p.Category,
		Tags:        tags,
		PublishedAt: p.PublishedAt,
		ReadTime:    p.ReadTime,
		Visibility:  string(p.Visibility),
		Featured:    p.Featured,
	}
}

func toPostListResponse(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

type postStatsResponse struct {
	TotalPosts      int64 `json:"totalPosts"`
	PublicPosts     int64 `json:"publicPosts"`
	InternalPosts   int64 `json:"internalPosts"`
	RestrictedPosts int64 `json:"restrictedPosts"`
	GeneralPosts    int64 `json:"generalPosts"`
	MDPosts         int64 `json:"mdPosts"`
	NoticePosts     int64 `json:"noticePosts"`
	FeaturedPosts   int64 `json:"featuredPosts"`
}

func toPostStatsResponse(s *ports.PostStats) postStatsResponse {
	return postStatsResponse{
		TotalPosts:      s.Total,
		PublicPosts:     s.ByTier[domain.VisibilityPublic],
		InternalPosts:   s.ByTier[domain.VisibilityInternal],
		RestrictedPosts: s.ByTier[domain.VisibilityRestricted],
		GeneralPosts:    s.ByAuthor[domain.AuthorGeneral],
		MDPosts:         s.ByAuthor[domain.AuthorMD],
		NoticePosts:     s.ByAuthor[domain.AuthorNotice],
		FeaturedPosts:   s.Featured,
	}
}
