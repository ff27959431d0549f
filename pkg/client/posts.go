package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// TokenSource provides the bearer credential for authenticated calls. A
// Session satisfies it.
type TokenSource interface {
	AccessToken() string
}

// Posts is the collection service for blog posts. Read methods take the
// caller's role explicitly; mutating methods send the token from the
// TokenSource.
type Posts struct {
	gw     *Gateway
	tokens TokenSource
	log    zerolog.Logger
}

func NewPosts(gw *Gateway, tokens TokenSource, log zerolog.Logger) *Posts {
	return &Posts{gw: gw, tokens: tokens, log: log}
}

// List fetches the posts visible to role, newest first. The backend already
// scopes by role; the result is re-filtered locally so a misbehaving backend
// can never leak a tier the caller is not entitled to. A response that is
// not an array is coerced to an empty list.
func (p *Posts) List(ctx context.Context, role Role) ([]Post, error) {
	endpoint := "/posts"
	if q := roleQuery(role); q != "" {
		endpoint += "?" + q
	}

	var raw json.RawMessage
	if err := p.gw.Call(ctx, http.MethodGet, endpoint, "", nil, &raw); err != nil {
		return nil, err
	}
	return filterVisible(decodePostList(raw), role), nil
}

// GetBySlug fetches a single post, returning nil (not an error) when the
// slug does not exist or is outside the caller's visibility.
func (p *Posts) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	var post Post
	err := p.gw.Call(ctx, http.MethodGet, "/posts/"+url.PathEscape(slug), p.tokens.AccessToken(), nil, &post)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByID is the id-addressed variant of GetBySlug.
func (p *Posts) GetByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	err := p.gw.Call(ctx, http.MethodGet, "/posts/id/"+strconv.FormatInt(id, 10), p.tokens.AccessToken(), nil, &post)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create validates the post client-side and submits it. A missing required
// field, a malformed slug, or an unknown enum value is rejected with a
// Validation error before any network call. When Slug is empty it is derived
// from Title.
func (p *Posts) Create(ctx context.Context, input CreatePost) (*Post, error) {
	if input.Slug == "" {
		input.Slug = Slugify(input.Title)
	}
	if err := validateCreatePost(input); err != nil {
		return nil, err
	}

	var post Post
	if err := p.gw.Call(ctx, http.MethodPost, "/posts", p.tokens.AccessToken(), input, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update replaces the full record addressed by post.Slug. Partial updates
// are not supported; merge client-side first.
func (p *Posts) Update(ctx context.Context, post Post) (*Post, error) {
	var updated Post
	err := p.gw.Call(ctx, http.MethodPut, "/posts/"+url.PathEscape(post.Slug), p.tokens.AccessToken(), post, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateByID replaces the full record addressed by post.ID, for callers that
// need to change the slug itself.
func (p *Posts) UpdateByID(ctx context.Context, post Post) (*Post, error) {
	var updated Post
	err := p.gw.Call(ctx, http.MethodPut, "/posts/id/"+strconv.FormatInt(post.ID, 10), p.tokens.AccessToken(), post, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the post addressed by slug. A 404 is treated as success:
// the post is gone either way, so retries never fail on their own earlier
// success.
func (p *Posts) Delete(ctx context.Context, slug string) error {
	err := p.gw.Call(ctx, http.MethodDelete, "/posts/"+url.PathEscape(slug), p.tokens.AccessToken(), nil, nil)
	if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

// Search asks the backend for posts matching query and re-checks both the
// visibility scoping and the substring match locally, so the client never
// depends on the server performing either.
func (p *Posts) Search(ctx context.Context, query string, role Role) ([]Post, error) {
	params := url.Values{"q": []string{query}}
	if role != "" && role != RoleAnonymous {
		params.Set("userType", string(role))
	}

	var raw json.RawMessage
	if err := p.gw.Call(ctx, http.MethodGet, "/posts/search?"+params.Encode(), "", nil, &raw); err != nil {
		return nil, err
	}

	posts := filterVisible(decodePostList(raw), role)
	matched := posts[:0]
	for _, post := range posts {
		if postMatches(post, query) {
			matched = append(matched, post)
		}
	}
	return matched, nil
}

func roleQuery(role Role) string {
	if role == "" || role == RoleAnonymous {
		return ""
	}
	return "userType=" + url.QueryEscape(string(role))
}

// decodePostList coerces the response to a list: null, a bare object, or
// malformed JSON all become an empty slice rather than an error.
func decodePostList(raw json.RawMessage) []Post {
	posts := []Post{}
	if len(raw) == 0 {
		return posts
	}
	if err := json.Unmarshal(raw, &posts); err != nil {
		return []Post{}
	}
	return posts
}

func filterVisible(posts []Post, role Role) []Post {
	visible := posts[:0]
	for _, p := range posts {
		if CanView(p.Visibility, role) {
			visible = append(visible, p)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].PublishedAt.After(visible[j].PublishedAt)
	})
	return visible
}

func postMatches(p Post, query string) bool {
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

func validateCreatePost(in CreatePost) error {
	var missing []string
	for field, value := range map[string]string{
		"title":    in.Title,
		"excerpt":  in.Excerpt,
		"content":  in.Content,
		"author":   in.Author,
		"category": in.Category,
		"readTime": in.ReadTime,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &GatewayError{Kind: KindValidation, Message: "missing required fields: " + strings.Join(missing, ", ")}
	}
	if !domain.ValidSlug(in.Slug) {
		return &GatewayError{Kind: KindValidation, Message: "slug must contain only lowercase letters, numbers, and hyphens"}
	}
	if !domain.ValidVisibility(domain.Visibility(in.Visibility)) {
		return &GatewayError{Kind: KindValidation, Message: "valid visibility level is required"}
	}
	if !domain.ValidAuthorType(domain.AuthorType(in.AuthorType)) {
		return &GatewayError{Kind: KindValidation, Message: "valid author type is required"}
	}
	return nil
}
