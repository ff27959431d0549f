package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parnasoft/blog-platform/internal/core/domain"
	"github.com/parnasoft/blog-platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	bySlug map[string]*domain.Post
	nextID int64

	// When set, List ignores the visibility filter and returns every stored
	// post. Simulates a backend that fails to scope results.
	ignoreVisibilityFilter bool

	listErr    error
	replaceErr error
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{bySlug: make(map[string]*domain.Post)}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	if _, exists := r.bySlug[p.Slug]; exists {
		return domain.ErrSlugTaken
	}
	clone := *p
	r.bySlug[p.Slug] = &clone
	return nil
}

func (r *stubPostRepo) FindBySlug(_ context.Context, slug string) (*domain.Post, error) {
	p, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	for _, p := range r.bySlug {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

// List applies the same filters the real Mongo repo would use.
func (r *stubPostRepo) List(_ context.Context, f ports.ListPostsFilter) ([]*domain.Post, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}

	allowed := make(map[domain.Visibility]bool)
	for _, v := range f.Visibilities {
		allowed[v] = true
	}

	var matched []*domain.Post
	for _, p := range r.bySlug {
		if !r.ignoreVisibilityFilter && !allowed[p.Visibility] {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Featured != nil && p.Featured != *f.Featured {
			continue
		}
		if f.Search != "" && !postMatches(p, f.Search) {
			continue
		}
		clone := *p
		matched = append(matched, &clone)
	}
	return matched, nil
}

func (r *stubPostRepo) Update(_ context.Context, p *domain.Post) error {
	if _, ok := r.bySlug[p.Slug]; !ok {
		return domain.ErrPostNotFound
	}
	clone := *p
	r.bySlug[p.Slug] = &clone
	return nil
}

// Replace is all-or-nothing like the ReplaceOne it stands in for: on any
// failure the stored record is untouched.
func (r *stubPostRepo) Replace(_ context.Context, p *domain.Post) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}

	oldSlug, found := "", false
	for slug, stored := range r.bySlug {
		if stored.ID == p.ID {
			oldSlug, found = slug, true
			break
		}
	}
	if !found {
		return domain.ErrPostNotFound
	}
	if other, ok := r.bySlug[p.Slug]; ok && other.ID != p.ID {
		return domain.ErrSlugTaken
	}

	delete(r.bySlug, oldSlug)
	clone := *p
	r.bySlug[p.Slug] = &clone
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, slug string) error {
	if _, ok := r.bySlug[slug]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.bySlug, slug)
	return nil
}

func (r *stubPostRepo) NextID(_ context.Context) (int64, error) {
	r.nextID++
	return r.nextID, nil
}

func (r *stubPostRepo) CountByTier(_ context.Context) (*ports.PostStats, error) {
	stats := &ports.PostStats{
		ByTier:   make(map[domain.Visibility]int64),
		ByAuthor: make(map[domain.AuthorType]int64),
	}
	for _, p := range r.bySlug {
		stats.Total++
		stats.ByTier[p.Visibility]++
		stats.ByAuthor[p.AuthorType]++
		if p.Featured {
			stats.Featured++
		}
	}
	return stats, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func postInput(title string, visibility domain.Visibility) ports.CreatePostInput {
	return ports.CreatePostInput{
		Title:      title,
		Excerpt:    "An excerpt",
		Content:    "Body content for " + title,
		Author:     "Ana",
		AuthorType: domain.AuthorGeneral,
		Category:   "engineering",
		Tags:       []string{"go"},
		ReadTime:   "4 min",
		Visibility: visibility,
	}
}

func seedPosts(t *testing.T, svc *PostService) {
	t.Helper()
	for _, in := range []ports.CreatePostInput{
		postInput("Public One", domain.VisibilityPublic),
		postInput("Internal One", domain.VisibilityInternal),
		postInput("Restricted One", domain.VisibilityRestricted),
	} {
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestPostService_Create_DerivesSlugFromTitle(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	post, err := svc.Create(context.Background(), postInput("Hello World!", domain.VisibilityPublic))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Errorf("expected derived slug %q, got %q", "hello-world", post.Slug)
	}
	if post.ID == 0 {
		t.Error("expected a non-zero assigned id")
	}
	if post.PublishedAt.IsZero() {
		t.Error("PublishedAt must be stamped on create")
	}
}

func TestPostService_Create_ExplicitSlugWins(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	in := postInput("Hello World!", domain.VisibilityPublic)
	in.Slug = "custom-slug"

	post, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Slug != "custom-slug" {
		t.Errorf("expected %q, got %q", "custom-slug", post.Slug)
	}
}

func TestPostService_Create_RejectsInvalidInput(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	cases := []struct {
		name   string
		mutate func(*ports.CreatePostInput)
	}{
		{"empty title", func(in *ports.CreatePostInput) { in.Title = "" }},
		{"empty content", func(in *ports.CreatePostInput) { in.Content = "" }},
		{"bad slug charset", func(in *ports.CreatePostInput) { in.Slug = "Has Spaces" }},
		{"unknown visibility", func(in *ports.CreatePostInput) { in.Visibility = "secret" }},
		{"unknown author type", func(in *ports.CreatePostInput) { in.AuthorType = "editorial" }},
	}

	for _, tc := range cases {
		in := postInput("Valid Title", domain.VisibilityPublic)
		tc.mutate(&in)
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, domain.ErrInvalidPost) {
			t.Errorf("%s: expected ErrInvalidPost, got %v", tc.name, err)
		}
	}
}

func TestPostService_Create_DuplicateSlug(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	if _, err := svc.Create(context.Background(), postInput("Same Title", domain.VisibilityPublic)); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), postInput("Same Title", domain.VisibilityPublic)); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Visibility scoping
// ---------------------------------------------------------------------------

func TestPostService_List_ScopesByRole(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)
	seedPosts(t, svc)

	cases := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleAnonymous, 1},
		{domain.RoleInternal, 2},
		{domain.RoleAdmin, 3},
		{domain.RoleSuperAdmin, 3},
	}

	for _, tc := range cases {
		posts, err := svc.List(context.Background(), ports.ListPostsInput{Role: tc.role})
		if err != nil {
			t.Fatalf("List(%s) failed: %v", tc.role, err)
		}
		if len(posts) != tc.want {
			t.Errorf("role %q: expected %d posts, got %d", tc.role, tc.want, len(posts))
		}
		for _, p := range posts {
			if !domain.CanView(p.Visibility, tc.role) {
				t.Errorf("role %q received post with visibility %q", tc.role, p.Visibility)
			}
		}
	}
}

func TestPostService_List_RefiltersUnscopedRepoResults(t *testing.T) {
	repo := newStubPostRepo()
	repo.ignoreVisibilityFilter = true
	svc := NewPostService(repo, discardLogger)
	seedPosts(t, svc)

	posts, err := svc.List(context.Background(), ports.ListPostsInput{Role: domain.RoleAnonymous})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, p := range posts {
		if p.Visibility != domain.VisibilityPublic {
			t.Errorf("anonymous caller received %q post %q even though the repo leaked it", p.Visibility, p.Slug)
		}
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 public post, got %d", len(posts))
	}
}

func TestPostService_List_SortsNewestFirst(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"oldest", "middle", "newest"} {
		repo.bySlug[slug] = &domain.Post{
			ID:          int64(i + 1),
			Slug:        slug,
			Visibility:  domain.VisibilityPublic,
			PublishedAt: base.Add(time.Duration(i) * 24 * time.Hour),
		}
	}

	posts, err := svc.List(context.Background(), ports.ListPostsInput{Role: domain.RoleAnonymous})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	for i, want := range []string{"newest", "middle", "oldest"} {
		if posts[i].Slug != want {
			t.Errorf("position %d: expected %q, got %q", i, want, posts[i].Slug)
		}
	}
}

func TestPostService_GetBySlug_HidesUnviewable(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)
	seedPosts(t, svc)

	// An out-of-scope post and a missing one look identical to the caller.
	if _, err := svc.GetBySlug(context.Background(), "restricted-one", domain.RoleInternal); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound for out-of-scope post, got %v", err)
	}
	if _, err := svc.GetBySlug(context.Background(), "no-such-post", domain.RoleInternal); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound for missing post, got %v", err)
	}

	post, err := svc.GetBySlug(context.Background(), "restricted-one", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("admin fetch failed: %v", err)
	}
	if post.Slug != "restricted-one" {
		t.Errorf("unexpected post %q", post.Slug)
	}
}

// ---------------------------------------------------------------------------
// Update and delete
// ---------------------------------------------------------------------------

func TestPostService_Update_PreservesIdentityAndPublishedAt(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	created, err := svc.Create(context.Background(), postInput("Original Title", domain.VisibilityPublic))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	in := postInput("Changed Title", domain.VisibilityInternal)
	updated, err := svc.Update(context.Background(), created.Slug, in)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Slug != created.Slug {
		t.Errorf("slug must be immutable on the slug-addressed path: got %q", updated.Slug)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed on update: %d -> %d", created.ID, updated.ID)
	}
	if !updated.PublishedAt.Equal(created.PublishedAt) {
		t.Error("PublishedAt must survive updates")
	}
	if updated.Title != "Changed Title" || updated.Visibility != domain.VisibilityInternal {
		t.Error("updated fields were not applied")
	}
}

func TestPostService_Update_Idempotent(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	created, _ := svc.Create(context.Background(), postInput("A Post", domain.VisibilityPublic))

	in := postInput("A Post Revised", domain.VisibilityPublic)
	first, err := svc.Update(context.Background(), created.Slug, in)
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	second, err := svc.Update(context.Background(), created.Slug, in)
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if !postsEquivalent(first, second) {
		t.Error("repeating an identical update must not change the result")
	}
	if len(repo.bySlug) != 1 {
		t.Errorf("expected 1 stored post, got %d", len(repo.bySlug))
	}
}

func TestPostService_UpdateByID_ChangesSlug(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	created, _ := svc.Create(context.Background(), postInput("Movable Post", domain.VisibilityPublic))

	in := postInput("Movable Post", domain.VisibilityPublic)
	in.Slug = "new-address"
	updated, err := svc.UpdateByID(context.Background(), created.ID, in)
	if err != nil {
		t.Fatalf("UpdateByID failed: %v", err)
	}
	if updated.Slug != "new-address" {
		t.Errorf("expected slug %q, got %q", "new-address", updated.Slug)
	}
	if _, ok := repo.bySlug[created.Slug]; ok {
		t.Error("old slug must be released when the slug changes")
	}
	if _, ok := repo.bySlug["new-address"]; !ok {
		t.Error("post not stored under new slug")
	}
}

func TestPostService_UpdateByID_RejectsTakenSlug(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	first, _ := svc.Create(context.Background(), postInput("First Post", domain.VisibilityPublic))
	second, _ := svc.Create(context.Background(), postInput("Second Post", domain.VisibilityPublic))

	in := postInput("Second Post", domain.VisibilityPublic)
	in.Slug = first.Slug
	if _, err := svc.UpdateByID(context.Background(), second.ID, in); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}

	// The rejected rename must leave the post intact under both addresses.
	if _, err := svc.GetByID(context.Background(), second.ID, domain.RoleSuperAdmin); err != nil {
		t.Errorf("post no longer resolvable by id after rejected rename: %v", err)
	}
	if _, err := svc.GetBySlug(context.Background(), second.Slug, domain.RoleSuperAdmin); err != nil {
		t.Errorf("post no longer resolvable by slug after rejected rename: %v", err)
	}
}

func TestPostService_UpdateByID_FailedRenameKeepsPost(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	created, err := svc.Create(context.Background(), postInput("Sticky Post", domain.VisibilityPublic))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	repo.replaceErr = errors.New("connection reset")

	in := postInput("Sticky Post", domain.VisibilityPublic)
	in.Slug = "new-address"
	if _, err := svc.UpdateByID(context.Background(), created.ID, in); err == nil {
		t.Fatal("expected the transient failure to surface")
	}

	repo.replaceErr = nil
	got, err := svc.GetByID(context.Background(), created.ID, domain.RoleSuperAdmin)
	if err != nil {
		t.Fatalf("post lost after failed rename: %v", err)
	}
	if got.Slug != created.Slug {
		t.Errorf("post moved despite the failed rename: slug %q", got.Slug)
	}
	if _, err := svc.GetBySlug(context.Background(), created.Slug, domain.RoleSuperAdmin); err != nil {
		t.Errorf("post not resolvable under its original slug: %v", err)
	}
}

func TestPostService_Delete_ThenGetIsNotFound(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	created, _ := svc.Create(context.Background(), postInput("Doomed Post", domain.VisibilityPublic))

	if err := svc.Delete(context.Background(), created.Slug); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetBySlug(context.Background(), created.Slug, domain.RoleSuperAdmin); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound after delete, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Search and stats
// ---------------------------------------------------------------------------

func TestPostService_Search_MatchesAndScopes(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)

	pub := postInput("Kubernetes Migration", domain.VisibilityPublic)
	pub.Tags = []string{"infra"}
	internal := postInput("Kubernetes Secrets Handling", domain.VisibilityInternal)
	other := postInput("Quarterly Report", domain.VisibilityPublic)

	for _, in := range []ports.CreatePostInput{pub, internal, other} {
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}

	posts, err := svc.Search(context.Background(), "kubernetes", domain.RoleAnonymous)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("anonymous search: expected 1 match, got %d", len(posts))
	}
	if !strings.Contains(posts[0].Title, "Migration") {
		t.Errorf("unexpected match %q", posts[0].Title)
	}

	posts, err = svc.Search(context.Background(), "kubernetes", domain.RoleInternal)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("internal search: expected 2 matches, got %d", len(posts))
	}
}

func TestPostService_Stats(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, discardLogger)
	seedPosts(t, svc)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("expected total 3, got %d", stats.Total)
	}
	if stats.ByTier[domain.VisibilityPublic] != 1 || stats.ByTier[domain.VisibilityInternal] != 1 || stats.ByTier[domain.VisibilityRestricted] != 1 {
		t.Errorf("unexpected tier breakdown: %v", stats.ByTier)
	}
}

func postsEquivalent(a, b *domain.Post) bool {
	if a.ID != b.ID || a.Slug != b.Slug || a.Title != b.Title || a.Visibility != b.Visibility {
		return false
	}
	return a.PublishedAt.Equal(b.PublishedAt)
}
