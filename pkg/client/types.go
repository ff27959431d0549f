package client

import (
	"time"

	"github.com/parnasoft/blog-platform/internal/core/domain"
)

// Role mirrors the server's userType enum so SDK consumers never need the
// server's internal packages. The access rules themselves are not duplicated:
// the SDK converts to the shared domain types and consults the same rule
// table the server enforces.
type Role string

const (
	RoleAnonymous  Role = "anonymous"
	RoleInternal   Role = "internal"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Visibility mirrors the server's post visibility tiers.
type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityInternal   Visibility = "internal"
	VisibilityRestricted Visibility = "restricted"
)

// AuthorType mirrors the server's attribution enum.
type AuthorType string

const (
	AuthorGeneral AuthorType = "general"
	AuthorMD      AuthorType = "md"
	AuthorNotice  AuthorType = "notice"
)

// Post is the wire representation of a blog post.
type Post struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	AuthorType  AuthorType `json:"authorType"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	PublishedAt time.Time  `json:"publishedAt"`
	ReadTime    string     `json:"readTime"`
	Visibility  Visibility `json:"visibility"`
	Featured    bool       `json:"featured"`
}

// CreatePost carries the caller-supplied fields for a new post. The server
// assigns id and publishedAt; Slug is derived from Title when empty.
type CreatePost struct {
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Excerpt    string     `json:"excerpt"`
	Content    string     `json:"content"`
	Author     string     `json:"author"`
	AuthorType AuthorType `json:"authorType"`
	Category   string     `json:"category"`
	Tags       []string   `json:"tags"`
	ReadTime   string     `json:"readTime"`
	Visibility Visibility `json:"visibility"`
	Featured   bool       `json:"featured"`
}

// User is the wire representation of an account.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	UserType    Role       `json:"userType"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// CreateUser carries the fields for a new account. Password is checked
// against the platform policy before any network call.
type CreateUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	UserType Role   `json:"userType"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// UpdateUser is a partial account update; empty fields are left unchanged
// and an empty Password means "no change".
type UpdateUser struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	UserType Role   `json:"userType,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
	Password string `json:"password,omitempty"`
}

// CanView reports whether a caller with the given role may view a post with
// the given visibility. It consults the same rule table the server enforces.
func CanView(v Visibility, r Role) bool {
	return domain.CanView(domain.Visibility(v), domain.Role(r))
}

// Slugify derives a URL-safe slug from a title the same way the server does.
func Slugify(title string) string {
	return domain.Slugify(title)
}
