package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/gosimple/slug"
)

// Visibility is the coarse-grained access tier on a post.
type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityInternal   Visibility = "internal"
	VisibilityRestricted Visibility = "restricted"
)

// AuthorType classifies the attribution badge shown on a post.
type AuthorType string

const (
	AuthorGeneral AuthorType = "general"
	AuthorMD      AuthorType = "md"
	AuthorNotice  AuthorType = "notice"
)

var ErrPostNotFound = errors.New("post not found")
var ErrSlugTaken = errors.New("slug already in use")
var ErrInvalidPost = errors.New("invalid post data")
var ErrForbidden = errors.New("access forbidden")

// ValidVisibility reports whether v is one of the three known tiers.
func ValidVisibility(v Visibility) bool {
	switch v {
	case VisibilityPublic, VisibilityInternal, VisibilityRestricted:
		return true
	}
	return false
}

// ValidAuthorType reports whether a is a known attribution type.
func ValidAuthorType(a AuthorType) bool {
	switch a {
	case AuthorGeneral, AuthorMD, AuthorNotice:
		return true
	}
	return false
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidSlug reports whether s is a non-empty lowercase URL-safe slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify derives a URL-safe slug from a post title: lowercased, runs of
// non-alphanumerics collapsed into single hyphens, no leading or trailing
// hyphen.
func Slugify(title string) string {
	return slug.Make(title)
}

// Post is the core aggregate root. Slug is the stable external identifier
// (used in URLs); ID is the stable internal one.
type Post struct {
	ID          int64      `json:"id" bson:"_id"`
	Slug        string     `json:"slug" bson:"slug"`
	Title       string     `json:"title" bson:"title"`
	Excerpt     string     `json:"excerpt" bson:"excerpt"`
	Content     string     `json:"content" bson:"content"`
	Author      string     `json:"author" bson:"author"`
	AuthorType  AuthorType `json:"authorType" bson:"author_type"`
	Category    string     `json:"category" bson:"category"`
	Tags        []string   `json:"tags" bson:"tags"`
	PublishedAt time.Time  `json:"publishedAt" bson:"published_at"`
	ReadTime    string     `json:"readTime" bson:"read_time"`
	Visibility  Visibility `json:"visibility" bson:"visibility"`
	Featured    bool       `json:"featured" bson:"featured"`
}
