package model

import "time"

// Post statuses.  A post starts as a draft and becomes published via
// the publish endpoint.  Unpublishing (published back to draft) is not
// part of the current flow and no transition exists for it.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post represents a row in the `posts` table.  Every post is owned by
// exactly one contributor (AuthorID is their username) and carries an
// ordered set of photos, videos and text blocks in separate tables.
//
// Fields:
//  ID          – primary key identifier.
//  Slug        – unique URL-friendly identifier.
//  Title       – post title.
//  Description – optional teaser text.
//  CoverImage  – optional URL of the cover image.
//  TemplateID  – rendering template, validated against the registry.
//  AuthorID    – username of the owning contributor.
//  Status      – draft or published.
//  PublishedAt – set once when the post is published (nil for drafts).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Post struct {
	ID          uint64     // posts.id
	Slug        string     // posts.slug
	Title       string     // posts.title
	Description string     // posts.description
	CoverImage  string     // posts.cover_image
	TemplateID  string     // posts.template_id
	AuthorID    string     // posts.author_id
	Status      string     // posts.status
	PublishedAt *time.Time // posts.published_at (nullable)
	CreatedAt   time.Time  // posts.created_at
	UpdatedAt   time.Time  // posts.updated_at
}

// IsPublished reports whether the post is visible to readers.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// CanModify is the capability predicate gating every content mutation:
// only a contributor who authored the post may change it.  Role alone
// is never sufficient; a contributor that is not the author is denied.
func CanModify(username, role string, p *Post) bool {
	return role == RoleContributor && username == p.AuthorID
}
