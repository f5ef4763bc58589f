// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a post owned by someone else,
// while ErrSlugExists signals that a post cannot be created because its
// slug is already taken.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// post they do not own. Handlers should translate this into an HTTP
// 403 response, or 404 where the post's existence must stay hidden.
var ErrForbidden = errors.New("forbidden")

// ErrPostNotFound indicates that a post was not located in the DB.
var ErrPostNotFound = errors.New("post not found")

// ErrContentNotFound indicates that a photo, video or text block row
// does not exist under the given post.
var ErrContentNotFound = errors.New("content item not found")

// ErrSlugExists is returned when inserting a post whose slug collides
// with an existing one. Handlers translate this to HTTP 400.
var ErrSlugExists = errors.New("slug already exists")

// ErrNoChange indicates the UPDATE attempted to set fields equal to
// current values.
var ErrNoChange = errors.New("no change")

// ErrReorderMismatch is returned when a reorder request does not name
// exactly the content items that exist under the post. The prior
// ordering is preserved in full.
var ErrReorderMismatch = errors.New("reorder list does not match post content")
