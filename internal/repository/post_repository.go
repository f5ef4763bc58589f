// Package repository contains data access logic for blog domain operations.
// This file defines repository methods for posts. A Post is the unit of
// publication; its photos, videos and text blocks live in sibling tables
// managed by ContentRepo. Listing queries order posts reverse-
// chronologically by COALESCE(published_at, created_at) with id ascending
// as the tie breaker, so pagination stays stable under concurrent inserts.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel checks
	"strconv"      // strconv distinguishes id from slug lookups
	"strings"      // strings for slug normalization and duplicate detection

	"github.com/iliyamo/family-travel-blog/internal/model"
)

// postColumns is the shared SELECT column list for posts.
const postColumns = `id, slug, title, description, cover_image, template_id, author_id, status, published_at, created_at, updated_at`

// PostRepo manages persistence for posts.
type PostRepo struct {
	db *sql.DB
}

// NewPostRepo constructs a PostRepo with the given DB handle.
func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.  Use this method to
// obtain a *sql.DB when you need fine-grained transaction control.
func (r *PostRepo) DB() *sql.DB {
	return r.db
}

func scanPost(row interface{ Scan(...any) error }, p *model.Post) error {
	var desc, cover sql.NullString
	var pub sql.NullTime
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &desc, &cover, &p.TemplateID,
		&p.AuthorID, &p.Status, &pub, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	p.Description = desc.String
	p.CoverImage = cover.String
	if pub.Valid {
		t := pub.Time
		p.PublishedAt = &t
	} else {
		p.PublishedAt = nil
	}
	return nil
}

// Create inserts a new draft post and assigns the generated ID back to
// the post struct.  The caller must provide slug, title, template_id
// and author_id; status defaults to draft.  ErrSlugExists is returned
// on a unique-key collision.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	p.Slug = strings.ToLower(strings.TrimSpace(p.Slug))
	const q = `INSERT INTO posts (slug, title, description, cover_image, template_id, author_id, status)
               VALUES (?, ?, ?, ?, ?, ?, 'draft')`
	res, err := r.db.ExecContext(ctx, q, p.Slug, p.Title, nullable(p.Description), nullable(p.CoverImage), p.TemplateID, p.AuthorID)
	if err != nil {
		// MySQL duplicate-key error code is 1062.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSlugExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	// Fetch the freshly inserted row to populate default fields
	// (status, created_at, updated_at).
	const sel = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	return scanPost(r.db.QueryRowContext(ctx, sel, p.ID), p)
}

// GetByIDOrSlug retrieves a post either by its numeric ID or, when the
// argument is not a number, by its slug.  It returns ErrPostNotFound
// when no row matches.  Visibility (draft vs published, author checks)
// is decided by the caller; existence alone is not sensitive at this
// layer.
func (r *PostRepo) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Post, error) {
	var (
		q   string
		arg any
	)
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		q = `SELECT ` + postColumns + ` FROM posts WHERE id = ? LIMIT 1`
		arg = id
	} else {
		q = `SELECT ` + postColumns + ` FROM posts WHERE slug = ? LIMIT 1`
		arg = strings.ToLower(strings.TrimSpace(idOrSlug))
	}
	var p model.Post
	if err := scanPost(r.db.QueryRowContext(ctx, q, arg), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListPublished returns one page of published posts plus the total
// published count.  Drafts never appear here regardless of who asks.
// Ordering: newest first by publish time (creation time would only
// matter for drafts, which are excluded), ties broken by id ascending
// so repeated pagination never duplicates or skips a row.
func (r *PostRepo) ListPublished(ctx context.Context, limit, offset int) ([]model.Post, int, error) {
	const q = `SELECT ` + postColumns + ` FROM posts
               WHERE status = 'published'
               ORDER BY COALESCE(published_at, created_at) DESC, id ASC
               LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE status = 'published'`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByAuthor returns one page of the author's own posts, drafts
// included, plus the total count for that author.  This is the
// contributor management view; it never includes other authors' rows,
// so their drafts cannot leak through it.
func (r *PostRepo) ListByAuthor(ctx context.Context, author string, limit, offset int) ([]model.Post, int, error) {
	const q = `SELECT ` + postColumns + ` FROM posts
               WHERE author_id = ?
               ORDER BY COALESCE(published_at, created_at) DESC, id ASC
               LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, author, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = ?`, author).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	var out []model.Post
	for rows.Next() {
		var p model.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndAuthor updates a post's metadata if it belongs to the
// given author. It only performs the UPDATE when there is at least one
// differing field; otherwise it returns ErrNoChange. When the row or
// ownership doesn't match, it returns sql.ErrNoRows. The status column
// is not touched here; publishing has its own transition below.
func (r *PostRepo) UpdateByIDAndAuthor(ctx context.Context, p *model.Post, author string) error {
	const q = `UPDATE posts
               SET title = ?, description = ?, cover_image = ?, template_id = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND author_id = ?
                 AND (title <> ? OR NOT (description <=> ?) OR NOT (cover_image <=> ?) OR template_id <> ?)`
	res, err := r.db.ExecContext(ctx, q,
		p.Title, nullable(p.Description), nullable(p.CoverImage), p.TemplateID, // SET
		p.ID, author, // WHERE (record + owner)
		p.Title, nullable(p.Description), nullable(p.CoverImage), p.TemplateID, // only if at least one field differs
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	// Determine if it's "not found/ownership" or simply "no change".
	var one int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ? AND author_id = ? LIMIT 1`, p.ID, author).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows // record doesn't exist or belongs to another author
		}
		return err
	}
	return ErrNoChange // row exists but values are identical
}

// Publish transitions a draft to published and stamps published_at.
// The transition is one-way: publishing an already published post is a
// no-op reported as ErrNoChange, and there is no reverse transition.
// Ownership mismatches and missing rows surface as sql.ErrNoRows.
func (r *PostRepo) Publish(ctx context.Context, id uint64, author string) (*model.Post, error) {
	const q = `UPDATE posts
               SET status = 'published', published_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND author_id = ? AND status = 'draft'`
	res, err := r.db.ExecContext(ctx, q, id, author)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var status string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM posts WHERE id = ? AND author_id = ? LIMIT 1`, id, author).Scan(&status)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, sql.ErrNoRows
			}
			return nil, err
		}
		return nil, ErrNoChange // already published
	}
	var p model.Post
	const sel = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	if err := scanPost(r.db.QueryRowContext(ctx, sel, id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteByIDAndAuthor removes a post and all of its content rows
// provided the post belongs to the given author. The deletion occurs
// within a transaction so that no partial cleanup is ever observable:
// either the post and all its photos, videos and text blocks are gone,
// or nothing changed. The cascade is explicit rather than delegated to
// ON DELETE CASCADE so the invariant holds regardless of how the
// tables were created. If the post does not exist, ErrPostNotFound is
// returned. If it is owned by another user, ErrForbidden is returned.
func (r *PostRepo) DeleteByIDAndAuthor(ctx context.Context, id uint64, author string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// Ensure rollback or commit at the end
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	// Verify the post exists and belongs to the specified author
	var dbAuthor string
	err = tx.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = ?`, id).Scan(&dbAuthor)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrPostNotFound
			return err
		}
		return err
	}
	if dbAuthor != author {
		err = ErrForbidden
		return err
	}
	// Remove content rows first, then the post itself
	if _, err = tx.ExecContext(ctx, `DELETE FROM photos WHERE post_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM videos WHERE post_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM text_blocks WHERE post_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
