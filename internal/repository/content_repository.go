// Package repository: data access for the three content tables of a
// post (photos, videos, text_blocks). All rows are reached through the
// owning post; ownership is enforced by joining on posts.author_id so
// a contributor can never touch content under someone else's post.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/family-travel-blog/internal/model"
)

// ReorderItem names one content row in a caller-supplied target
// ordering. Type is one of model.ContentTypePhoto/Video/Text.
type ReorderItem struct {
	ID   uint64
	Type string
}

// ContentRepo manages persistence for photos, videos and text blocks.
type ContentRepo struct {
	db *sql.DB
}

// NewContentRepo constructs a ContentRepo with the given DB handle.
func NewContentRepo(db *sql.DB) *ContentRepo {
	return &ContentRepo{db: db}
}

// ---- loading ----

// ListByPost loads all three content collections of a post. Rows come
// back ordered by display_order with created_at and id as tie breakers,
// matching the assembly ordering so repeated loads are deterministic.
func (r *ContentRepo) ListByPost(ctx context.Context, postID uint64) ([]model.Photo, []model.Video, []model.TextBlock, error) {
	photos, err := r.listPhotos(ctx, postID)
	if err != nil {
		return nil, nil, nil, err
	}
	videos, err := r.listVideos(ctx, postID)
	if err != nil {
		return nil, nil, nil, err
	}
	texts, err := r.listTextBlocks(ctx, postID)
	if err != nil {
		return nil, nil, nil, err
	}
	return photos, videos, texts, nil
}

func (r *ContentRepo) listPhotos(ctx context.Context, postID uint64) ([]model.Photo, error) {
	const q = `SELECT id, post_id, display_order, url, caption, alt_text, created_at
               FROM photos WHERE post_id = ?
               ORDER BY display_order ASC, created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Photo
	for rows.Next() {
		var p model.Photo
		var caption, alt sql.NullString
		if err := rows.Scan(&p.ID, &p.PostID, &p.DisplayOrder, &p.URL, &caption, &alt, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Caption, p.AltText = caption.String, alt.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ContentRepo) listVideos(ctx context.Context, postID uint64) ([]model.Video, error) {
	const q = `SELECT id, post_id, display_order, url, caption, thumbnail, duration_secs, created_at
               FROM videos WHERE post_id = ?
               ORDER BY display_order ASC, created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Video
	for rows.Next() {
		var v model.Video
		var caption, thumb sql.NullString
		var dur sql.NullInt64
		if err := rows.Scan(&v.ID, &v.PostID, &v.DisplayOrder, &v.URL, &caption, &thumb, &dur, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Caption, v.Thumbnail = caption.String, thumb.String
		v.DurationSecs = uint32(dur.Int64)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *ContentRepo) listTextBlocks(ctx context.Context, postID uint64) ([]model.TextBlock, error) {
	const q = `SELECT id, post_id, display_order, content, created_at
               FROM text_blocks WHERE post_id = ?
               ORDER BY display_order ASC, created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.TextBlock
	for rows.Next() {
		var t model.TextBlock
		if err := rows.Scan(&t.ID, &t.PostID, &t.DisplayOrder, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ---- mutation ----

// CreatePhoto inserts a photo under the post and assigns the generated
// ID and created_at back to the struct.
func (r *ContentRepo) CreatePhoto(ctx context.Context, p *model.Photo) error {
	const q = `INSERT INTO photos (post_id, display_order, url, caption, alt_text) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.PostID, p.DisplayOrder, p.URL, nullable(p.Caption), nullable(p.AltText))
	if err != nil {
		return err
	}
	return r.reloadPhoto(ctx, res, p)
}

func (r *ContentRepo) reloadPhoto(ctx context.Context, res sql.Result, p *model.Photo) error {
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	var caption, alt sql.NullString
	const sel = `SELECT id, post_id, display_order, url, caption, alt_text, created_at FROM photos WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, p.ID).Scan(&p.ID, &p.PostID, &p.DisplayOrder, &p.URL, &caption, &alt, &p.CreatedAt); err != nil {
		return err
	}
	p.Caption, p.AltText = caption.String, alt.String
	return nil
}

// UpdatePhoto updates a photo's fields when the row lives under the
// given post. It returns ErrContentNotFound when no such row exists.
func (r *ContentRepo) UpdatePhoto(ctx context.Context, p *model.Photo) error {
	const q = `UPDATE photos SET display_order = ?, url = ?, caption = ?, alt_text = ?
               WHERE id = ? AND post_id = ?`
	res, err := r.db.ExecContext(ctx, q, p.DisplayOrder, p.URL, nullable(p.Caption), nullable(p.AltText), p.ID, p.PostID)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.db, res, `SELECT 1 FROM photos WHERE id = ? AND post_id = ?`, p.ID, p.PostID)
}

// DeletePhoto removes a photo under the post.
func (r *ContentRepo) DeletePhoto(ctx context.Context, id, postID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ? AND post_id = ?`, id, postID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContentNotFound
	}
	return nil
}

// CreateVideo inserts a video under the post.
func (r *ContentRepo) CreateVideo(ctx context.Context, v *model.Video) error {
	const q = `INSERT INTO videos (post_id, display_order, url, caption, thumbnail, duration_secs) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.PostID, v.DisplayOrder, v.URL, nullable(v.Caption), nullable(v.Thumbnail), v.DurationSecs)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	var caption, thumb sql.NullString
	var dur sql.NullInt64
	const sel = `SELECT id, post_id, display_order, url, caption, thumbnail, duration_secs, created_at FROM videos WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, v.ID).Scan(&v.ID, &v.PostID, &v.DisplayOrder, &v.URL, &caption, &thumb, &dur, &v.CreatedAt); err != nil {
		return err
	}
	v.Caption, v.Thumbnail = caption.String, thumb.String
	v.DurationSecs = uint32(dur.Int64)
	return nil
}

// UpdateVideo updates a video's fields under the given post.
func (r *ContentRepo) UpdateVideo(ctx context.Context, v *model.Video) error {
	const q = `UPDATE videos SET display_order = ?, url = ?, caption = ?, thumbnail = ?, duration_secs = ?
               WHERE id = ? AND post_id = ?`
	res, err := r.db.ExecContext(ctx, q, v.DisplayOrder, v.URL, nullable(v.Caption), nullable(v.Thumbnail), v.DurationSecs, v.ID, v.PostID)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.db, res, `SELECT 1 FROM videos WHERE id = ? AND post_id = ?`, v.ID, v.PostID)
}

// DeleteVideo removes a video under the post.
func (r *ContentRepo) DeleteVideo(ctx context.Context, id, postID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ? AND post_id = ?`, id, postID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContentNotFound
	}
	return nil
}

// CreateTextBlock inserts a text block under the post.
func (r *ContentRepo) CreateTextBlock(ctx context.Context, t *model.TextBlock) error {
	const q = `INSERT INTO text_blocks (post_id, display_order, content) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.PostID, t.DisplayOrder, t.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT id, post_id, display_order, content, created_at FROM text_blocks WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.ID, &t.PostID, &t.DisplayOrder, &t.Content, &t.CreatedAt)
}

// UpdateTextBlock updates a text block under the given post.
func (r *ContentRepo) UpdateTextBlock(ctx context.Context, t *model.TextBlock) error {
	const q = `UPDATE text_blocks SET display_order = ?, content = ? WHERE id = ? AND post_id = ?`
	res, err := r.db.ExecContext(ctx, q, t.DisplayOrder, t.Content, t.ID, t.PostID)
	if err != nil {
		return err
	}
	return requireRow(ctx, r.db, res, `SELECT 1 FROM text_blocks WHERE id = ? AND post_id = ?`, t.ID, t.PostID)
}

// DeleteTextBlock removes a text block under the post.
func (r *ContentRepo) DeleteTextBlock(ctx context.Context, id, postID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM text_blocks WHERE id = ? AND post_id = ?`, id, postID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrContentNotFound
	}
	return nil
}

// requireRow distinguishes "row missing" from "update was a no-op".
// RowsAffected is 0 both when the WHERE clause matched nothing and
// when the new values equal the old ones, so a follow-up existence
// probe is needed before reporting ErrContentNotFound.
func requireRow(ctx context.Context, db *sql.DB, res sql.Result, probe string, args ...any) error {
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := db.QueryRowContext(ctx, probe, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrContentNotFound
		}
		return err
	}
	return nil // row exists, values were identical
}

// ---- reorder ----

var reorderTables = map[string]string{
	model.ContentTypePhoto: "photos",
	model.ContentTypeVideo: "videos",
	model.ContentTypeText:  "text_blocks",
}

// Reorder applies a caller-supplied target ordering to a post's
// content. Each named item gets display_order = its index in the list,
// so the caller's relative order is preserved exactly and applying the
// same list twice assigns the same values twice. The whole operation
// runs in one transaction: if the list names an unknown item, names an
// item under a different post, or fails to cover exactly the rows that
// exist, everything rolls back and the prior ordering survives intact.
func (r *ContentRepo) Reorder(ctx context.Context, postID uint64, items []ReorderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	// The list must cover the post's content exactly; a partial list
	// would leave unnamed rows with stale order values interleaved.
	var total int
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM photos WHERE post_id = ?)
              + (SELECT COUNT(*) FROM videos WHERE post_id = ?)
              + (SELECT COUNT(*) FROM text_blocks WHERE post_id = ?)`,
		postID, postID, postID).Scan(&total)
	if err != nil {
		return err
	}
	if total != len(items) {
		err = ErrReorderMismatch
		return err
	}

	seen := make(map[ReorderItem]bool, len(items))
	for idx, it := range items {
		table, ok := reorderTables[it.Type]
		if !ok || seen[it] {
			err = ErrReorderMismatch
			return err
		}
		seen[it] = true
		if _, err = tx.ExecContext(ctx,
			`UPDATE `+table+` SET display_order = ? WHERE id = ? AND post_id = ?`,
			float64(idx), it.ID, postID); err != nil {
			return err
		}
		// RowsAffected would be 0 both for a missing row and for a row
		// that already holds this order value (idempotent re-apply), so
		// probe existence instead of trusting the count.
		var one int
		if scanErr := tx.QueryRowContext(ctx,
			`SELECT 1 FROM `+table+` WHERE id = ? AND post_id = ?`, it.ID, postID).Scan(&one); scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				err = ErrContentNotFound
				return err
			}
			err = scanErr
			return err
		}
	}
	return nil
}

// CountByPost returns the total number of content rows under a post.
// Used by tests to verify the cascade delete.
func (r *ContentRepo) CountByPost(ctx context.Context, postID uint64) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM photos WHERE post_id = ?)
              + (SELECT COUNT(*) FROM videos WHERE post_id = ?)
              + (SELECT COUNT(*) FROM text_blocks WHERE post_id = ?)`,
		postID, postID, postID).Scan(&total)
	return total, err
}
