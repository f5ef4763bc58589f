package model

import "time"

// Content item type tags used in reorder requests and assembled
// sequences.  They match the table a row lives in.
const (
	ContentTypePhoto = "photo"
	ContentTypeVideo = "video"
	ContentTypeText  = "text"
)

// Photo represents a row in the `photos` table.  DisplayOrder is a
// float so an item can be slotted between two neighbours without
// renumbering the whole post.
type Photo struct {
	ID           uint64    // photos.id
	PostID       uint64    // photos.post_id
	DisplayOrder float64   // photos.display_order
	URL          string    // photos.url
	Caption      string    // photos.caption
	AltText      string    // photos.alt_text
	CreatedAt    time.Time // photos.created_at
}

// Video represents a row in the `videos` table.
type Video struct {
	ID           uint64    // videos.id
	PostID       uint64    // videos.post_id
	DisplayOrder float64   // videos.display_order
	URL          string    // videos.url
	Caption      string    // videos.caption
	Thumbnail    string    // videos.thumbnail
	DurationSecs uint32    // videos.duration_secs
	CreatedAt    time.Time // videos.created_at
}

// TextBlock represents a row in the `text_blocks` table.
type TextBlock struct {
	ID           uint64    // text_blocks.id
	PostID       uint64    // text_blocks.post_id
	DisplayOrder float64   // text_blocks.display_order
	Content      string    // text_blocks.content
	CreatedAt    time.Time // text_blocks.created_at
}
