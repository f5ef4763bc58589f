// Package service holds logic that sits between handlers and
// repositories. This file implements post assembly: merging a post's
// photo, video and text collections into the single ordered sequence
// the front end renders.
package service

import (
	"sort"

	"github.com/iliyamo/family-travel-blog/internal/model"
)

// SequenceItem is one entry of the assembled rendering sequence. Type
// tags which of the three pointers is set; exactly one is non-nil.
type SequenceItem struct {
	Type         string           `json:"type"`
	ID           uint64           `json:"id"`
	DisplayOrder float64          `json:"display_order"`
	Photo        *model.Photo     `json:"photo,omitempty"`
	Video        *model.Video     `json:"video,omitempty"`
	Text         *model.TextBlock `json:"text,omitempty"`

	createdAtUnix int64 // tie breaker, not serialized
}

// Assemble merges the three content collections of a post into one
// sequence sorted by display_order ascending. Items with equal
// display_order keep a stable relative order by creation time (then id,
// then type name), so repeated calls over unchanged data always yield
// the identical sequence. Input slices are never mutated; media URLs
// pass through untouched whether or not the remote asset still exists.
func Assemble(photos []model.Photo, videos []model.Video, texts []model.TextBlock) []SequenceItem {
	seq := make([]SequenceItem, 0, len(photos)+len(videos)+len(texts))
	for i := range photos {
		p := photos[i]
		seq = append(seq, SequenceItem{
			Type: model.ContentTypePhoto, ID: p.ID, DisplayOrder: p.DisplayOrder,
			Photo: &p, createdAtUnix: p.CreatedAt.UnixNano(),
		})
	}
	for i := range videos {
		v := videos[i]
		seq = append(seq, SequenceItem{
			Type: model.ContentTypeVideo, ID: v.ID, DisplayOrder: v.DisplayOrder,
			Video: &v, createdAtUnix: v.CreatedAt.UnixNano(),
		})
	}
	for i := range texts {
		t := texts[i]
		seq = append(seq, SequenceItem{
			Type: model.ContentTypeText, ID: t.ID, DisplayOrder: t.DisplayOrder,
			Text: &t, createdAtUnix: t.CreatedAt.UnixNano(),
		})
	}
	sort.SliceStable(seq, func(i, j int) bool {
		a, b := seq[i], seq[j]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		if a.createdAtUnix != b.createdAtUnix {
			return a.createdAtUnix < b.createdAtUnix
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Type < b.Type
	})
	return seq
}
