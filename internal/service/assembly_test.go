package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/family-travel-blog/internal/model"
)

func at(sec int) time.Time {
	return time.Date(2025, 7, 1, 12, 0, sec, 0, time.UTC)
}

func TestAssemble_MergesAcrossTypes(t *testing.T) {
	// Photos at display order 2, 0, 1 and one text block at 1.5: the
	// sequence must be strictly ascending by display order regardless
	// of type.
	photos := []model.Photo{
		{ID: 10, DisplayOrder: 2, URL: "a.jpg", CreatedAt: at(1)},
		{ID: 11, DisplayOrder: 0, URL: "b.jpg", CreatedAt: at(2)},
		{ID: 12, DisplayOrder: 1, URL: "c.jpg", CreatedAt: at(3)},
	}
	texts := []model.TextBlock{
		{ID: 20, DisplayOrder: 1.5, Content: "unterwegs", CreatedAt: at(4)},
	}

	seq := Assemble(photos, nil, texts)
	require.Len(t, seq, 4)

	assert.Equal(t, []uint64{11, 12, 20, 10}, idsOf(seq))
	assert.Equal(t, []string{"photo", "photo", "text", "photo"}, typesOf(seq))
	for i := 1; i < len(seq); i++ {
		assert.LessOrEqual(t, seq[i-1].DisplayOrder, seq[i].DisplayOrder)
	}
}

func TestAssemble_TieBreakByCreationTime(t *testing.T) {
	// Equal display order: stable relative order by creation time,
	// whatever the type.
	photos := []model.Photo{{ID: 1, DisplayOrder: 1, CreatedAt: at(30)}}
	videos := []model.Video{{ID: 2, DisplayOrder: 1, CreatedAt: at(10)}}
	texts := []model.TextBlock{{ID: 3, DisplayOrder: 1, CreatedAt: at(20)}}

	seq := Assemble(photos, videos, texts)
	require.Len(t, seq, 3)
	assert.Equal(t, []uint64{2, 3, 1}, idsOf(seq))
}

func TestAssemble_Deterministic(t *testing.T) {
	photos := []model.Photo{
		{ID: 1, DisplayOrder: 0.5, CreatedAt: at(1)},
		{ID: 2, DisplayOrder: 0.5, CreatedAt: at(1)}, // full tie, falls back to id
	}
	videos := []model.Video{{ID: 3, DisplayOrder: 0, CreatedAt: at(2)}}

	first := Assemble(photos, videos, nil)
	second := Assemble(photos, videos, nil)
	assert.Equal(t, idsOf(first), idsOf(second))
	assert.Equal(t, []uint64{3, 1, 2}, idsOf(first))
}

func TestAssemble_DoesNotMutateInputs(t *testing.T) {
	photos := []model.Photo{
		{ID: 2, DisplayOrder: 5, CreatedAt: at(1)},
		{ID: 1, DisplayOrder: 3, CreatedAt: at(2)},
	}
	Assemble(photos, nil, nil)
	assert.Equal(t, uint64(2), photos[0].ID, "input slice order must be preserved")
	assert.Equal(t, uint64(1), photos[1].ID)
}

func TestAssemble_BrokenMediaPassesThrough(t *testing.T) {
	// A dangling URL is a rendering concern; assembly keeps the item.
	photos := []model.Photo{{ID: 1, DisplayOrder: 0, URL: "https://gone.example/404.jpg", CreatedAt: at(1)}}
	seq := Assemble(photos, nil, nil)
	require.Len(t, seq, 1)
	assert.Equal(t, "https://gone.example/404.jpg", seq[0].Photo.URL)
}

func TestAssemble_Empty(t *testing.T) {
	assert.Empty(t, Assemble(nil, nil, nil))
}

func idsOf(seq []SequenceItem) []uint64 {
	out := make([]uint64, 0, len(seq))
	for _, it := range seq {
		out = append(out, it.ID)
	}
	return out
}

func typesOf(seq []SequenceItem) []string {
	out := make([]string, 0, len(seq))
	for _, it := range seq {
		out = append(out, it.Type)
	}
	return out
}
