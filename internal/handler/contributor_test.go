package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/family-travel-blog/internal/model"
	"github.com/iliyamo/family-travel-blog/internal/repository"
)

// Mutations on someone else's post hide or refuse depending on what
// the caller could already know: a foreign draft answers 404 (its
// existence is private), a foreign published post answers 403.
func TestUpdatePostOwnershipSplit(t *testing.T) {
	store := newMemStore()
	h := testContributorHandler(t, store)

	draft := seedPost(t, store, "secret-surprise", "mom")
	live := seedPost(t, store, "summer-recap", "mom")
	_, err := store.Publish(context.Background(), live.ID, "mom")
	require.NoError(t, err)

	body := `{"title":"Hijacked"}`

	c, rec := testRequest(http.MethodPatch, "/v1/posts/x", body, "dad", model.RoleContributor)
	withPostID(c, draft.ID)
	require.NoError(t, h.UpdatePost(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrNotFound)

	c, rec = testRequest(http.MethodPatch, "/v1/posts/x", body, "dad", model.RoleContributor)
	withPostID(c, live.ID)
	require.NoError(t, h.UpdatePost(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrForbidden)

	// The owner's same request goes through.
	c, rec = testRequest(http.MethodPatch, "/v1/posts/x", `{"title":"New Title"}`, "mom", model.RoleContributor)
	withPostID(c, draft.ID)
	require.NoError(t, h.UpdatePost(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	fresh, err := store.GetByIDOrSlug(context.Background(), "secret-surprise")
	require.NoError(t, err)
	assert.Equal(t, "New Title", fresh.Title)

	// Neither foreign attempt changed anything.
	assert.Equal(t, "Trip summer-recap", store.posts[live.ID].Title)
}

func TestDeletePostOwnershipSplit(t *testing.T) {
	store := newMemStore()
	h := testContributorHandler(t, store)

	draft := seedPost(t, store, "hidden-draft", "mom")
	live := seedPost(t, store, "public-post", "mom")
	_, err := store.Publish(context.Background(), live.ID, "mom")
	require.NoError(t, err)

	c, rec := testRequest(http.MethodDelete, "/v1/posts/x", "", "dad", model.RoleContributor)
	withPostID(c, draft.ID)
	require.NoError(t, h.DeletePost(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c, rec = testRequest(http.MethodDelete, "/v1/posts/x", "", "dad", model.RoleContributor)
	withPostID(c, live.ID)
	require.NoError(t, h.DeletePost(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Both posts survive the failed attempts.
	assert.Len(t, store.posts, 2)
}

// Deleting a post takes every one of its content rows with it and
// leaves other posts' content alone.
func TestDeletePostRemovesAllContent(t *testing.T) {
	store := newMemStore()
	h := testContributorHandler(t, store)

	post := seedPost(t, store, "rome-2026", "mom")
	other := seedPost(t, store, "paris-2025", "mom")
	ctx := context.Background()
	require.NoError(t, store.CreatePhoto(ctx, &model.Photo{PostID: post.ID, URL: "/media/a.jpg"}))
	require.NoError(t, store.CreateVideo(ctx, &model.Video{PostID: post.ID, URL: "/media/b.mp4"}))
	require.NoError(t, store.CreateTextBlock(ctx, &model.TextBlock{PostID: post.ID, Content: "Day one."}))
	require.NoError(t, store.CreateTextBlock(ctx, &model.TextBlock{PostID: other.ID, Content: "Unrelated."}))

	c, rec := testRequest(http.MethodDelete, "/v1/posts/x", "", "mom", model.RoleContributor)
	withPostID(c, post.ID)
	require.NoError(t, h.DeletePost(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Zero(t, store.contentCount(post.ID), "content rows must die with the post")
	assert.Equal(t, 1, store.contentCount(other.ID))
	_, err := store.GetByIDOrSlug(ctx, "rome-2026")
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

// reorderBody renders the request payload for a reorder call.
func reorderBody(t *testing.T, entries []reorderEntry) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{"orderedIds": entries})
	require.NoError(t, err)
	return string(b)
}

func doReorder(t *testing.T, h *ContributorHandler, postID uint64, body string) (int, string) {
	t.Helper()
	c, rec := testRequest(http.MethodPost, "/v1/posts/x/reorder", body, "mom", model.RoleContributor)
	withPostID(c, postID)
	require.NoError(t, h.Reorder(c))
	return rec.Code, rec.Body.String()
}

// contentOrder renders the post's content as "type:id" in display
// order, for comparing orderings across calls.
func contentOrder(t *testing.T, store *memStore, postID uint64) []string {
	t.Helper()
	photos, videos, texts, err := store.ListByPost(context.Background(), postID)
	require.NoError(t, err)
	type entry struct {
		order float64
		key   string
	}
	var all []entry
	for _, p := range photos {
		all = append(all, entry{p.DisplayOrder, fmt.Sprintf("photo:%d", p.ID)})
	}
	for _, v := range videos {
		all = append(all, entry{v.DisplayOrder, fmt.Sprintf("video:%d", v.ID)})
	}
	for _, x := range texts {
		all = append(all, entry{x.DisplayOrder, fmt.Sprintf("text:%d", x.ID)})
	}
	keys := make([]string, len(all))
	for i, e := range all {
		keys[i] = e.key
	}
	// items arrive sorted per collection; produce one global ordering
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].order < all[i].order {
				all[i], all[j] = all[j], all[i]
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	return keys
}

func TestReorderAppliesAndRepeats(t *testing.T) {
	store := newMemStore()
	h := testContributorHandler(t, store)

	post := seedPost(t, store, "alps-hike", "mom")
	ctx := context.Background()
	p1 := &model.Photo{PostID: post.ID, URL: "/media/1.jpg", DisplayOrder: 0}
	p2 := &model.Photo{PostID: post.ID, URL: "/media/2.jpg", DisplayOrder: 1}
	tx := &model.TextBlock{PostID: post.ID, Content: "Summit.", DisplayOrder: 2}
	require.NoError(t, store.CreatePhoto(ctx, p1))
	require.NoError(t, store.CreatePhoto(ctx, p2))
	require.NoError(t, store.CreateTextBlock(ctx, tx))

	want := []reorderEntry{
		{ID: tx.ID, Type: model.ContentTypeText},
		{ID: p2.ID, Type: model.ContentTypePhoto},
		{ID: p1.ID, Type: model.ContentTypePhoto},
	}
	body := reorderBody(t, want)

	code, _ := doReorder(t, h, post.ID, body)
	require.Equal(t, http.StatusOK, code)
	first := contentOrder(t, store, post.ID)
	assert.Equal(t, []string{
		fmt.Sprintf("text:%d", tx.ID),
		fmt.Sprintf("photo:%d", p2.ID),
		fmt.Sprintf("photo:%d", p1.ID),
	}, first)

	// The same request again succeeds and changes nothing.
	code, _ = doReorder(t, h, post.ID, body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, first, contentOrder(t, store, post.ID))
}

func TestReorderRejectsBadLists(t *testing.T) {
	store := newMemStore()
	h := testContributorHandler(t, store)

	post := seedPost(t, store, "lake-day", "mom")
	ctx := context.Background()
	p1 := &model.Photo{PostID: post.ID, URL: "/media/1.jpg"}
	tx := &model.TextBlock{PostID: post.ID, Content: "Swim."}
	require.NoError(t, store.CreatePhoto(ctx, p1))
	require.NoError(t, store.CreateTextBlock(ctx, tx))
	before := contentOrder(t, store, post.ID)

	cases := []struct {
		name string
		body string
	}{
		{"partial list", reorderBody(t, []reorderEntry{{ID: p1.ID, Type: model.ContentTypePhoto}})},
		{"duplicate entry", reorderBody(t, []reorderEntry{
			{ID: p1.ID, Type: model.ContentTypePhoto},
			{ID: p1.ID, Type: model.ContentTypePhoto},
		})},
		{"foreign id", reorderBody(t, []reorderEntry{
			{ID: p1.ID, Type: model.ContentTypePhoto},
			{ID: 9999, Type: model.ContentTypeText},
		})},
		{"unknown type", `{"orderedIds":[{"id":1,"type":"gif"},{"id":2,"type":"photo"}]}`},
		{"empty list", `{"orderedIds":[]}`},
	}
	for _, tc := range cases {
		code, body := doReorder(t, h, post.ID, tc.body)
		assert.Equal(t, http.StatusBadRequest, code, tc.name)
		assert.Contains(t, body, ErrInvalidInput, tc.name)
	}

	// No failed attempt moved anything.
	assert.Equal(t, before, contentOrder(t, store, post.ID))
}

func TestCreatePostDuplicateSlug(t *testing.T) {
	store := newMemStore()
	h := testContributorHandler(t, store)
	seedPost(t, store, "rome-2026", "mom")

	c, rec := testRequest(http.MethodPost, "/v1/posts", `{"slug":"rome-2026","title":"Again"}`, "dad", model.RoleContributor)
	require.NoError(t, h.CreatePost(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "slug already exists")
}

// Appended items land after the current maximum display order.
func TestCreateContentAppendsAfterMax(t *testing.T) {
	store := newMemStore()
	h := testContributorHandler(t, store)
	post := seedPost(t, store, "beach-week", "mom")

	ctx := context.Background()
	require.NoError(t, store.CreatePhoto(ctx, &model.Photo{PostID: post.ID, URL: "/media/a.jpg", DisplayOrder: 4}))

	c, rec := testRequest(http.MethodPost, "/v1/posts/x/text", `{"content":"Sunset."}`, "mom", model.RoleContributor)
	withPostID(c, post.ID)
	require.NoError(t, h.CreateTextBlock(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Text struct {
			DisplayOrder float64 `json:"displayOrder"`
		} `json:"text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5.0, resp.Text.DisplayOrder)
}
