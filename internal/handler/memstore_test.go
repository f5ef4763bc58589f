package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/family-travel-blog/internal/middleware"
	"github.com/iliyamo/family-travel-blog/internal/model"
	"github.com/iliyamo/family-travel-blog/internal/repository"
	"github.com/iliyamo/family-travel-blog/internal/storage"
	"github.com/iliyamo/family-travel-blog/internal/templates"
)

// memStore is an in-memory stand-in for the MySQL repositories. It
// implements PostStore and ContentStore with the same observable
// contract: the same sentinel errors, content rows that die with their
// post, and an all-or-nothing reorder that must cover the post's
// content exactly. Handlers run against it exactly as they would
// against the real repos.
type memStore struct {
	posts  map[uint64]*model.Post
	photos map[uint64]*model.Photo
	videos map[uint64]*model.Video
	texts  map[uint64]*model.TextBlock
	lastID uint64
}

func newMemStore() *memStore {
	return &memStore{
		posts:  map[uint64]*model.Post{},
		photos: map[uint64]*model.Photo{},
		videos: map[uint64]*model.Video{},
		texts:  map[uint64]*model.TextBlock{},
	}
}

func (m *memStore) id() uint64 {
	m.lastID++
	return m.lastID
}

// ----- PostStore -----

func (m *memStore) Create(_ context.Context, p *model.Post) error {
	for _, ex := range m.posts {
		if ex.Slug == p.Slug {
			return repository.ErrSlugExists
		}
	}
	now := time.Now()
	p.ID = m.id()
	p.Status = model.StatusDraft
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *memStore) GetByIDOrSlug(_ context.Context, idOrSlug string) (*model.Post, error) {
	if n, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		if p, ok := m.posts[n]; ok {
			cp := *p
			return &cp, nil
		}
		return nil, repository.ErrPostNotFound
	}
	for _, p := range m.posts {
		if p.Slug == idOrSlug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func (m *memStore) ListPublished(_ context.Context, limit, offset int) ([]model.Post, int, error) {
	var out []model.Post
	for _, p := range m.posts {
		if p.Status == model.StatusPublished {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pagePosts(out, limit, offset), len(out), nil
}

func (m *memStore) ListByAuthor(_ context.Context, author string, limit, offset int) ([]model.Post, int, error) {
	var out []model.Post
	for _, p := range m.posts {
		if p.AuthorID == author {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pagePosts(out, limit, offset), len(out), nil
}

func (m *memStore) UpdateByIDAndAuthor(_ context.Context, p *model.Post, author string) error {
	cur, ok := m.posts[p.ID]
	if !ok || cur.AuthorID != author {
		return sql.ErrNoRows
	}
	if cur.Title == p.Title && cur.Description == p.Description &&
		cur.CoverImage == p.CoverImage && cur.TemplateID == p.TemplateID {
		return repository.ErrNoChange
	}
	cur.Title, cur.Description = p.Title, p.Description
	cur.CoverImage, cur.TemplateID = p.CoverImage, p.TemplateID
	cur.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) Publish(_ context.Context, id uint64, author string) (*model.Post, error) {
	cur, ok := m.posts[id]
	if !ok || cur.AuthorID != author {
		return nil, sql.ErrNoRows
	}
	if cur.Status == model.StatusPublished {
		return nil, repository.ErrNoChange
	}
	now := time.Now()
	cur.Status = model.StatusPublished
	cur.PublishedAt = &now
	cp := *cur
	return &cp, nil
}

func (m *memStore) DeleteByIDAndAuthor(_ context.Context, id uint64, author string) error {
	cur, ok := m.posts[id]
	if !ok {
		return repository.ErrPostNotFound
	}
	if cur.AuthorID != author {
		return repository.ErrForbidden
	}
	for pid, p := range m.photos {
		if p.PostID == id {
			delete(m.photos, pid)
		}
	}
	for vid, v := range m.videos {
		if v.PostID == id {
			delete(m.videos, vid)
		}
	}
	for tid, t := range m.texts {
		if t.PostID == id {
			delete(m.texts, tid)
		}
	}
	delete(m.posts, id)
	return nil
}

func pagePosts(posts []model.Post, limit, offset int) []model.Post {
	if offset >= len(posts) {
		return nil
	}
	posts = posts[offset:]
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

// ----- ContentStore -----

func (m *memStore) ListByPost(_ context.Context, postID uint64) ([]model.Photo, []model.Video, []model.TextBlock, error) {
	var ph []model.Photo
	for _, p := range m.photos {
		if p.PostID == postID {
			ph = append(ph, *p)
		}
	}
	var vs []model.Video
	for _, v := range m.videos {
		if v.PostID == postID {
			vs = append(vs, *v)
		}
	}
	var ts []model.TextBlock
	for _, t := range m.texts {
		if t.PostID == postID {
			ts = append(ts, *t)
		}
	}
	sort.Slice(ph, func(i, j int) bool { return itemLess(ph[i].DisplayOrder, ph[i].CreatedAt, ph[i].ID, ph[j].DisplayOrder, ph[j].CreatedAt, ph[j].ID) })
	sort.Slice(vs, func(i, j int) bool { return itemLess(vs[i].DisplayOrder, vs[i].CreatedAt, vs[i].ID, vs[j].DisplayOrder, vs[j].CreatedAt, vs[j].ID) })
	sort.Slice(ts, func(i, j int) bool { return itemLess(ts[i].DisplayOrder, ts[i].CreatedAt, ts[i].ID, ts[j].DisplayOrder, ts[j].CreatedAt, ts[j].ID) })
	return ph, vs, ts, nil
}

func itemLess(o1 float64, c1 time.Time, id1 uint64, o2 float64, c2 time.Time, id2 uint64) bool {
	if o1 != o2 {
		return o1 < o2
	}
	if !c1.Equal(c2) {
		return c1.Before(c2)
	}
	return id1 < id2
}

func (m *memStore) CreatePhoto(_ context.Context, p *model.Photo) error {
	p.ID = m.id()
	p.CreatedAt = time.Now()
	cp := *p
	m.photos[p.ID] = &cp
	return nil
}

func (m *memStore) UpdatePhoto(_ context.Context, p *model.Photo) error {
	cur, ok := m.photos[p.ID]
	if !ok || cur.PostID != p.PostID {
		return repository.ErrContentNotFound
	}
	cp := *p
	cp.CreatedAt = cur.CreatedAt
	m.photos[p.ID] = &cp
	return nil
}

func (m *memStore) DeletePhoto(_ context.Context, id, postID uint64) error {
	cur, ok := m.photos[id]
	if !ok || cur.PostID != postID {
		return repository.ErrContentNotFound
	}
	delete(m.photos, id)
	return nil
}

func (m *memStore) CreateVideo(_ context.Context, v *model.Video) error {
	v.ID = m.id()
	v.CreatedAt = time.Now()
	cp := *v
	m.videos[v.ID] = &cp
	return nil
}

func (m *memStore) UpdateVideo(_ context.Context, v *model.Video) error {
	cur, ok := m.videos[v.ID]
	if !ok || cur.PostID != v.PostID {
		return repository.ErrContentNotFound
	}
	cp := *v
	cp.CreatedAt = cur.CreatedAt
	m.videos[v.ID] = &cp
	return nil
}

func (m *memStore) DeleteVideo(_ context.Context, id, postID uint64) error {
	cur, ok := m.videos[id]
	if !ok || cur.PostID != postID {
		return repository.ErrContentNotFound
	}
	delete(m.videos, id)
	return nil
}

func (m *memStore) CreateTextBlock(_ context.Context, t *model.TextBlock) error {
	t.ID = m.id()
	t.CreatedAt = time.Now()
	cp := *t
	m.texts[t.ID] = &cp
	return nil
}

func (m *memStore) UpdateTextBlock(_ context.Context, t *model.TextBlock) error {
	cur, ok := m.texts[t.ID]
	if !ok || cur.PostID != t.PostID {
		return repository.ErrContentNotFound
	}
	cp := *t
	cp.CreatedAt = cur.CreatedAt
	m.texts[t.ID] = &cp
	return nil
}

func (m *memStore) DeleteTextBlock(_ context.Context, id, postID uint64) error {
	cur, ok := m.texts[id]
	if !ok || cur.PostID != postID {
		return repository.ErrContentNotFound
	}
	delete(m.texts, id)
	return nil
}

func (m *memStore) Reorder(_ context.Context, postID uint64, items []repository.ReorderItem) error {
	if len(items) != m.contentCount(postID) {
		return repository.ErrReorderMismatch
	}
	seen := map[repository.ReorderItem]bool{}
	for _, it := range items {
		if seen[it] {
			return repository.ErrReorderMismatch
		}
		seen[it] = true
		if !m.hasItem(postID, it) {
			return repository.ErrContentNotFound
		}
	}
	for idx, it := range items {
		m.setOrder(it, float64(idx))
	}
	return nil
}

func (m *memStore) contentCount(postID uint64) int {
	n := 0
	for _, p := range m.photos {
		if p.PostID == postID {
			n++
		}
	}
	for _, v := range m.videos {
		if v.PostID == postID {
			n++
		}
	}
	for _, t := range m.texts {
		if t.PostID == postID {
			n++
		}
	}
	return n
}

func (m *memStore) hasItem(postID uint64, it repository.ReorderItem) bool {
	switch it.Type {
	case model.ContentTypePhoto:
		p, ok := m.photos[it.ID]
		return ok && p.PostID == postID
	case model.ContentTypeVideo:
		v, ok := m.videos[it.ID]
		return ok && v.PostID == postID
	case model.ContentTypeText:
		t, ok := m.texts[it.ID]
		return ok && t.PostID == postID
	}
	return false
}

func (m *memStore) setOrder(it repository.ReorderItem, order float64) {
	switch it.Type {
	case model.ContentTypePhoto:
		m.photos[it.ID].DisplayOrder = order
	case model.ContentTypeVideo:
		m.videos[it.ID].DisplayOrder = order
	case model.ContentTypeText:
		m.texts[it.ID].DisplayOrder = order
	}
}

// ----- request helpers -----

// testRequest builds an echo context carrying an authenticated session
// identity, mirroring what SessionAuth would have set.
func testRequest(method, target, body, username, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUsername, username)
	c.Set(middleware.CtxRole, role)
	return c, rec
}

func withPostID(c echo.Context, id uint64) {
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(id, 10))
}

func testContributorHandler(t *testing.T, store *memStore) *ContributorHandler {
	t.Helper()
	media, err := storage.NewDiskStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatal(err)
	}
	return NewContributorHandler(store, store, media, templates.NewRegistry())
}

// seedPost creates a draft through the store and returns it.
func seedPost(t *testing.T, store *memStore, slug, author string) *model.Post {
	t.Helper()
	p := &model.Post{Slug: slug, Title: "Trip " + slug, TemplateID: "standard", AuthorID: author}
	if err := store.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return p
}
