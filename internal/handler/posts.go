package handler

import (
	"context"  // context with cancellation for DB calls
	"errors"   // sentinel error checks
	"net/http" // HTTP status codes
	"strconv"  // pagination parameter parsing
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/family-travel-blog/internal/middleware"
	"github.com/iliyamo/family-travel-blog/internal/model"
	"github.com/iliyamo/family-travel-blog/internal/repository"
	"github.com/iliyamo/family-travel-blog/internal/service"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// Pagination bounds for post listings.
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PostHandler serves the read side: listings and single-post reads
// with assembled content. All routes behind it require some valid
// session; visibility of individual rows is decided per request.
type PostHandler struct {
	Posts   PostStore
	Content ContentStore
}

func NewPostHandler(posts PostStore, content ContentStore) *PostHandler {
	if posts == nil || content == nil {
		panic("nil repository passed to NewPostHandler")
	}
	return &PostHandler{Posts: posts, Content: content}
}

// ----- response DTOs -----

type postPart struct {
	ID          uint64     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CoverImage  string     `json:"coverImage,omitempty"`
	TemplateID  string     `json:"templateId"`
	AuthorID    string     `json:"authorId"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type photoPart struct {
	ID           uint64    `json:"id"`
	PostID       uint64    `json:"postId"`
	DisplayOrder float64   `json:"displayOrder"`
	URL          string    `json:"url"`
	Caption      string    `json:"caption,omitempty"`
	AltText      string    `json:"altText,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type videoPart struct {
	ID           uint64    `json:"id"`
	PostID       uint64    `json:"postId"`
	DisplayOrder float64   `json:"displayOrder"`
	URL          string    `json:"url"`
	Caption      string    `json:"caption,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	DurationSecs uint32    `json:"durationSecs,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type textPart struct {
	ID           uint64    `json:"id"`
	PostID       uint64    `json:"postId"`
	DisplayOrder float64   `json:"displayOrder"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
}

// sequencePart is one entry of the assembled rendering sequence; Item
// is the matching *Part DTO for the type.
type sequencePart struct {
	Type         string  `json:"type"`
	ID           uint64  `json:"id"`
	DisplayOrder float64 `json:"displayOrder"`
	Item         any     `json:"item"`
}

func toPostPart(p *model.Post) postPart {
	return postPart{
		ID: p.ID, Slug: p.Slug, Title: p.Title, Description: p.Description,
		CoverImage: p.CoverImage, TemplateID: p.TemplateID, AuthorID: p.AuthorID,
		Status: p.Status, PublishedAt: p.PublishedAt,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func toPhotoPart(p *model.Photo) photoPart {
	return photoPart{ID: p.ID, PostID: p.PostID, DisplayOrder: p.DisplayOrder,
		URL: p.URL, Caption: p.Caption, AltText: p.AltText, CreatedAt: p.CreatedAt}
}

func toVideoPart(v *model.Video) videoPart {
	return videoPart{ID: v.ID, PostID: v.PostID, DisplayOrder: v.DisplayOrder,
		URL: v.URL, Caption: v.Caption, Thumbnail: v.Thumbnail,
		DurationSecs: v.DurationSecs, CreatedAt: v.CreatedAt}
}

func toTextPart(t *model.TextBlock) textPart {
	return textPart{ID: t.ID, PostID: t.PostID, DisplayOrder: t.DisplayOrder,
		Content: t.Content, CreatedAt: t.CreatedAt}
}

// identity pulls the verified session identity out of the context.
func identity(c echo.Context) (username, role string) {
	username, _ = c.Get(middleware.CtxUsername).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	return username, role
}

// List serves GET /v1/posts?status=&limit=&offset=.
//
// status=published (the default) lists published posts for any caller.
// status=all is the contributor management view: it lists the caller's
// own posts, drafts included, and never anyone else's, so drafts of
// other authors cannot leak. Readers asking for status=all get 403.
func (h *PostHandler) List(c echo.Context) error {
	username, role := identity(c)

	status := c.QueryParam("status")
	if status == "" {
		status = model.StatusPublished
	}
	limit, offset, err := pageParams(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var (
		posts []model.Post
		total int
	)
	switch status {
	case model.StatusPublished:
		posts, total, err = h.Posts.ListPublished(ctx, limit, offset)
	case "all":
		if role != model.RoleContributor {
			return fail(c, http.StatusForbidden, ErrForbidden, "status=all is limited to contributors")
		}
		posts, total, err = h.Posts.ListByAuthor(ctx, username, limit, offset)
	default:
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "status must be published or all")
	}
	if err != nil {
		return serverError(c, err)
	}

	out := make([]postPart, 0, len(posts))
	for i := range posts {
		out = append(out, toPostPart(&posts[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"posts":   out,
		"pagination": echo.Map{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// Get serves GET /v1/posts/:idOrSlug with the post metadata, its three
// content collections, and the assembled rendering sequence.
//
// Visibility: a published post is readable by any authenticated user;
// a draft only by its author. A draft requested by anyone else is
// answered with 404 rather than 403 so the existence of unpublished
// posts is not revealed.
func (h *PostHandler) Get(c echo.Context) error {
	username, _ := identity(c)
	idOrSlug := c.Param("idOrSlug")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, err := h.Posts.GetByIDOrSlug(ctx, idOrSlug)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return notFound(c)
		}
		return serverError(c, err)
	}
	if !post.IsPublished() && post.AuthorID != username {
		return notFound(c)
	}

	photos, videos, texts, err := h.Content.ListByPost(ctx, post.ID)
	if err != nil {
		return serverError(c, err)
	}

	photoParts := make([]photoPart, 0, len(photos))
	for i := range photos {
		photoParts = append(photoParts, toPhotoPart(&photos[i]))
	}
	videoParts := make([]videoPart, 0, len(videos))
	for i := range videos {
		videoParts = append(videoParts, toVideoPart(&videos[i]))
	}
	textParts := make([]textPart, 0, len(texts))
	for i := range texts {
		textParts = append(textParts, toTextPart(&texts[i]))
	}

	seq := service.Assemble(photos, videos, texts)
	seqParts := make([]sequencePart, 0, len(seq))
	for _, it := range seq {
		sp := sequencePart{Type: it.Type, ID: it.ID, DisplayOrder: it.DisplayOrder}
		switch it.Type {
		case model.ContentTypePhoto:
			sp.Item = toPhotoPart(it.Photo)
		case model.ContentTypeVideo:
			sp.Item = toVideoPart(it.Video)
		case model.ContentTypeText:
			sp.Item = toTextPart(it.Text)
		}
		seqParts = append(seqParts, sp)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"post":    toPostPart(post),
		"content": echo.Map{
			"photos":     photoParts,
			"videos":     videoParts,
			"textBlocks": textParts,
		},
		"sequence": seqParts,
	})
}

// pageParams parses limit/offset with defaults and bounds.
func pageParams(c echo.Context) (limit, offset int, err error) {
	limit = defaultPageLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, perr := strconv.Atoi(raw)
		if perr != nil || n < 1 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
		if n > maxPageLimit {
			n = maxPageLimit
		}
		limit = n
	}
	if raw := c.QueryParam("offset"); raw != "" {
		n, perr := strconv.Atoi(raw)
		if perr != nil || n < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
		offset = n
	}
	return limit, offset, nil
}
