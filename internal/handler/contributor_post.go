package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/family-travel-blog/internal/model"
	"github.com/iliyamo/family-travel-blog/internal/queue"
	"github.com/iliyamo/family-travel-blog/internal/repository"
	"github.com/iliyamo/family-travel-blog/internal/service"
	"github.com/iliyamo/family-travel-blog/internal/storage"
	"github.com/iliyamo/family-travel-blog/internal/templates"
)

// ContributorHandler bundles dependencies for the write side: post
// lifecycle, content items, reordering and media upload. All routes
// behind it carry SessionAuth plus RequireRole(contributor); authorship
// is checked per post on top of that.
type ContributorHandler struct {
	Posts     PostStore
	Content   ContentStore
	Media     storage.Store
	Templates *templates.Registry
}

// NewContributorHandler constructs the handler and panics if any
// dependency is nil.
func NewContributorHandler(posts PostStore, content ContentStore, media storage.Store, reg *templates.Registry) *ContributorHandler {
	if posts == nil || content == nil || media == nil || reg == nil {
		panic("nil dependency passed to NewContributorHandler")
	}
	return &ContributorHandler{Posts: posts, Content: content, Media: media, Templates: reg}
}

// ----- DTOs -----

type createPostReq struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverImage  string `json:"coverImage"`
	TemplateID  string `json:"templateId"`
}

type updatePostReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CoverImage  *string `json:"coverImage"`
	TemplateID  *string `json:"templateId"`
}

// postIDParam parses the numeric :id route parameter.
func postIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// ownedPost loads the post named by the :id parameter and enforces the
// canModify predicate. The error it hands back is already a fully
// formed HTTP response:
//   - unknown id                       -> 404
//   - someone else's draft             -> 404 (existence is sensitive)
//   - someone else's published post    -> 403 (existence is public)
func (h *ContributorHandler) ownedPost(ctx context.Context, c echo.Context) (*model.Post, error) {
	id, err := postIDParam(c)
	if err != nil {
		return nil, fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid post id")
	}
	post, err := h.Posts.GetByIDOrSlug(ctx, strconv.FormatUint(id, 10))
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, notFound(c)
		}
		return nil, serverError(c, err)
	}
	username, role := identity(c)
	if !model.CanModify(username, role, post) {
		if post.IsPublished() {
			return nil, fail(c, http.StatusForbidden, ErrForbidden, "you do not own this post")
		}
		return nil, notFound(c)
	}
	return post, nil
}

// CreatePost creates a draft owned by the calling contributor.
func (h *ContributorHandler) CreatePost(c echo.Context) error {
	var req createPostReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid body")
	}
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	req.Title = strings.TrimSpace(req.Title)
	if req.Slug == "" || req.Title == "" {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "slug and title required")
	}
	if req.TemplateID == "" {
		req.TemplateID = "standard"
	}
	if !h.Templates.Valid(req.TemplateID) {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "unknown templateId")
	}

	username, _ := identity(c)
	post := &model.Post{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		TemplateID:  req.TemplateID,
		AuthorID:    username,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Posts.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return fail(c, http.StatusBadRequest, ErrInvalidInput, "slug already exists")
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "post": toPostPart(post)})
}

// UpdatePost patches post metadata. Omitted fields keep their current
// values; supplied fields replace them wholesale. Last write wins:
// there is no version or ETag field, so simultaneous PATCHes silently
// overwrite each other at row level.
func (h *ContributorHandler) UpdatePost(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}

	var req updatePostReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid body")
	}
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return fail(c, http.StatusBadRequest, ErrInvalidInput, "title must not be empty")
		}
		post.Title = t
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.CoverImage != nil {
		post.CoverImage = *req.CoverImage
	}
	if req.TemplateID != nil {
		if !h.Templates.Valid(*req.TemplateID) {
			return fail(c, http.StatusBadRequest, ErrInvalidInput, "unknown templateId")
		}
		post.TemplateID = *req.TemplateID
	}

	username, _ := identity(c)
	err := h.Posts.UpdateByIDAndAuthor(ctx, post, username)
	switch {
	case err == nil, errors.Is(err, repository.ErrNoChange):
		// reload to pick up updated_at
		fresh, gerr := h.Posts.GetByIDOrSlug(ctx, strconv.FormatUint(post.ID, 10))
		if gerr != nil {
			return serverError(c, gerr)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": true, "post": toPostPart(fresh)})
	case errors.Is(err, sql.ErrNoRows):
		return notFound(c)
	default:
		return serverError(c, err)
	}
}

// DeletePost removes the post and all of its content rows in one
// transaction; no partially deleted post is ever observable.
func (h *ContributorHandler) DeletePost(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}

	username, _ := identity(c)
	if err := h.Posts.DeleteByIDAndAuthor(ctx, post.ID, username); err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			return notFound(c)
		case errors.Is(err, repository.ErrForbidden):
			return fail(c, http.StatusForbidden, ErrForbidden, "you do not own this post")
		default:
			return serverError(c, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Publish transitions a draft to published and announces the event on
// the message broker. The broker call is best effort and asynchronous;
// the HTTP response never waits for it or fails because of it.
func (h *ContributorHandler) Publish(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}

	username, _ := identity(c)
	published, err := h.Posts.Publish(ctx, post.ID, username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoChange):
			return fail(c, http.StatusBadRequest, ErrInvalidInput, "post is already published")
		case errors.Is(err, sql.ErrNoRows):
			return notFound(c)
		default:
			return serverError(c, err)
		}
	}

	ev := queue.PostPublishedEvent{
		PostID:     published.ID,
		Slug:       published.Slug,
		Title:      published.Title,
		Author:     published.AuthorID,
		TemplateID: published.TemplateID,
	}
	if published.PublishedAt != nil {
		ev.PublishedAt = published.PublishedAt.UTC().Format(time.RFC3339)
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		_ = service.PublishPostPublished(pctx, ev)
	}()

	return c.JSON(http.StatusOK, echo.Map{"success": true, "post": toPostPart(published)})
}
