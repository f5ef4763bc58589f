package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/family-travel-blog/internal/model"
	"github.com/iliyamo/family-travel-blog/internal/repository"
)

// ----- DTOs -----

type photoReq struct {
	DisplayOrder *float64 `json:"displayOrder"`
	URL          string   `json:"url"`
	Caption      *string  `json:"caption"`
	AltText      *string  `json:"altText"`
}

type videoReq struct {
	DisplayOrder *float64 `json:"displayOrder"`
	URL          string   `json:"url"`
	Caption      *string  `json:"caption"`
	Thumbnail    *string  `json:"thumbnail"`
	DurationSecs *uint32  `json:"durationSecs"`
}

type textReq struct {
	DisplayOrder *float64 `json:"displayOrder"`
	Content      *string  `json:"content"`
}

type reorderReq struct {
	OrderedIDs []reorderEntry `json:"orderedIds"`
}

type reorderEntry struct {
	ID   uint64 `json:"id"`
	Type string `json:"type"` // photo | video | text
}

// itemIDParam parses the numeric :itemId route parameter.
func itemIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("itemId"), 10, 64)
}

// nextDisplayOrder returns the order value for an appended item: one
// past the current maximum across all three collections, or 0 for an
// empty post. Explicit displayOrder values in the request win.
func nextDisplayOrder(ctx context.Context, content ContentStore, postID uint64) (float64, error) {
	photos, videos, texts, err := content.ListByPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	max := -1.0
	for _, p := range photos {
		if p.DisplayOrder > max {
			max = p.DisplayOrder
		}
	}
	for _, v := range videos {
		if v.DisplayOrder > max {
			max = v.DisplayOrder
		}
	}
	for _, t := range texts {
		if t.DisplayOrder > max {
			max = t.DisplayOrder
		}
	}
	return max + 1, nil
}

// ----- photos -----

// CreatePhoto adds a photo to the post. Media is expected to have been
// uploaded already via POST /v1/media; only the returned URL reference
// is stored here.
func (h *ContributorHandler) CreatePhoto(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}
	var req photoReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid body")
	}
	if strings.TrimSpace(req.URL) == "" {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "url required")
	}
	order, err := resolveOrder(ctx, h.Content, post.ID, req.DisplayOrder)
	if err != nil {
		return serverError(c, err)
	}
	photo := &model.Photo{PostID: post.ID, DisplayOrder: order, URL: req.URL}
	if req.Caption != nil {
		photo.Caption = *req.Caption
	}
	if req.AltText != nil {
		photo.AltText = *req.AltText
	}
	if err := h.Content.CreatePhoto(ctx, photo); err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "photo": toPhotoPart(photo)})
}

// UpdatePhoto patches one photo of the post.
func (h *ContributorHandler) UpdatePhoto(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}
	itemID, err := itemIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid item id")
	}
	photos, _, _, err := h.Content.ListByPost(ctx, post.ID)
	if err != nil {
		return serverError(c, err)
	}
	photo := findPhoto(photos, itemID)
	if photo == nil {
		return fail(c, http.StatusNotFound, ErrNotFound, "photo not found")
	}
	var req photoReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid body")
	}
	if req.URL != "" {
		photo.URL = req.URL
	}
	if req.DisplayOrder != nil {
		photo.DisplayOrder = *req.DisplayOrder
	}
	if req.Caption != nil {
		photo.Caption = *req.Caption
	}
	if req.AltText != nil {
		photo.AltText = *req.AltText
	}
	if err := h.Content.UpdatePhoto(ctx, photo); err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return fail(c, http.StatusNotFound, ErrNotFound, "photo not found")
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "photo": toPhotoPart(photo)})
}

// DeletePhoto removes one photo of the post. The stored media object
// is not removed here; orphaned objects are an accepted gap of the
// decoupled upload flow.
func (h *ContributorHandler) DeletePhoto(c echo.Context) error {
	return h.deleteItem(c, func(ctx context.Context, itemID, postID uint64) error {
		return h.Content.DeletePhoto(ctx, itemID, postID)
	}, "photo not found")
}

// ----- videos -----

// CreateVideo adds a video to the post.
func (h *ContributorHandler) CreateVideo(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}
	var req videoReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid body")
	}
	if strings.TrimSpace(req.URL) == "" {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "url required")
	}
	order, err := resolveOrder(ctx, h.Content, post.ID, req.DisplayOrder)
	if err != nil {
		return serverError(c, err)
	}
	video := &model.Video{PostID: post.ID, DisplayOrder: order, URL: req.URL}
	if req.Caption != nil {
		video.Caption = *req.Caption
	}
	if req.Thumbnail != nil {
		video.Thumbnail = *req.Thumbnail
	}
	if req.DurationSecs != nil {
		video.DurationSecs = *req.DurationSecs
	}
	if err := h.Content.CreateVideo(ctx, video); err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "video": toVideoPart(video)})
}

// UpdateVideo patches one video of the post.
func (h *ContributorHandler) UpdateVideo(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}
	itemID, err := itemIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid item id")
	}
	_, videos, _, err := h.Content.ListByPost(ctx, post.ID)
	if err != nil {
		return serverError(c, err)
	}
	video := findVideo(videos, itemID)
	if video == nil {
		return fail(c, http.StatusNotFound, ErrNotFound, "video not found")
	}
	var req videoReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid body")
	}
	if req.URL != "" {
		video.URL = req.URL
	}
	if req.DisplayOrder != nil {
		video.DisplayOrder = *req.DisplayOrder
	}
	if req.Caption != nil {
		video.Caption = *req.Caption
	}
	if req.Thumbnail != nil {
		video.Thumbnail = *req.Thumbnail
	}
	if req.DurationSecs != nil {
		video.DurationSecs = *req.DurationSecs
	}
	if err := h.Content.UpdateVideo(ctx, video); err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return fail(c, http.StatusNotFound, ErrNotFound, "video not found")
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "video": toVideoPart(video)})
}

// DeleteVideo removes one video of the post.
func (h *ContributorHandler) DeleteVideo(c echo.Context) error {
	return h.deleteItem(c, func(ctx context.Context, itemID, postID uint64) error {
		return h.Content.DeleteVideo(ctx, itemID, postID)
	}, "video not found")
}

// ----- text blocks -----

// CreateTextBlock adds a text block to the post.
func (h *ContributorHandler) CreateTextBlock(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}
	var req textReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid body")
	}
	if req.Content == nil || strings.TrimSpace(*req.Content) == "" {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "content required")
	}
	order, err := resolveOrder(ctx, h.Content, post.ID, req.DisplayOrder)
	if err != nil {
		return serverError(c, err)
	}
	text := &model.TextBlock{PostID: post.ID, DisplayOrder: order, Content: *req.Content}
	if err := h.Content.CreateTextBlock(ctx, text); err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "text": toTextPart(text)})
}

// UpdateTextBlock patches one text block of the post.
func (h *ContributorHandler) UpdateTextBlock(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}
	itemID, err := itemIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid item id")
	}
	_, _, texts, err := h.Content.ListByPost(ctx, post.ID)
	if err != nil {
		return serverError(c, err)
	}
	text := findText(texts, itemID)
	if text == nil {
		return fail(c, http.StatusNotFound, ErrNotFound, "text block not found")
	}
	var req textReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid body")
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return fail(c, http.StatusBadRequest, ErrInvalidInput, "content must not be empty")
		}
		text.Content = *req.Content
	}
	if req.DisplayOrder != nil {
		text.DisplayOrder = *req.DisplayOrder
	}
	if err := h.Content.UpdateTextBlock(ctx, text); err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return fail(c, http.StatusNotFound, ErrNotFound, "text block not found")
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "text": toTextPart(text)})
}

// DeleteTextBlock removes one text block of the post.
func (h *ContributorHandler) DeleteTextBlock(c echo.Context) error {
	return h.deleteItem(c, func(ctx context.Context, itemID, postID uint64) error {
		return h.Content.DeleteTextBlock(ctx, itemID, postID)
	}, "text block not found")
}

// ----- reorder -----

// Reorder applies a caller-supplied total ordering over the post's
// content. The list must name every photo, video and text block of
// the post exactly once; display_order values 0..n-1 are then assigned
// in list order inside one transaction. A bad list changes nothing.
func (h *ContributorHandler) Reorder(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}
	var req reorderReq
	if err := c.Bind(&req); err != nil || len(req.OrderedIDs) == 0 {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "orderedIds required")
	}
	items := make([]repository.ReorderItem, 0, len(req.OrderedIDs))
	for _, e := range req.OrderedIDs {
		switch e.Type {
		case model.ContentTypePhoto, model.ContentTypeVideo, model.ContentTypeText:
		default:
			return fail(c, http.StatusBadRequest, ErrInvalidInput, "type must be photo, video or text")
		}
		items = append(items, repository.ReorderItem{ID: e.ID, Type: e.Type})
	}
	if err := h.Content.Reorder(ctx, post.ID, items); err != nil {
		switch {
		case errors.Is(err, repository.ErrReorderMismatch):
			return fail(c, http.StatusBadRequest, ErrInvalidInput, "orderedIds must cover the post's content exactly")
		case errors.Is(err, repository.ErrContentNotFound):
			return fail(c, http.StatusBadRequest, ErrInvalidInput, "orderedIds references an unknown content item")
		default:
			return serverError(c, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ----- helpers -----

// deleteItem factors the shared shape of the three delete endpoints.
func (h *ContributorHandler) deleteItem(c echo.Context, del func(context.Context, uint64, uint64) error, missing string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, errResp := h.ownedPost(ctx, c)
	if post == nil {
		return errResp
	}
	itemID, err := itemIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid item id")
	}
	if err := del(ctx, itemID, post.ID); err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return fail(c, http.StatusNotFound, ErrNotFound, missing)
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// resolveOrder picks the explicit displayOrder when given, otherwise
// appends after the current maximum.
func resolveOrder(ctx context.Context, content ContentStore, postID uint64, explicit *float64) (float64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	return nextDisplayOrder(ctx, content, postID)
}

func findPhoto(photos []model.Photo, id uint64) *model.Photo {
	for i := range photos {
		if photos[i].ID == id {
			return &photos[i]
		}
	}
	return nil
}

func findVideo(videos []model.Video, id uint64) *model.Video {
	for i := range videos {
		if videos[i].ID == id {
			return &videos[i]
		}
	}
	return nil
}

func findText(texts []model.TextBlock, id uint64) *model.TextBlock {
	for i := range texts {
		if texts[i].ID == id {
			return &texts[i]
		}
	}
	return nil
}
