package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// maxUploadBytes caps a single media upload (32 MiB). Transcoding and
// resizing are out of scope; bytes are stored as received.
const maxUploadBytes = 32 << 20

// UploadMedia accepts a multipart form with a "file" part, stores the
// bytes in the object store and returns the reference {id, url}. The
// object is written before any database row references it; if the
// caller then fails to persist the reference, the object is simply
// left behind (no compensating delete in the current flow).
func (h *ContributorHandler) UploadMedia(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "file part required")
	}
	if fh.Size > maxUploadBytes {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "file too large")
	}
	src, err := fh.Open()
	if err != nil {
		return serverError(c, err)
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return serverError(c, err)
	}
	if len(data) > maxUploadBytes {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "file too large")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	obj, err := h.Media.Upload(ctx, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "media": obj})
}
