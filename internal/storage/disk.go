// Package storage provides the media object store consumed by the
// upload endpoint. The core only ever stores the returned reference
// (id + URL) in the database, never raw bytes: the object is written
// first, and only on success is its reference persisted by the caller.
// If that later persistence fails the object is left behind; there is
// no compensating cleanup in the current flow.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Object is the reference returned by an upload.
type Object struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Store is the object storage interface the handlers consume. The
// production implementation writes to local disk; swapping in a bucket
// backed implementation only needs these two methods.
type Store interface {
	// Upload persists the bytes under a fresh object id and returns
	// the reference. filename is only used for its extension.
	Upload(ctx context.Context, filename, contentType string, data []byte) (Object, error)
	// Delete removes the object, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// DiskStore stores objects as files under a root directory. Object ids
// are uuid strings plus the original file extension, so the id doubles
// as the file name and nothing else needs to be tracked.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir %s: %w", root, err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload writes data to <root>/<uuid><ext> and returns the reference.
func (s *DiskStore) Upload(ctx context.Context, filename, contentType string, data []byte) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	id := uuid.NewString() + safeExt(filename)
	path := filepath.Join(s.root, id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("storage: write %s: %w", id, err)
	}
	return Object{ID: id, URL: s.baseURL + "/" + id}, nil
}

// Delete removes the object file. A missing object is not an error;
// the bool result reports whether anything was removed.
func (s *DiskStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	// Reject ids that could escape the root directory.
	if id == "" || id != filepath.Base(id) {
		return false, nil
	}
	err := os.Remove(filepath.Join(s.root, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// safeExt returns a lowercased extension of at most 10 characters, or
// "" when the filename has none worth keeping.
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
