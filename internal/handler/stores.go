package handler

import (
	"context"

	"github.com/iliyamo/family-travel-blog/internal/model"
	"github.com/iliyamo/family-travel-blog/internal/repository"
)

// PostStore is the slice of the post repository the handlers consume.
// *repository.PostRepo satisfies it; tests substitute in-memory stores.
type PostStore interface {
	Create(ctx context.Context, p *model.Post) error
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*model.Post, error)
	ListPublished(ctx context.Context, limit, offset int) ([]model.Post, int, error)
	ListByAuthor(ctx context.Context, author string, limit, offset int) ([]model.Post, int, error)
	UpdateByIDAndAuthor(ctx context.Context, p *model.Post, author string) error
	Publish(ctx context.Context, id uint64, author string) (*model.Post, error)
	DeleteByIDAndAuthor(ctx context.Context, id uint64, author string) error
}

// ContentStore is the slice of the content repository the handlers
// consume. *repository.ContentRepo satisfies it.
type ContentStore interface {
	ListByPost(ctx context.Context, postID uint64) ([]model.Photo, []model.Video, []model.TextBlock, error)
	CreatePhoto(ctx context.Context, p *model.Photo) error
	UpdatePhoto(ctx context.Context, p *model.Photo) error
	DeletePhoto(ctx context.Context, id, postID uint64) error
	CreateVideo(ctx context.Context, v *model.Video) error
	UpdateVideo(ctx context.Context, v *model.Video) error
	DeleteVideo(ctx context.Context, id, postID uint64) error
	CreateTextBlock(ctx context.Context, t *model.TextBlock) error
	UpdateTextBlock(ctx context.Context, t *model.TextBlock) error
	DeleteTextBlock(ctx context.Context, id, postID uint64) error
	Reorder(ctx context.Context, postID uint64, items []repository.ReorderItem) error
}
