package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（保存・取得）だけを約束。
type ItemRepository interface {
	ListPublished(ctx context.Context) ([]model.Item, error)
	ListPublishedByCategory(ctx context.Context, category model.ItemCategory) ([]model.Item, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	FindByID(ctx context.Context, id model.ItemID) (model.Item, error)

	CreateBatch(ctx context.Context, items []model.Item) error
	SetPublished(ctx context.Context, ids []model.ItemID, published bool) error
	MarkSold(ctx context.Context, ids []model.ItemID) error
	SetPrice(ctx context.Context, id model.ItemID, priceInCents int64) error
	SetPriceByCategory(ctx context.Context, category model.ItemCategory, priceInCents int64) (int64, error)
	UpdateDescription(ctx context.Context, id model.ItemID, description string) error
	UpdatePhoto(ctx context.Context, id model.ItemID, photoURL string, contentType string) error
	RenameShapeCategory(ctx context.Context, oldName string, newName string) error
}
