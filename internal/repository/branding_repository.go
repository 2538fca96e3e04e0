package repository

import (
	"app/internal/domain/model"
	"context"
)

// ブランディング設定は1レコード運用。
type BrandingRepository interface {
	Get(ctx context.Context) (model.Branding, error)
	Save(ctx context.Context, b model.Branding) error
}

// 形状サブカテゴリの永続化。
type ShapeCategoryRepository interface {
	List(ctx context.Context) ([]model.ShapeCategory, error)
	Create(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName string, newName string) error
	Exists(ctx context.Context, name string) (bool, error)
}
