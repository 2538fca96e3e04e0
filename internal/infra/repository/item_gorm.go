package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

// 公開中の商品一覧（新しい順）
func (r *ItemGormRepository) ListPublished(ctx context.Context) ([]model.Item, error) {
	var items []model.Item

	if err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return []model.Item{}, err
	}

	return items, nil
}

// 公開中かつ指定カテゴリの商品一覧
func (r *ItemGormRepository) ListPublishedByCategory(ctx context.Context, category model.ItemCategory) ([]model.Item, error) {
	var items []model.Item

	if err := r.db.WithContext(ctx).
		Where("published = ? AND category = ?", true, category).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return []model.Item{}, err
	}

	return items, nil
}

// 管理画面用：全商品
func (r *ItemGormRepository) ListAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item

	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return []model.Item{}, err
	}

	return items, nil
}

// IDで1件取得
func (r *ItemGormRepository) FindByID(ctx context.Context, id model.ItemID) (model.Item, error) {
	var item model.Item

	err := r.db.WithContext(ctx).
		Where("id = ?", []byte(id)).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// 一括登録（トランザクション）
func (r *ItemGormRepository) CreateBatch(ctx context.Context, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// 公開/非公開をまとめて切り替え
func (r *ItemGormRepository) SetPublished(ctx context.Context, ids []model.ItemID, published bool) error {
	if len(ids) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id IN ?", rawIDs(ids)).
		Update("published", published)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// まとめて売約済みにする
func (r *ItemGormRepository) MarkSold(ctx context.Context, ids []model.ItemID) error {
	if len(ids) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id IN ?", rawIDs(ids)).
		Update("sold", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 価格を設定
func (r *ItemGormRepository) SetPrice(ctx context.Context, id model.ItemID, priceInCents int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", []byte(id)).
		Update("price_in_cents", priceInCents)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カテゴリ内の全商品へ価格を一括設定。更新件数を返す。
func (r *ItemGormRepository) SetPriceByCategory(ctx context.Context, category model.ItemCategory, priceInCents int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("category = ?", category).
		Update("price_in_cents", priceInCents)

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// 説明文を更新
func (r *ItemGormRepository) UpdateDescription(ctx context.Context, id model.ItemID, description string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", []byte(id)).
		Update("description", description)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 写真を差し替え
func (r *ItemGormRepository) UpdatePhoto(ctx context.Context, id model.ItemID, photoURL string, contentType string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", []byte(id)).
		Updates(map[string]interface{}{
			"photo_url":    photoURL,
			"content_type": contentType,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 形状カテゴリ名の変更を商品側へ反映
func (r *ItemGormRepository) RenameShapeCategory(ctx context.Context, oldName string, newName string) error {
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("shape_category = ?", oldName).
		Update("shape_category", newName).Error
}

// gormのIN句に渡すため[]byteへ変換
func rawIDs(ids []model.ItemID) [][]byte {
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, []byte(id))
	}
	return out
}
