package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type BrandingGormRepository struct {
	db *gorm.DB
}

// DI
func NewBrandingGormRepository(db *gorm.DB) *BrandingGormRepository {
	return &BrandingGormRepository{db: db}
}

// 設定レコードを取得（未設定ならErrNotFound）
func (r *BrandingGormRepository) Get(ctx context.Context) (model.Branding, error) {
	var b model.Branding

	err := r.db.WithContext(ctx).
		Order("id asc").
		First(&b).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Branding{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Branding{}, err
	}
	return b, nil
}

// 1レコード運用：あれば更新、無ければ作成
func (r *BrandingGormRepository) Save(ctx context.Context, b model.Branding) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Branding

		err := tx.Order("id asc").First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&b).Error
		}
		if err != nil {
			return err
		}

		b.ID = current.ID
		return tx.Save(&b).Error
	})
}

type ShapeCategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewShapeCategoryGormRepository(db *gorm.DB) *ShapeCategoryGormRepository {
	return &ShapeCategoryGormRepository{db: db}
}

// 登録順で一覧
func (r *ShapeCategoryGormRepository) List(ctx context.Context) ([]model.ShapeCategory, error) {
	var cats []model.ShapeCategory

	if err := r.db.WithContext(ctx).
		Order("id asc").
		Find(&cats).Error; err != nil {
		return []model.ShapeCategory{}, err
	}

	return cats, nil
}

// 追加
func (r *ShapeCategoryGormRepository) Create(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Create(&model.ShapeCategory{Name: name}).Error
}

// 改名
func (r *ShapeCategoryGormRepository) Rename(ctx context.Context, oldName string, newName string) error {
	res := r.db.WithContext(ctx).
		Model(&model.ShapeCategory{}).
		Where("name = ?", oldName).
		Update("name", newName)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 存在チェック
func (r *ShapeCategoryGormRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.ShapeCategory{}).
		Where("name = ?", name).
		Count(&count).Error

	if err != nil {
		return false, err
	}
	return count > 0, nil
}
