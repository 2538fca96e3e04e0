package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PaymentConfigGormRepository struct {
	db *gorm.DB
}

// DI
func NewPaymentConfigGormRepository(db *gorm.DB) *PaymentConfigGormRepository {
	return &PaymentConfigGormRepository{db: db}
}

// 設定を取得（未設定ならErrNotFound）
func (r *PaymentConfigGormRepository) Get(ctx context.Context) (model.PaymentConfig, error) {
	var cfg model.PaymentConfig

	err := r.db.WithContext(ctx).
		Order("id asc").
		First(&cfg).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PaymentConfig{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PaymentConfig{}, err
	}
	return cfg, nil
}

// 1レコード運用：あれば更新、無ければ作成
func (r *PaymentConfigGormRepository) Save(ctx context.Context, cfg model.PaymentConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.PaymentConfig

		err := tx.Order("id asc").First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&cfg).Error
		}
		if err != nil {
			return err
		}

		cfg.ID = current.ID
		return tx.Save(&cfg).Error
	})
}
