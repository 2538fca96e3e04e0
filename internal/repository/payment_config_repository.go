package repository

import (
	"app/internal/domain/model"
	"context"
)

// 決済プロバイダ設定は1レコード運用。
// 未設定時はGetがErrNotFoundを返す。
type PaymentConfigRepository interface {
	Get(ctx context.Context) (model.PaymentConfig, error)
	Save(ctx context.Context, cfg model.PaymentConfig) error
}
