package model

import "time"

// 決済プロバイダ設定（1レコードのみ）。
// secret keyはAPIレスポンスに出さない。
type PaymentConfig struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	SecretKey        string    `gorm:"type:text;not null" json:"-"`
	AllowedCountries string    `gorm:"type:text;not null" json:"allowed_countries"` // カンマ区切り
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// secret keyが設定済みか
func (c PaymentConfig) Configured() bool {
	return c.SecretKey != ""
}
