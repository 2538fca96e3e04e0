package model

import "time"

// ストアのヒーロー文言。customでなければデフォルト表示。
type HeroText struct {
	Custom   bool   `gorm:"not null;default:false" json:"custom"`
	Title    string `gorm:"type:varchar(255)" json:"title"`
	Subtitle string `gorm:"type:varchar(255)" json:"subtitle"`
}

// ストアのブランディング設定（1レコードのみ）
type Branding struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	AppName      string    `gorm:"type:varchar(255);not null" json:"app_name"`
	LogoURL      string    `gorm:"type:text" json:"logo_url"`
	HeroMediaURL string    `gorm:"type:text" json:"hero_media_url"`
	HeroText     HeroText  `gorm:"embedded;embeddedPrefix:hero_" json:"hero_text"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
