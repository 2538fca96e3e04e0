package model

import "time"

// 形状サブカテゴリ。管理画面から動的に追加・改名できる。
type ShapeCategory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
