package model

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// 商品カテゴリ（陶器 / 3Dプリント）
type ItemCategory string

const (
	ItemCategoryCeramic ItemCategory = "ceramic"
	ItemCategoryPrinted ItemCategory = "printed"
)

// カテゴリ値が定義済みか
func (c ItemCategory) Valid() bool {
	return c == ItemCategoryCeramic || c == ItemCategoryPrinted
}

// ItemID は商品を一意に識別する不透明なバイト列。
// 比較は必ずバイト値で行う（参照比較は禁止）。
type ItemID []byte

var ErrInvalidItemID = errors.New("invalid item id")

// 新しいIDを発行（16バイト乱数）
func NewItemID() ItemID {
	u := uuid.New()
	return ItemID(u[:])
}

// map用の正規化キー
func (id ItemID) Key() string {
	return string(id)
}

// URLセーフなbase64表現（パディングなし）
func (id ItemID) String() string {
	return base64.RawURLEncoding.EncodeToString(id)
}

// URL表現からIDを復元する
func ParseItemID(s string) (ItemID, error) {
	if s == "" {
		return nil, ErrInvalidItemID
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || len(b) == 0 {
		return nil, ErrInvalidItemID
	}
	return ItemID(b), nil
}

// 商品。priceInCents が 0 のものは「価格未設定」扱い。
type Item struct {
	ID            ItemID       `gorm:"type:bytea;primaryKey" json:"id"`
	Title         string       `gorm:"type:varchar(255);not null" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	PriceInCents  int64        `gorm:"not null;default:0" json:"price_in_cents"`
	Sold          bool         `gorm:"not null;default:false" json:"sold"`
	Published     bool         `gorm:"not null;default:false" json:"published"`
	Category      ItemCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	ShapeCategory string       `gorm:"type:varchar(100);not null;index" json:"shape_category"`
	PhotoURL      string       `gorm:"type:text" json:"photo_url"`
	ContentType   string       `gorm:"type:varchar(100)" json:"content_type"`
	CreatedBy     string       `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt     time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 決済対象にできるか（売約済みでなく、価格が設定済み）
func (i Item) Purchasable() bool {
	return !i.Sold && i.PriceInCents > 0
}
