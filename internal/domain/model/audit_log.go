package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	//公開状態を変更した操作。
	AuditActionSetPublished AuditAction = "SET_PUBLISHED"
	//売約済みにした操作。
	AuditActionMarkSold AuditAction = "MARK_SOLD"
	//価格を変更した操作。
	AuditActionSetPrice AuditAction = "SET_PRICE"
	//説明文・写真を変更した操作。
	AuditActionUpdateItem AuditAction = "UPDATE_ITEM"
	//一括登録の操作。
	AuditActionBulkUpload AuditAction = "BULK_UPLOAD"
)

// 何に対する操作か
type AuditResourceType string

const (
	//商品に対する操作。
	AuditResourceItem AuditResourceType = "item"

	//ブランディングに対する操作。
	AuditResourceBranding AuditResourceType = "branding"

	//形状カテゴリに対する操作。
	AuditResourceShapeCategory AuditResourceType = "shape_category"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	//IDは監査ログの主キー
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のprincipal。
	Actor string `gorm:"type:varchar(255);not null;index" json:"actor"`

	//Actionは操作の種類。
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//対象の種類（item / branding / shape_category）。
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	//対象のID（商品はbase64表現）。
	ResourceID string `gorm:"type:varchar(255);not null;index" json:"resource_id"`

	//変更内容の補足。JSON文字列で保存する。
	DetailJSON string `gorm:"type:text" json:"detail_json"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
