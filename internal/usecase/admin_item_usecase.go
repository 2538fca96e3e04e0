package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 一括登録の入力を検証する約束。実装はvalidatorパッケージ。
type ItemValidator interface {
	ValidateBulkItem(ctx context.Context, in BulkItemInput) error
	ValidateShapeCategoryName(ctx context.Context, name string) error
}

// 一括登録の1件分
type BulkItemInput struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Category      model.ItemCategory `json:"category"`
	ShapeCategory string             `json:"shape_category"`
	PhotoURL      string             `json:"photo_url"`
	ContentType   string             `json:"content_type"`
}

// AdminItemUsecase は管理画面の商品操作。
// 変更系は監査ログを1件残す（ログ失敗で操作は巻き戻さない）。
type AdminItemUsecase struct {
	itemRepo  repo.ItemRepository
	auditRepo repo.AuditLogRepository
	validator ItemValidator
	log       *zap.Logger
}

// DI
func NewAdminItemUsecase(
	itemRepo repo.ItemRepository,
	auditRepo repo.AuditLogRepository,
	validator ItemValidator,
	log *zap.Logger,
) *AdminItemUsecase {
	return &AdminItemUsecase{
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		validator: validator,
		log:       log,
	}
}

// 管理画面用の全商品一覧
func (u *AdminItemUsecase) ListAllItems(ctx context.Context) ([]model.Item, error) {
	items, err := u.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// BulkUploadItems は商品をまとめて登録し、発行したIDを返す。
// 登録直後は非公開・価格未設定。
func (u *AdminItemUsecase) BulkUploadItems(ctx context.Context, actor string, inputs []BulkItemInput) ([]string, error) {
	if len(inputs) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "no items")
	}

	items := make([]model.Item, 0, len(inputs))
	for _, in := range inputs {
		if err := u.validator.ValidateBulkItem(ctx, in); err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, err.Error())
		}

		items = append(items, model.Item{
			ID:            model.NewItemID(),
			Title:         in.Title,
			Description:   in.Description,
			Category:      in.Category,
			ShapeCategory: in.ShapeCategory,
			PhotoURL:      in.PhotoURL,
			ContentType:   in.ContentType,
			CreatedBy:     actor,
		})
	}

	if err := u.itemRepo.CreateBatch(ctx, items); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID.String())
	}

	u.audit(ctx, actor, model.AuditActionBulkUpload, "", map[string]interface{}{
		"count": len(items),
	})
	return ids, nil
}

// 公開/非公開をまとめて切り替え
func (u *AdminItemUsecase) SetItemsPublished(ctx context.Context, actor string, rawIDs []string, published bool) error {
	ids, err := parseItemIDs(rawIDs)
	if err != nil {
		return err
	}

	if err := u.itemRepo.SetPublished(ctx, ids, published); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actor, model.AuditActionSetPublished, "", map[string]interface{}{
		"ids":       rawIDs,
		"published": published,
	})
	return nil
}

// まとめて売約済みにする（決済完了後に呼ばれる想定）
func (u *AdminItemUsecase) MarkItemsSold(ctx context.Context, actor string, rawIDs []string) error {
	ids, err := parseItemIDs(rawIDs)
	if err != nil {
		return err
	}

	if err := u.itemRepo.MarkSold(ctx, ids); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actor, model.AuditActionMarkSold, "", map[string]interface{}{
		"ids": rawIDs,
	})
	return nil
}

// 価格を設定（0は「価格未設定」に戻す）
func (u *AdminItemUsecase) SetItemPrice(ctx context.Context, actor string, rawID string, priceInCents int64) error {
	id, err := model.ParseItemID(rawID)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	if priceInCents < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	if err := u.itemRepo.SetPrice(ctx, id, priceInCents); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actor, model.AuditActionSetPrice, rawID, map[string]interface{}{
		"price_in_cents": priceInCents,
	})
	return nil
}

// カテゴリ内全商品の価格を一括設定。更新件数を返す。
func (u *AdminItemUsecase) SetCategoryPrice(ctx context.Context, actor string, category model.ItemCategory, priceInCents int64) (int64, error) {
	if !category.Valid() {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if priceInCents < 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	updated, err := u.itemRepo.SetPriceByCategory(ctx, category, priceInCents)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actor, model.AuditActionSetPrice, string(category), map[string]interface{}{
		"price_in_cents": priceInCents,
		"updated":        updated,
	})
	return updated, nil
}

// 説明文を更新
func (u *AdminItemUsecase) UpdateItemDescription(ctx context.Context, actor string, rawID string, description string) error {
	id, err := model.ParseItemID(rawID)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	if err := u.itemRepo.UpdateDescription(ctx, id, description); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actor, model.AuditActionUpdateItem, rawID, map[string]interface{}{
		"field": "description",
	})
	return nil
}

// 写真を差し替え
func (u *AdminItemUsecase) UpdateItemPhoto(ctx context.Context, actor string, rawID string, photoURL string, contentType string) error {
	id, err := model.ParseItemID(rawID)
	if err != nil {
		return NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	if photoURL == "" {
		return NewHTTPError(http.StatusBadRequest, "photo_url is required")
	}

	if err := u.itemRepo.UpdatePhoto(ctx, id, photoURL, contentType); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.audit(ctx, actor, model.AuditActionUpdateItem, rawID, map[string]interface{}{
		"field": "photo",
	})
	return nil
}

// 監査ログの閲覧（新しい順）
func (u *AdminItemUsecase) ListAuditLogs(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// 監査ログを書く。失敗は操作を巻き戻さずログのみ。
func (u *AdminItemUsecase) audit(ctx context.Context, actor string, action model.AuditAction, resourceID string, detail map[string]interface{}) {
	detailJSON, _ := json.Marshal(detail)

	err := u.auditRepo.Create(ctx, model.AuditLog{
		Actor:        actor,
		Action:       action,
		ResourceType: model.AuditResourceItem,
		ResourceID:   resourceID,
		DetailJSON:   string(detailJSON),
	})
	if err != nil {
		u.log.Warn("audit log write failed",
			zap.String("action", string(action)), zap.Error(err))
	}
}

func parseItemIDs(rawIDs []string) ([]model.ItemID, error) {
	if len(rawIDs) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "no item ids")
	}

	ids := make([]model.ItemID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := model.ParseItemID(raw)
		if err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid item id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
