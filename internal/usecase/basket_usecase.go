package usecase

import (
	"context"
	"net/http"

	"app/internal/basket"
	"app/internal/domain/model"
	"app/internal/platform/metrics"
	repo "app/internal/repository"
)

// BasketUsecase は /basket の業務ロジック。
// Storeの中身はIDのみで、表示用の商品情報は毎回引き直す。
type BasketUsecase struct {
	baskets  *basket.Manager
	itemRepo repo.ItemRepository
	metrics  *metrics.Metrics
}

// DI
func NewBasketUsecase(baskets *basket.Manager, itemRepo repo.ItemRepository, m *metrics.Metrics) *BasketUsecase {
	return &BasketUsecase{
		baskets:  baskets,
		itemRepo: itemRepo,
		metrics:  m,
	}
}

type BasketOutput struct {
	ItemIDs []string     `json:"item_ids"`
	Items   []model.Item `json:"items"`
	Count   int          `json:"count"`
}

// GetBasket はバスケットの中身を返す。
// 既に存在しない商品のIDは表示から落とす（IDは残す）。
func (u *BasketUsecase) GetBasket(ctx context.Context, owner string) (BasketOutput, error) {
	if owner == "" {
		return BasketOutput{}, NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	store := u.baskets.ForOwner(ctx, owner)
	ids := store.Items()

	out := BasketOutput{
		ItemIDs: make([]string, 0, len(ids)),
		Items:   make([]model.Item, 0, len(ids)),
		Count:   len(ids),
	}

	for _, id := range ids {
		out.ItemIDs = append(out.ItemIDs, id.String())

		item, err := u.itemRepo.FindByID(ctx, id)
		if err != nil {
			continue
		}
		out.Items = append(out.Items, item)
	}

	return out, nil
}

// AddToBasket は商品をバスケットへ入れる（重複追加は何もしない）。
func (u *BasketUsecase) AddToBasket(ctx context.Context, owner string, rawID string) (BasketOutput, error) {
	if owner == "" {
		return BasketOutput{}, NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	id, err := model.ParseItemID(rawID)
	if err != nil {
		return BasketOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	//実在チェック（売約済みでも入れられる。精査はチェックアウト時）
	if _, err := u.itemRepo.FindByID(ctx, id); err == repo.ErrNotFound {
		return BasketOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
	} else if err != nil {
		return BasketOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	store := u.baskets.ForOwner(ctx, owner)
	if store.Add(ctx, id) {
		u.metrics.IncBasketOp("add")
	}

	return u.GetBasket(ctx, owner)
}

// RemoveFromBasket は商品を取り除く（入っていなければ何もしない）。
func (u *BasketUsecase) RemoveFromBasket(ctx context.Context, owner string, rawID string) (BasketOutput, error) {
	if owner == "" {
		return BasketOutput{}, NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	id, err := model.ParseItemID(rawID)
	if err != nil {
		return BasketOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	store := u.baskets.ForOwner(ctx, owner)
	if store.Remove(ctx, id) {
		u.metrics.IncBasketOp("remove")
	}

	return u.GetBasket(ctx, owner)
}

// ClearBasket は全件破棄。
func (u *BasketUsecase) ClearBasket(ctx context.Context, owner string) error {
	if owner == "" {
		return NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	u.baskets.ForOwner(ctx, owner).Clear(ctx)
	u.metrics.IncBasketOp("clear")
	return nil
}
