package usecase

import (
	"context"
	"net/http"
	"sort"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 店頭一覧の表示モード
type ViewMode string

const (
	ViewModeAll       ViewMode = "all"
	ViewModePriceAsc  ViewMode = "priceAsc"
	ViewModePriceDesc ViewMode = "priceDesc"
	ViewModeCategory  ViewMode = "category"
)

// モード値が定義済みか
func (m ViewMode) Valid() bool {
	switch m {
	case ViewModeAll, ViewModePriceAsc, ViewModePriceDesc, ViewModeCategory:
		return true
	}
	return false
}

// ApplyViewMode は表示モードに従って絞り込み・並べ替えを行う。
// 入力スライスは変更せず、新しいスライスを返す。
func ApplyViewMode(items []model.Item, mode ViewMode, category model.ItemCategory) []model.Item {
	result := make([]model.Item, len(items))
	copy(result, items)

	switch mode {
	case ViewModePriceAsc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].PriceInCents < result[j].PriceInCents
		})

	case ViewModePriceDesc:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].PriceInCents > result[j].PriceInCents
		})

	case ViewModeCategory:
		filtered := result[:0]
		for _, item := range result {
			if item.Category == category {
				filtered = append(filtered, item)
			}
		}
		result = filtered
	}

	return result
}

// ViewModeLabel は表示モードのUIラベルを返す。
func ViewModeLabel(mode ViewMode, category model.ItemCategory) string {
	switch mode {
	case ViewModePriceAsc:
		return "Price: Low to High"
	case ViewModePriceDesc:
		return "Price: High to Low"
	case ViewModeCategory:
		if category == model.ItemCategoryPrinted {
			return "Category: 3D printed"
		}
		return "Category: Ceramic"
	default:
		return "All items"
	}
}

// ItemUsecase は公開側の商品参照ロジック。
type ItemUsecase struct {
	itemRepo     repo.ItemRepository
	brandingRepo repo.BrandingRepository
}

// DI
func NewItemUsecase(itemRepo repo.ItemRepository, brandingRepo repo.BrandingRepository) *ItemUsecase {
	return &ItemUsecase{
		itemRepo:     itemRepo,
		brandingRepo: brandingRepo,
	}
}

// 公開中の商品一覧
func (u *ItemUsecase) GetItems(ctx context.Context) ([]model.Item, error) {
	items, err := u.itemRepo.ListPublished(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// カテゴリ指定の公開商品一覧
func (u *ItemUsecase) GetItemsByCategory(ctx context.Context, category model.ItemCategory) ([]model.Item, error) {
	if !category.Valid() {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	items, err := u.itemRepo.ListPublishedByCategory(ctx, category)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 商品詳細（非公開は404扱い）
func (u *ItemUsecase) GetItem(ctx context.Context, id model.ItemID) (model.Item, error) {
	item, err := u.itemRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Item{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Item{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !item.Published {
		return model.Item{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return item, nil
}

// 店頭トップのレスポンス
type StorefrontOutput struct {
	Branding *model.Branding `json:"branding,omitempty"`
	Mode     ViewMode        `json:"mode"`
	Label    string          `json:"label"`
	Items    []model.Item    `json:"items"`
}

// GetStorefront はブランディングと表示モード適用済みの公開商品を返す。
// ブランディング未設定はnilのまま返す（エラーにしない）。
func (u *ItemUsecase) GetStorefront(ctx context.Context, mode ViewMode, category model.ItemCategory) (StorefrontOutput, error) {
	if mode == "" {
		mode = ViewModeAll
	}
	if !mode.Valid() {
		return StorefrontOutput{}, NewHTTPError(http.StatusBadRequest, "invalid mode")
	}
	if mode == ViewModeCategory && !category.Valid() {
		return StorefrontOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	items, err := u.itemRepo.ListPublished(ctx)
	if err != nil {
		return StorefrontOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := StorefrontOutput{
		Mode:  mode,
		Label: ViewModeLabel(mode, category),
		Items: ApplyViewMode(items, mode, category),
	}

	b, err := u.brandingRepo.Get(ctx)
	if err == nil {
		out.Branding = &b
	} else if err != repo.ErrNotFound {
		return StorefrontOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return out, nil
}
