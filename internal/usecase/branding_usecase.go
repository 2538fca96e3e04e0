package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// BrandingUsecase はブランディング設定と形状カテゴリの管理。
type BrandingUsecase struct {
	brandingRepo repo.BrandingRepository
	shapeRepo    repo.ShapeCategoryRepository
	itemRepo     repo.ItemRepository
	validator    ItemValidator
}

// DI
func NewBrandingUsecase(
	brandingRepo repo.BrandingRepository,
	shapeRepo repo.ShapeCategoryRepository,
	itemRepo repo.ItemRepository,
	validator ItemValidator,
) *BrandingUsecase {
	return &BrandingUsecase{
		brandingRepo: brandingRepo,
		shapeRepo:    shapeRepo,
		itemRepo:     itemRepo,
		validator:    validator,
	}
}

// GetBranding は設定を返す。未設定ならnil（エラーにしない）。
func (u *BrandingUsecase) GetBranding(ctx context.Context) (*model.Branding, error) {
	b, err := u.brandingRepo.Get(ctx)
	if err == repo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return &b, nil
}

type SetBrandingInput struct {
	AppName      string `json:"app_name"`
	LogoURL      string `json:"logo_url"`
	HeroMediaURL string `json:"hero_media_url"`
	HeroCustom   bool   `json:"hero_custom"`
	HeroTitle    string `json:"hero_title"`
	HeroSubtitle string `json:"hero_subtitle"`
}

// SetBranding は設定を保存する。
func (u *BrandingUsecase) SetBranding(ctx context.Context, in SetBrandingInput) error {
	if strings.TrimSpace(in.AppName) == "" {
		return NewHTTPError(http.StatusBadRequest, "app_name is required")
	}
	if in.HeroCustom && strings.TrimSpace(in.HeroTitle) == "" {
		return NewHTTPError(http.StatusBadRequest, "hero_title is required")
	}

	b := model.Branding{
		AppName:      strings.TrimSpace(in.AppName),
		LogoURL:      in.LogoURL,
		HeroMediaURL: in.HeroMediaURL,
		HeroText: model.HeroText{
			Custom:   in.HeroCustom,
			Title:    in.HeroTitle,
			Subtitle: in.HeroSubtitle,
		},
	}

	if err := u.brandingRepo.Save(ctx, b); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 形状カテゴリの一覧（名前のみ）
func (u *BrandingUsecase) ListShapeCategories(ctx context.Context) ([]string, error) {
	cats, err := u.shapeRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names, nil
}

// 形状カテゴリを追加（重複は409）
func (u *BrandingUsecase) AddShapeCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := u.validator.ValidateShapeCategoryName(ctx, name); err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}

	exists, err := u.shapeRepo.Exists(ctx, name)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return NewHTTPError(http.StatusConflict, "shape category already exists")
	}

	if err := u.shapeRepo.Create(ctx, name); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// RenameShapeCategory は改名し、商品側のカテゴリ名も追従させる。
func (u *BrandingUsecase) RenameShapeCategory(ctx context.Context, oldName string, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)

	if oldName == "" {
		return NewHTTPError(http.StatusBadRequest, "old name is required")
	}
	if err := u.validator.ValidateShapeCategoryName(ctx, newName); err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if oldName == newName {
		return nil
	}

	exists, err := u.shapeRepo.Exists(ctx, newName)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return NewHTTPError(http.StatusConflict, "shape category already exists")
	}

	if err := u.shapeRepo.Rename(ctx, oldName, newName); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//商品側への反映
	if err := u.itemRepo.RenameShapeCategory(ctx, oldName, newName); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
