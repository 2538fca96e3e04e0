package validator

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"app/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

type itemValidator struct{}

// Usecaseは interface を依存注入
func NewItemValidator() usecase.ItemValidator {
	return &itemValidator{}
}

// 一括登録の1件分を検証
func (v *itemValidator) ValidateBulkItem(ctx context.Context, in usecase.BulkItemInput) error {
	title := strings.TrimSpace(in.Title)

	// 必須チェック
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > 255 {
		return errors.New("title too long")
	}

	// カテゴリは定義済みの値のみ
	if !in.Category.Valid() {
		return errors.New("invalid category")
	}

	if err := v.ValidateShapeCategoryName(ctx, in.ShapeCategory); err != nil {
		return err
	}

	if utf8.RuneCountInString(in.Description) > 5000 {
		return errors.New("description too long")
	}

	return nil
}

// 形状カテゴリ名を検証（空白のみは不可）
func (v *itemValidator) ValidateShapeCategoryName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("shape category is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return errors.New("shape category too long")
	}
	return nil
}
