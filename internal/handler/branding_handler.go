package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ブランディングと形状カテゴリのHTTP
type BrandingHandler struct {
	uc *usecase.BrandingUsecase
}

// DI
func NewBrandingHandler(uc *usecase.BrandingUsecase) *BrandingHandler {
	return &BrandingHandler{uc: uc}
}

type AddShapeCategoryRequest struct {
	Name string `json:"name"`
}

type RenameShapeCategoryRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// 公開ルートと管理ルートを登録
func (h *BrandingHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/branding", h.getBranding)
	e.GET("/shape-categories", h.listShapeCategories)

	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.PUT("/branding", h.setBranding)
	admin.POST("/shape-categories", h.addShapeCategory)
	admin.PATCH("/shape-categories", h.renameShapeCategory)
}

func (h *BrandingHandler) getBranding(c echo.Context) error {
	b, err := h.uc.GetBranding(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	//未設定はnullを返す
	return c.JSON(http.StatusOK, b)
}

func (h *BrandingHandler) setBranding(c echo.Context) error {
	var req usecase.SetBrandingInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetBranding(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *BrandingHandler) listShapeCategories(c echo.Context) error {
	names, err := h.uc.ListShapeCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, names)
}

func (h *BrandingHandler) addShapeCategory(c echo.Context) error {
	var req AddShapeCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AddShapeCategory(c.Request().Context(), req.Name); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{Message: "created"})
}

func (h *BrandingHandler) renameShapeCategory(c echo.Context) error {
	var req RenameShapeCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.RenameShapeCategory(c.Request().Context(), req.OldName, req.NewName); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "renamed"})
}
