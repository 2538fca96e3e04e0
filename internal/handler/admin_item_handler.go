package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/items をまとめる
type AdminItemHandler struct {
	uc *usecase.AdminItemUsecase
}

// DI
func NewAdminItemHandler(uc *usecase.AdminItemUsecase) *AdminItemHandler {
	return &AdminItemHandler{uc: uc}
}

type BulkUploadRequest struct {
	Items []usecase.BulkItemInput `json:"items"`
}

type ItemIDsRequest struct {
	ItemIDs []string `json:"item_ids"`
}

type SetPriceRequest struct {
	PriceInCents int64 `json:"price_in_cents"`
}

type UpdateDescriptionRequest struct {
	Description string `json:"description"`
}

type UpdatePhotoRequest struct {
	PhotoURL    string `json:"photo_url"`
	ContentType string `json:"content_type"`
}

// adminを登録
func (h *AdminItemHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/items", h.listItems)
	admin.POST("/items/bulk", h.bulkUpload)
	admin.POST("/items/publish", h.publish)
	admin.POST("/items/unpublish", h.unpublish)
	admin.POST("/items/sold", h.markSold)
	admin.PATCH("/items/:id/price", h.setPrice)
	admin.PATCH("/items/:id/description", h.updateDescription)
	admin.PATCH("/items/:id/photo", h.updatePhoto)
	admin.PATCH("/items/category/:category/price", h.setCategoryPrice)
	admin.GET("/audit-logs", h.listAuditLogs)
}

// contextから操作者principalを取り出す
func getActorFromContext(c echo.Context) (string, bool) {
	actor, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || actor == "" {
		return "", false
	}
	return actor, true
}

func (h *AdminItemHandler) listItems(c echo.Context) error {
	items, err := h.uc.ListAllItems(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *AdminItemHandler) bulkUpload(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req BulkUploadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ids, err := h.uc.BulkUploadItems(c.Request().Context(), actor, req.Items)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string][]string{"item_ids": ids})
}

func (h *AdminItemHandler) publish(c echo.Context) error {
	return h.setPublished(c, true)
}

func (h *AdminItemHandler) unpublish(c echo.Context) error {
	return h.setPublished(c, false)
}

func (h *AdminItemHandler) setPublished(c echo.Context, published bool) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ItemIDsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetItemsPublished(c.Request().Context(), actor, req.ItemIDs, published); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminItemHandler) markSold(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ItemIDsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.MarkItemsSold(c.Request().Context(), actor, req.ItemIDs); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminItemHandler) setPrice(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req SetPriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetItemPrice(c.Request().Context(), actor, c.Param("id"), req.PriceInCents); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminItemHandler) setCategoryPrice(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req SetPriceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	category := model.ItemCategory(c.Param("category"))
	updated, err := h.uc.SetCategoryPrice(c.Request().Context(), actor, category, req.PriceInCents)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated " + strconv.FormatInt(updated, 10) + " items"})
}

func (h *AdminItemHandler) updateDescription(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateDescriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateItemDescription(c.Request().Context(), actor, c.Param("id"), req.Description); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminItemHandler) listAuditLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	logs, err := h.uc.ListAuditLogs(c.Request().Context(), repo.AuditLogFilter{
		Actor:        c.QueryParam("actor"),
		Action:       model.AuditAction(c.QueryParam("action")),
		ResourceType: model.AuditResourceType(c.QueryParam("resource_type")),
		Limit:        limit,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, logs)
}

func (h *AdminItemHandler) updatePhoto(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdatePhotoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateItemPhoto(c.Request().Context(), actor, c.Param("id"), req.PhotoURL, req.ContentType); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}
