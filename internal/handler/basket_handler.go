package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /basketのHTTP
type BasketHandler struct {
	uc *usecase.BasketUsecase
}

// DI
func NewBasketHandler(uc *usecase.BasketUsecase) *BasketHandler {
	return &BasketHandler{uc: uc}
}

type AddBasketRequest struct {
	ItemID string `json:"item_id"`
}

// /basket を登録
func (h *BasketHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/basket")
	g.Use(middleware.BasketOwner(cfg))

	g.GET("", h.getBasket)
	g.POST("/items", h.addItem)
	g.DELETE("/items/:id", h.removeItem)
	g.DELETE("", h.clear)
}

// contextからバスケット所有者を取り出す
func getOwnerFromContext(c echo.Context) (string, bool) {
	owner, ok := c.Get(middleware.CtxBasketOwnerKey).(string)
	if !ok || owner == "" {
		return "", false
	}
	return owner, true
}

func (h *BasketHandler) getBasket(c echo.Context) error {
	owner, ok := getOwnerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
	}

	out, err := h.uc.GetBasket(c.Request().Context(), owner)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) addItem(c echo.Context) error {
	owner, ok := getOwnerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
	}

	var req AddBasketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddToBasket(c.Request().Context(), owner, req.ItemID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) removeItem(c echo.Context) error {
	owner, ok := getOwnerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
	}

	out, err := h.uc.RemoveFromBasket(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *BasketHandler) clear(c echo.Context) error {
	owner, ok := getOwnerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
	}

	if err := h.uc.ClearBasket(c.Request().Context(), owner); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "basket cleared"})
}
