package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/payment をまとめる
type AdminPaymentHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewAdminPaymentHandler(uc *usecase.CheckoutUsecase) *AdminPaymentHandler {
	return &AdminPaymentHandler{uc: uc}
}

type SetPaymentConfigRequest struct {
	SecretKey        string   `json:"secret_key"`
	AllowedCountries []string `json:"allowed_countries"`
}

// adminを登録
func (h *AdminPaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.PUT("/payment/config", h.setConfig)
}

func (h *AdminPaymentHandler) setConfig(c echo.Context) error {
	var req SetPaymentConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.SetPaymentConfig(c.Request().Context(), req.SecretKey, req.AllowedCountries); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}
