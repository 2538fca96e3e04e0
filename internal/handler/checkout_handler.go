package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkoutのHTTP
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type CheckoutRequest struct {
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type CompletePaymentRequest struct {
	SessionID string `json:"session_id"`
}

// /checkout を登録
func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/payment/configured", h.paymentConfigured)

	g := e.Group("/checkout")
	g.Use(middleware.BasketOwner(cfg))

	g.POST("", h.checkout)
	g.POST("/complete", h.complete)
	g.POST("/cancel", h.cancel)
	g.GET("/sessions/:id", h.sessionStatus)
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	owner, ok := getOwnerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
	}

	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Checkout(c.Request().Context(), owner, usecase.CheckoutInput{
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		return writeError(c, err)
	}

	//購入可能な商品が無い場合は409で中身を返す（プロバイダ未接続）
	if out.State == usecase.CheckoutStateBlockedAllIneligible {
		return c.JSON(http.StatusConflict, out)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) complete(c echo.Context) error {
	owner, ok := getOwnerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
	}

	var req CompletePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CompletePayment(c.Request().Context(), owner, req.SessionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) cancel(c echo.Context) error {
	owner, ok := getOwnerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing session"})
	}

	if err := h.uc.CancelPayment(c.Request().Context(), owner); err != nil {
		return writeError(c, err)
	}

	//バスケットは残っている
	return c.JSON(http.StatusOK, SuccessResponse{Message: "payment cancelled"})
}

func (h *CheckoutHandler) sessionStatus(c echo.Context) error {
	status, err := h.uc.GetSessionStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, status)
}

func (h *CheckoutHandler) paymentConfigured(c echo.Context) error {
	configured, err := h.uc.PaymentConfigured(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"configured": configured})
}
