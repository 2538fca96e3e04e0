package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New はルート登録済みのechoインスタンスを作る。
func New(
	cfg config.Config,
	itemH *handler.ItemHandler,
	basketH *handler.BasketHandler,
	checkoutH *handler.CheckoutHandler,
	brandingH *handler.BrandingHandler,
	adminItemH *handler.AdminItemHandler,
	adminPaymentH *handler.AdminPaymentHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())

	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: []string{cfg.FEURL},
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "X-Session-ID"},
		}))
	}

	itemH.RegisterRoutes(e)
	basketH.RegisterRoutes(e, cfg)
	checkoutH.RegisterRoutes(e, cfg)
	brandingH.RegisterRoutes(e, cfg)
	adminItemH.RegisterRoutes(e, cfg)
	adminPaymentH.RegisterRoutes(e, cfg)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
