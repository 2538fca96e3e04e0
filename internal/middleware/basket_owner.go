package middleware

import (
	"net/http"
	"strings"

	"app/internal/config"

	"github.com/labstack/echo/v4"
)

const (
	CtxBasketOwnerKey = "basket_owner" // string

	//ゲストセッション用ヘッダ
	SessionHeader = "X-Session-ID"
)

// BasketOwner はバスケットの所有者を決める。
// ログイン済みならJWTのsub、未ログインならX-Session-IDヘッダを使う。
// どちらも無ければ401。
func BasketOwner(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sub, role, ok := parseBearer(c, cfg); ok {
				c.Set(CtxUserIDKey, sub)
				c.Set(CtxUserRoleKey, role)
				c.Set(CtxBasketOwnerKey, "user:"+sub)
				return next(c)
			}

			sid := strings.TrimSpace(c.Request().Header.Get(SessionHeader))
			if sid == "" || len(sid) > 128 {
				return c.JSON(http.StatusUnauthorized, errorJSON("missing session"))
			}

			c.Set(CtxBasketOwnerKey, "guest:"+sid)
			return next(c)
		}
	}
}
