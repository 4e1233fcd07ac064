package middleware

import (
	"net/http"

	"github.com/djjoel12/talksellr/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// ログイン必須
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(string)
			if !ok || userID == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			return next(c)
		}
	}
}

// contextに入っているroleがvendorかどうかを確認します。
func VendorRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//client/adminは拒否、vendorだけ許可
			if role != string(model.RoleVendor) {
				return c.JSON(http.StatusForbidden, errorJSON("vendor only"))
			}

			return next(c)
		}
	}
}
