package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/lifedoc/lifedoc/internal/platform/apperr"
)

// RequireAdmin must run after JWTMiddleware.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireType(TypeAdmin)
}

// RequireType admits callers whose "type" claim is one of types.
func RequireType(types ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			has := TypeFromContext(c.Request().Context())
			for _, t := range types {
				if has == t {
					return next(c)
				}
			}
			return apperr.Forbidden("Access denied: Admin only")
		}
	}
}
