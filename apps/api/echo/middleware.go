package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// pengawasMiddleware only lets supervisor tokens through.
func pengawasMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsPengawas && claims.Subject != "" {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
