package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/kwcluster/internal/errs"
)

// RequireMethod rejects requests whose method is not one of methods with
// a 405 "Method Not Allowed".
//
// Routes using it are registered with echo's Any so that HEAD and
// OPTIONS reach this check instead of echo's built-in handling. CORS
// preflights from allowed origins are answered earlier by CORS.
func RequireMethod(methods ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		allowed[m] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[c.Request().Method]; !ok {
				return errs.NewMethodNotAllowedError()
			}
			return next(c)
		}
	}
}
