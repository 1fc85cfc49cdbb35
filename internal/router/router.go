// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps paths to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/kwcluster/internal/handler"
	"github.com/deppfellow/kwcluster/internal/middleware"
	"github.com/deppfellow/kwcluster/internal/server"
)

// NewRouter builds the echo instance serving the whole API.
//
// Middleware order matters: the request id must exist before the
// request logger is built, and the access log must sit outside Recover
// so that recovered panics are logged with their final status.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	r := echo.New()
	r.HideBanner = true
	r.HidePort = true

	r.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	r.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(r, h)
	registerClusterRoutes(r, h)

	return r
}
