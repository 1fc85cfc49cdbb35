package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deppfellow/kwcluster/internal/handler"
)

// registerSystemRoutes registers the endpoints that are not part of the
// clustering API: health, docs and Prometheus metrics.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/docs", h.OpenAPI.ServeOpenAPI)
	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
