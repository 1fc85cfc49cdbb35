package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/kwcluster/internal/handler"
	"github.com/deppfellow/kwcluster/internal/middleware"
	"github.com/deppfellow/kwcluster/internal/service"
)

// clusterPaths are the paths the clustering endpoint answers on. The
// second keeps the path the existing frontend posts to.
var clusterPaths = []string{
	"/process-keyword",
	"/.netlify/functions/process-keyword",
}

// registerClusterRoutes mounts POST /process-keyword.
//
// The route accepts any method and rejects all but POST itself, so every
// other method gets the service's 405 body.
func registerClusterRoutes(r *echo.Echo, h *handler.Handlers) {
	processKeyword := handler.Handle[*service.ClusterRequest, *service.ClusterResponse](
		h.Cluster.Handler,
		h.Cluster.ProcessKeyword,
		http.StatusOK,
		handler.NewClusterRequest,
	)

	for _, path := range clusterPaths {
		r.Any(path, processKeyword, middleware.RequireMethod(http.MethodPost))
	}
}
