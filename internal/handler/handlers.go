package handler

import (
	"github.com/deppfellow/kwcluster/internal/server"
	"github.com/deppfellow/kwcluster/internal/service"
)

// Handlers groups all HTTP handlers so router setup takes one value.
type Handlers struct {
	Health  *HealthHandler  // Health serves GET /status.
	OpenAPI *OpenAPIHandler // OpenAPI serves GET /docs.
	Cluster *ClusterHandler // Cluster serves POST /process-keyword.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Cluster: NewClusterHandler(s, services.Cluster),
	}
}
