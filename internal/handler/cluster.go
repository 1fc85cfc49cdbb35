package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/kwcluster/internal/server"
	"github.com/deppfellow/kwcluster/internal/service"
)

// Clusterer is the part of service.ClusterService the handler uses.
type Clusterer interface {
	Cluster(ctx context.Context, req *service.ClusterRequest) (*service.ClusterResponse, error)
}

// ClusterHandler serves the keyword clustering endpoint.
type ClusterHandler struct {
	Handler
	clusters Clusterer
}

// NewClusterHandler constructs a ClusterHandler.
func NewClusterHandler(s *server.Server, clusters Clusterer) *ClusterHandler {
	return &ClusterHandler{
		Handler:  NewHandler(s),
		clusters: clusters,
	}
}

// ProcessKeyword clusters the "People Also Ask" questions of a keyword.
func (h *ClusterHandler) ProcessKeyword(c echo.Context, req *service.ClusterRequest) (*service.ClusterResponse, error) {
	return h.clusters.Cluster(c.Request().Context(), req)
}

// NewClusterRequest allocates the payload for one request.
func NewClusterRequest() *service.ClusterRequest {
	return &service.ClusterRequest{}
}
