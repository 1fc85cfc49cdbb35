package service

import (
	"github.com/deppfellow/kwcluster/internal/lib/gemini"
	"github.com/deppfellow/kwcluster/internal/lib/httpclient"
	"github.com/deppfellow/kwcluster/internal/lib/serper"
	"github.com/deppfellow/kwcluster/internal/server"
)

// Services groups the business services the handlers depend on.
type Services struct {
	Cluster *ClusterService
}

// NewServices wires the provider clients from the server config.
//
// Provider keys are read once here and injected; nothing reads the
// environment at request time.
func NewServices(s *server.Server) (*Services, error) {
	httpClient := httpclient.New(s.Logger, nil)

	questions := serper.NewClient(s.Config.Providers.Search, httpClient)
	generator := gemini.NewClient(s.Config.Providers.Generation, httpClient)

	return &Services{
		Cluster: NewClusterService(questions, generator),
	}, nil
}
