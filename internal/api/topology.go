package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/logscope/internal/api/models"
)

// registerTopologyRoutes registers the topology reload endpoint
func (s *Server) registerTopologyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "reload-topology",
		Method:      http.MethodPost,
		Path:        "/api/topology/reload",
		Summary:     "Reload Topology",
		Description: "Rebuild the host scopes from the topology file; the previous scopes stay when the file is invalid",
		Tags:        []string{"topology"},
		Errors:      []int{401, 422, 503},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.TopologyReloadResponse, error) {
		if s.topology == nil {
			return nil, huma.Error503ServiceUnavailable("no topology file configured")
		}
		if err := s.topology.Reload(); err != nil {
			return nil, huma.Error422UnprocessableEntity("topology reload failed", err)
		}

		resp := &models.TopologyReloadResponse{}
		resp.Body.Message = "Topology reloaded"
		if d := s.topology.Deployment(); d != nil {
			resp.Body.Scopes = len(d.Scopes())
		}
		return resp, nil
	})
}
