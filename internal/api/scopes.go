package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/logscope/internal/api/models"
)

// registerScopeRoutes registers the scope listing endpoint
func (s *Server) registerScopeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-scopes",
		Method:      http.MethodGet,
		Path:        "/api/scopes",
		Summary:     "List Scopes",
		Description: "List every live scope with its parent and the logging frameworks detected in it",
		Tags:        []string{"scopes"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.ScopeListResponse, error) {
		scopes := s.engine.Scopes()
		return &models.ScopeListResponse{
			Body: models.ScopeListData{
				Scopes: scopes,
				Count:  len(scopes),
			},
		}, nil
	})
}
