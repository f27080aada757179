package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/logscope/internal/api/models"
	"github.com/smazurov/logscope/internal/engine"
	"github.com/smazurov/logscope/internal/host"
)

// registerLoggerRoutes registers logger listing and level endpoints
func (s *Server) registerLoggerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-loggers",
		Method:      http.MethodGet,
		Path:        "/api/loggers",
		Summary:     "List Loggers",
		Description: "List loggers of every detected framework, across all scopes or in the scope named by hash or type",
		Tags:        []string{"loggers"},
		Errors:      []int{401, 404, 409},
		Security:    withAuth(),
	}, func(_ context.Context, input *models.LoggerListRequest) (*models.LoggerListResponse, error) {
		scope, err := s.resolveScope(input.Hash, input.Type)
		if err != nil {
			return nil, err
		}

		records := s.engine.ListLoggersAcrossScopes(engine.ListOptions{
			Scope:             scope,
			Name:              input.Name,
			IncludeNoAppender: input.IncludeNoAppender,
		})
		if records == nil {
			records = []engine.LoggerRecord{}
		}
		return &models.LoggerListResponse{
			Body: models.LoggerListData{
				Loggers: records,
				Count:   len(records),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-logger-level",
		Method:      http.MethodPut,
		Path:        "/api/loggers/level",
		Summary:     "Set Logger Level",
		Description: "Assign a level to a logger in every framework of the target scope; the system scope when no target is given",
		Tags:        []string{"loggers"},
		Errors:      []int{400, 401, 404, 409},
		Security:    withAuth(),
	}, func(_ context.Context, input *models.LevelRequest) (*models.LevelResponse, error) {
		scope, err := s.resolveScope(input.Body.Hash, input.Body.Type)
		if err != nil {
			return nil, err
		}
		if scope == nil {
			scope = s.engine.Runtime().SystemScope()
		}

		resp := &models.LevelResponse{
			Body: models.LevelData{
				Success: s.engine.SetLevelAcrossFrameworks(scope, input.Body.Name, input.Body.Level),
				Scope:   scope.String(),
			},
		}
		if resp.Body.Success {
			resp.Body.Message = engine.MsgLevelUpdated
		} else {
			resp.Body.Message = engine.MsgLevelUpdateFailed
		}
		return resp, nil
	})
}

// resolveScope maps a hash or type name to a scope. Nil means no target.
func (s *Server) resolveScope(hash, typeName string) (*host.Scope, error) {
	scope, err := s.engine.ResolveTargetScope(engine.Target{Hash: hash, TypeName: typeName})
	if err == nil {
		return scope, nil
	}
	return nil, mapResolutionError(err)
}

// mapResolutionError converts engine resolution errors to HTTP errors.
func mapResolutionError(err error) error {
	var resErr *engine.ResolutionError
	if !errors.As(err, &resErr) {
		return huma.Error500InternalServerError("scope resolution failed", err)
	}
	if errors.Is(err, engine.ErrScopeAmbiguous) {
		details := make([]error, 0, len(resErr.Candidates))
		for _, c := range resErr.Candidates {
			details = append(details, &huma.ErrorDetail{
				Message:  "candidate scope",
				Location: "hash",
				Value:    c.Hash(),
			})
		}
		return huma.Error409Conflict(engine.AmbiguousMessage(resErr.Target.TypeName), details...)
	}
	return huma.Error404NotFound(resErr.Error())
}
