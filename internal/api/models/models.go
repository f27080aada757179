package models

import (
	"github.com/smazurov/logscope/internal/engine"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2024-12-15 14:30" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"a1b2c3d4" doc:"Unique build identifier"`
	GoVersion string `json:"go_version" example:"go1.21.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Scope models
type ScopeListData struct {
	Scopes []engine.ScopeInfo `json:"scopes" doc:"Live scopes in creation order"`
	Count  int                `json:"count" example:"4" doc:"Number of live scopes"`
}

type ScopeListResponse struct {
	Body ScopeListData
}

// Logger models
type LoggerListRequest struct {
	Hash              string `query:"hash" example:"1b6d3586" doc:"Identity hash of the scope to list"`
	Type              string `query:"type" example:"billing.Invoice" doc:"Type name identifying the scope to list"`
	Name              string `query:"name" example:"ROOT" doc:"Exact logger name"`
	IncludeNoAppender bool   `query:"include_no_appender" doc:"Include loggers without any appender"`
}

type LoggerListData struct {
	Loggers []engine.LoggerRecord `json:"loggers" doc:"Loggers grouped by scope, then framework, then name"`
	Count   int                   `json:"count" example:"12" doc:"Number of loggers"`
}

type LoggerListResponse struct {
	Body LoggerListData
}

type LevelRequestData struct {
	Hash  string `json:"hash,omitempty" example:"1b6d3586" doc:"Identity hash of the target scope; the system scope when hash and type are empty"`
	Type  string `json:"type,omitempty" example:"billing.Invoice" doc:"Type name identifying the target scope"`
	Name  string `json:"name" minLength:"1" example:"ROOT" doc:"Logger name"`
	Level string `json:"level" minLength:"1" example:"debug" doc:"Level to assign"`
}

type LevelRequest struct {
	Body LevelRequestData
}

type LevelData struct {
	Success bool   `json:"success" doc:"Whether any framework applied the level"`
	Message string `json:"message" example:"Update logger level success." doc:"Result message"`
	Scope   string `json:"scope" example:"plugins/billing@1b6d3586" doc:"Display name of the target scope"`
}

type LevelResponse struct {
	Body LevelData
}

// Topology models
type TopologyReloadData struct {
	Message string `json:"message" doc:"Operation result message"`
	Scopes  int    `json:"scopes" example:"4" doc:"Number of scopes deployed"`
}

type TopologyReloadResponse struct {
	Body TopologyReloadData
}

// ConnectedEvent is the first message of every event stream.
type ConnectedEvent struct {
	Message   string `json:"message" example:"SSE connection established" doc:"Connection message"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}
