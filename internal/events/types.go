package events

// Event type constants for kelindar/event.
const (
	TypeLevelChanged uint32 = iota + 1
	TypeAdapterMaterialized
	TypeAdapterFailed
	TypeTopologyReloaded
	TypeEngineStats
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LevelChangedEvent reports a level update on one scope.
type LevelChangedEvent struct {
	ScopeHash  string   `json:"scope_hash" example:"1b6d3586" doc:"Identity hash of the target scope"`
	ScopeName  string   `json:"scope_name" example:"plugins/billing" doc:"Name of the target scope"`
	Logger     string   `json:"logger" example:"ROOT" doc:"Logger name"`
	Level      string   `json:"level" example:"DEBUG" doc:"Requested level"`
	Frameworks []string `json:"frameworks" doc:"Frameworks detected in the scope"`
	Success    bool     `json:"success" doc:"Whether any framework applied the level"`
	Timestamp  string   `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LevelChangedEvent.
func (e LevelChangedEvent) Type() uint32 { return TypeLevelChanged }

// AdapterMaterializedEvent reports an adapter defined into a scope.
type AdapterMaterializedEvent struct {
	ScopeHash string `json:"scope_hash" example:"1b6d3586" doc:"Identity hash of the scope"`
	ScopeName string `json:"scope_name" example:"plugins/billing" doc:"Name of the scope"`
	Framework string `json:"framework" example:"slog" doc:"Framework family"`
	Adapter   string `json:"adapter" doc:"Unique adapter type name"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for AdapterMaterializedEvent.
func (e AdapterMaterializedEvent) Type() uint32 { return TypeAdapterMaterialized }

// AdapterFailedEvent reports an adapter that could not be materialized.
type AdapterFailedEvent struct {
	ScopeHash string `json:"scope_hash" example:"1b6d3586" doc:"Identity hash of the scope"`
	ScopeName string `json:"scope_name" example:"plugins/billing" doc:"Name of the scope"`
	Framework string `json:"framework" example:"pion" doc:"Framework family"`
	Error     string `json:"error" doc:"Failure description"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for AdapterFailedEvent.
func (e AdapterFailedEvent) Type() uint32 { return TypeAdapterFailed }

// TopologyReloadedEvent reports a rebuilt host topology.
type TopologyReloadedEvent struct {
	Path      string `json:"path" example:"topology.toml" doc:"Topology file"`
	Scopes    int    `json:"scopes" example:"4" doc:"Number of scopes built"`
	Error     string `json:"error,omitempty" doc:"Reload failure, empty on success"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for TopologyReloadedEvent.
func (e TopologyReloadedEvent) Type() uint32 { return TypeTopologyReloaded }

// EngineStatsEvent carries a periodic snapshot of the engine counters.
type EngineStatsEvent struct {
	EventType        string `json:"type" example:"engine_stats" doc:"Event type"`
	Scopes           int    `json:"scopes" example:"4" doc:"Live scopes"`
	Probes           string `json:"probes" example:"12" doc:"Framework probes performed"`
	Materializations string `json:"materializations" example:"3" doc:"Adapters materialized"`
	Invocations      string `json:"invocations" example:"40" doc:"Adapter calls made"`
	LevelUpdates     string `json:"level_updates" example:"2" doc:"Level updates requested"`
	Timestamp        string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for EngineStatsEvent.
func (e EngineStatsEvent) Type() uint32 { return TypeEngineStats }
