package engine

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/smazurov/logscope/internal/adapters"
	"github.com/smazurov/logscope/internal/events"
	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/logging"
	"github.com/smazurov/logscope/internal/metrics"
)

// EventPublisher publishes engine events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// Engine locates logging frameworks inside the scopes of a host runtime and
// drives them through adapters it materializes on demand.
type Engine struct {
	rt     *host.Runtime
	id     string
	logger logging.Logger
	bus    EventPublisher
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithEventBus makes the engine publish level and adapter events.
func WithEventBus(bus EventPublisher) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithID fixes the engine identity used in adapter names.
func WithID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.id = id
		}
	}
}

// New creates an engine over rt.
func New(rt *host.Runtime, opts ...Option) *Engine {
	e := &Engine{
		rt:     rt,
		id:     uuid.NewString(),
		logger: logging.GetLogger("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	// Blueprints are built once, before any scope is touched.
	for _, fw := range Frameworks {
		_, _ = adapters.Lookup(fw.String())
	}
	return e
}

// ID returns the engine identity.
func (e *Engine) ID() string {
	return e.id
}

// Runtime returns the host runtime the engine inspects.
func (e *Engine) Runtime() *host.Runtime {
	return e.rt
}

// ResolveTargetScope finds the scope a target names. A zero target resolves
// to (nil, nil) so the caller picks its default.
func (e *Engine) ResolveTargetScope(target Target) (*host.Scope, error) {
	if target.Hash != "" {
		scope, ok := e.rt.ScopeByHash(target.Hash)
		if !ok {
			return nil, &ResolutionError{Target: target, Err: ErrScopeNotFound}
		}
		return scope, nil
	}
	if target.TypeName == "" {
		return nil, nil
	}

	candidates := e.rt.ScopesLoading(target.TypeName)
	switch len(candidates) {
	case 0:
		return nil, &ResolutionError{Target: target, Err: ErrScopeNotFound}
	case 1:
		return candidates[0], nil
	default:
		return nil, &ResolutionError{Target: target, Candidates: candidates, Err: ErrScopeAmbiguous}
	}
}

// SetLevelAcrossFrameworks applies level to the named logger in every
// framework detected in scope, the system scope when nil. It reports whether
// at least one framework applied it.
func (e *Engine) SetLevelAcrossFrameworks(scope *host.Scope, name, level string) bool {
	if scope == nil {
		scope = e.rt.SystemScope()
	}

	detected := e.DetectFrameworks(scope)
	success := false
	for _, fw := range detected {
		handle, err := e.Adapter(scope, fw)
		if err != nil {
			e.logger.Warn("Skipping framework", "scope", scope.String(), "framework", fw.String(), "error", err)
			continue
		}
		if e.setLevel(handle, name, level) {
			success = true
		}
	}

	metrics.RecordLevelUpdate(success)
	e.logger.Info("Level update", "scope", scope.String(), "logger", name, "level", level, "success", success)
	e.publish(events.LevelChangedEvent{
		ScopeHash:  scope.Hash(),
		ScopeName:  scope.Name(),
		Logger:     name,
		Level:      level,
		Frameworks: FrameworkNames(detected),
		Success:    success,
		Timestamp:  time.Now().Format(time.RFC3339),
	})
	return success
}

// ListOptions selects loggers for ListLoggersAcrossScopes.
type ListOptions struct {
	// Scope restricts the listing to one scope; nil lists every scope.
	Scope *host.Scope
	// Name filters by exact logger name; empty lists all, ROOT matches
	// the root logger case-insensitively.
	Name              string
	IncludeNoAppender bool
}

// ListLoggersAcrossScopes lists loggers of every detected framework in scan
// order, then framework order, then logger name.
func (e *Engine) ListLoggersAcrossScopes(opts ListOptions) []LoggerRecord {
	var records []LoggerRecord
	for _, detection := range e.EnumerateScopes(opts.Scope) {
		for _, fw := range detection.Frameworks {
			handle, err := e.Adapter(detection.Scope, fw)
			if err != nil {
				e.logger.Warn("Skipping framework", "scope", detection.Scope.String(), "framework", fw.String(), "error", err)
				continue
			}
			infos := e.listLoggers(handle, opts.Name, opts.IncludeNoAppender)
			records = append(records, normalize(fw, infos)...)
		}
	}
	return records
}

// ScopeInfo describes one live scope.
type ScopeInfo struct {
	Hash       string   `json:"hash" example:"1b6d3586" doc:"Identity hash"`
	Name       string   `json:"name" example:"plugins/billing" doc:"Scope name"`
	Display    string   `json:"display" example:"plugins/billing@1b6d3586" doc:"Display name"`
	ParentHash string   `json:"parent_hash,omitempty" doc:"Identity hash of the parent scope"`
	Frameworks []string `json:"frameworks" doc:"Frameworks defined and confirmed in the scope"`
	Types      int      `json:"types" doc:"Types defined in the scope's own namespace"`
}

// Scopes describes every live scope in creation order.
func (e *Engine) Scopes() []ScopeInfo {
	detected := make(map[*host.Scope][]Framework)
	for _, d := range e.EnumerateScopes(nil) {
		detected[d.Scope] = d.Frameworks
	}

	scopes := e.rt.Scopes()
	out := make([]ScopeInfo, 0, len(scopes))
	for _, s := range scopes {
		info := ScopeInfo{
			Hash:       s.Hash(),
			Name:       s.Name(),
			Display:    s.String(),
			Frameworks: FrameworkNames(detected[s]),
			Types:      len(s.TypeNames()),
		}
		if s.Parent() != nil {
			info.ParentHash = s.Parent().Hash()
		}
		out = append(out, info)
	}
	return out
}

func (e *Engine) publish(ev events.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

func sortFrameworks(fws []Framework) {
	sort.Slice(fws, func(i, j int) bool { return fws[i] < fws[j] })
}
