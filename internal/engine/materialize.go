package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/smazurov/logscope/internal/adapters"
	"github.com/smazurov/logscope/internal/events"
	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/metrics"
)

// HandleState is the lifecycle state of an adapter handle.
type HandleState int

// Adapter handle states.
const (
	StateUnresolved HandleState = iota
	StateMaterializing
	StateReady
	StateFailed
)

func (s HandleState) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateMaterializing:
		return "materializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AdapterHandle refers to the adapter of one framework in one scope.
type AdapterHandle struct {
	mu        sync.RWMutex
	scope     *host.Scope
	framework Framework
	name      string
	state     HandleState
	adapter   any
	err       error
}

// Scope returns the scope the adapter is bound to.
func (h *AdapterHandle) Scope() *host.Scope {
	return h.scope
}

// Framework returns the adapted framework.
func (h *AdapterHandle) Framework() Framework {
	return h.framework
}

// Name returns the unique adapter type name.
func (h *AdapterHandle) Name() string {
	return h.name
}

// State returns the handle state.
func (h *AdapterHandle) State() HandleState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Adapter returns the adapter instance, nil unless ready.
func (h *AdapterHandle) Adapter() any {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.adapter
}

// Err returns the materialization failure of a failed handle.
func (h *AdapterHandle) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

func (h *AdapterHandle) transition(state HandleState, adapter any, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = state
	h.adapter = adapter
	h.err = err
}

// UniqueName builds the per-engine, per-scope adapter type name.
func UniqueName(blueprint, engineID, scopeHash string) string {
	return blueprint + "$" + engineID + "$" + scopeHash
}

// Adapter returns a ready handle to the adapter of fw in scope, defining it
// into the scope on first use. Failures are reported as *InjectionError and
// never cached.
func (e *Engine) Adapter(scope *host.Scope, fw Framework) (*AdapterHandle, error) {
	blueprint, err := adapters.Lookup(fw.String())
	if err != nil {
		return nil, e.injectionFailed(scope, fw, err)
	}
	if scope == nil {
		return nil, e.injectionFailed(scope, fw, errors.New("nil scope"))
	}

	handle := &AdapterHandle{
		scope:     scope,
		framework: fw,
		name:      UniqueName(blueprint.Name(), e.id, scope.Hash()),
	}

	if existing, err := scope.FindType(handle.name); err == nil {
		handle.transition(StateReady, existing.Value(), nil)
		return handle, nil
	}

	handle.transition(StateMaterializing, nil, nil)
	adapter, err := e.materialize(scope, blueprint, handle.name)
	if err != nil {
		handle.transition(StateFailed, nil, err)
		return nil, e.injectionFailed(scope, fw, err)
	}
	handle.transition(StateReady, adapter, nil)
	return handle, nil
}

func (e *Engine) materialize(scope *host.Scope, blueprint *adapters.Blueprint, name string) (any, error) {
	renamed := blueprint.Rename(name)
	if err := renamed.Validate(); err != nil {
		return nil, err
	}
	adapter, err := renamed.Instantiate(scope)
	if err != nil {
		return nil, err
	}

	if _, err := scope.DefineType(name, adapter); err != nil {
		if !errors.Is(err, host.ErrDuplicateType) {
			return nil, err
		}
		winner, findErr := scope.FindType(name)
		if findErr != nil {
			return nil, fmt.Errorf("re-resolve %s: %w", name, findErr)
		}
		return winner.Value(), nil
	}

	metrics.RecordMaterialization(blueprint.Framework(), true)
	e.logger.Debug("Adapter materialized", "scope", scope.String(), "adapter", name)
	e.publish(events.AdapterMaterializedEvent{
		ScopeHash: scope.Hash(),
		ScopeName: scope.Name(),
		Framework: blueprint.Framework(),
		Adapter:   name,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return adapter, nil
}

func (e *Engine) injectionFailed(scope *host.Scope, fw Framework, err error) error {
	injErr := &InjectionError{Scope: scope, Framework: fw, Err: err}
	metrics.RecordMaterialization(fw.String(), false)
	e.logger.Warn("Adapter materialization failed", "framework", fw.String(), "error", err)
	ev := events.AdapterFailedEvent{
		Framework: fw.String(),
		Error:     err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if scope != nil {
		ev.ScopeHash = scope.Hash()
		ev.ScopeName = scope.Name()
	}
	e.publish(ev)
	return injErr
}
