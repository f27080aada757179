package engine

import (
	"fmt"

	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/metrics"
)

// Probe confirms a framework in scope by looking up its implementation
// resource and the framework context in the scope's own namespace. Any
// failure, a panic included, counts as absent.
func (e *Engine) Probe(scope *host.Scope, fw Framework) (present bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("Probe panicked", "scope", fmt.Sprint(scope), "framework", fw.String(), "panic", r)
			present = false
		}
		metrics.RecordProbe(fw.String(), present)
	}()

	if scope == nil || fw.Resource() == "" {
		return false
	}
	if _, err := scope.Resource(fw.Resource()); err != nil {
		e.logger.Debug("Framework not confirmed", "scope", scope.String(), "framework", fw.String(), "error", err)
		return false
	}
	// Resources resolve through parents; the live context must be the scope's own.
	if _, err := scope.FindType(fw.ContextType()); err != nil {
		e.logger.Debug("Framework context not defined in scope", "scope", scope.String(), "framework", fw.String(), "error", err)
		return false
	}
	return true
}
