package metrics

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	liveScopes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "logscope",
		Subsystem: "host",
		Name:      "scopes",
		Help:      "Live scopes in the host runtime",
	})

	scopeFrameworks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "logscope",
		Subsystem: "host",
		Name:      "scope_framework",
		Help:      "Set to 1 for every framework detected in a scope",
	}, []string{"scope", "framework"})

	// Local cache for SSE exporter and collector access.
	scopeCache   = make(map[string][]string)
	scopeCacheMu sync.RWMutex
	scopeCount   int
)

// SetLiveScopes sets the number of live scopes.
func SetLiveScopes(n int) {
	liveScopes.Set(float64(n))
	scopeCacheMu.Lock()
	scopeCount = n
	scopeCacheMu.Unlock()
}

// GetLiveScopes returns the last recorded number of live scopes.
func GetLiveScopes() int {
	scopeCacheMu.RLock()
	defer scopeCacheMu.RUnlock()
	return scopeCount
}

// SetScopeFrameworks records the frameworks detected in a scope, replacing
// what was recorded before.
func SetScopeFrameworks(scope string, frameworks []string) {
	scopeCacheMu.Lock()
	defer scopeCacheMu.Unlock()

	for _, fw := range scopeCache[scope] {
		scopeFrameworks.DeleteLabelValues(scope, fw)
	}
	recorded := make([]string, len(frameworks))
	copy(recorded, frameworks)
	for _, fw := range recorded {
		scopeFrameworks.WithLabelValues(scope, fw).Set(1)
	}
	scopeCache[scope] = recorded
}

// DeleteScopeMetrics removes all metrics for a scope.
func DeleteScopeMetrics(scope string) {
	scopeCacheMu.Lock()
	defer scopeCacheMu.Unlock()

	for _, fw := range scopeCache[scope] {
		scopeFrameworks.DeleteLabelValues(scope, fw)
	}
	delete(scopeCache, scope)
}

// GetScopeFrameworks returns the frameworks recorded for a scope.
func GetScopeFrameworks(scope string) []string {
	scopeCacheMu.RLock()
	defer scopeCacheMu.RUnlock()
	fws, ok := scopeCache[scope]
	if !ok {
		return nil
	}
	dup := make([]string, len(fws))
	copy(dup, fws)
	return dup
}

// RecordedScopes returns every scope with recorded frameworks, sorted.
func RecordedScopes() []string {
	scopeCacheMu.RLock()
	defer scopeCacheMu.RUnlock()
	out := make([]string, 0, len(scopeCache))
	for scope := range scopeCache {
		out = append(out, scope)
	}
	sort.Strings(out)
	return out
}
