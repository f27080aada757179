package engine

import (
	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/metrics"
)

// Detection lists the confirmed frameworks of one scope.
type Detection struct {
	Scope      *host.Scope
	Frameworks []Framework
}

// EnumerateScopes scans the loaded-type table for framework markers and
// returns the scopes defining them, in order of first appearance. Markers
// are probed before a framework is recorded; scopes left with no confirmed
// framework are dropped. A non-nil explicit scope restricts the scan.
func (e *Engine) EnumerateScopes(explicit *host.Scope) []Detection {
	var order []*host.Scope
	found := make(map[*host.Scope][]Framework)
	seen := make(map[*host.Scope]map[Framework]bool)

	for _, loaded := range e.rt.LoadedTypes() {
		if loaded.Scope == nil {
			continue
		}
		if explicit != nil && loaded.Scope != explicit {
			continue
		}
		fw, ok := frameworkByMarker(loaded.Name)
		if !ok {
			continue
		}
		if seen[loaded.Scope] == nil {
			seen[loaded.Scope] = make(map[Framework]bool)
		}
		if seen[loaded.Scope][fw] {
			continue
		}
		seen[loaded.Scope][fw] = true

		if !e.Probe(loaded.Scope, fw) {
			continue
		}
		if _, listed := found[loaded.Scope]; !listed {
			order = append(order, loaded.Scope)
		}
		found[loaded.Scope] = append(found[loaded.Scope], fw)
	}

	detections := make([]Detection, 0, len(order))
	for _, s := range order {
		fws := found[s]
		sortFrameworks(fws)
		detections = append(detections, Detection{Scope: s, Frameworks: fws})
		metrics.SetScopeFrameworks(s.Hash(), FrameworkNames(fws))
	}
	return detections
}

// DetectFrameworks returns the confirmed frameworks defined in scope's own
// namespace. Frameworks the scope only sees through its parents belong to
// those parents and are not reported.
func (e *Engine) DetectFrameworks(scope *host.Scope) []Framework {
	if scope == nil {
		return nil
	}
	var fws []Framework
	for _, fw := range Frameworks {
		if _, err := scope.FindType(fw.Marker()); err != nil {
			continue
		}
		if e.Probe(scope, fw) {
			fws = append(fws, fw)
		}
	}
	return fws
}
