// Package metrics provides Prometheus metrics for the scope engine.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	probesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logscope",
		Subsystem: "engine",
		Name:      "probes_total",
		Help:      "Framework presence probes by result",
	}, []string{"framework", "result"})

	materializationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logscope",
		Subsystem: "engine",
		Name:      "materializations_total",
		Help:      "Adapter materializations by result",
	}, []string{"framework", "result"})

	invocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logscope",
		Subsystem: "engine",
		Name:      "invocations_total",
		Help:      "Adapter method invocations by result",
	}, []string{"method", "result"})

	levelUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "logscope",
		Subsystem: "engine",
		Name:      "level_updates_total",
		Help:      "Level update requests by result",
	}, []string{"result"})

	// Local totals for SSE exporter access.
	probes           atomic.Uint64
	materializations atomic.Uint64
	invocations      atomic.Uint64
	levelUpdates     atomic.Uint64
)

// EngineTotals holds the running totals of the engine counters.
type EngineTotals struct {
	Probes           uint64
	Materializations uint64
	Invocations      uint64
	LevelUpdates     uint64
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordProbe counts one presence probe.
func RecordProbe(framework string, present bool) {
	label := "present"
	if !present {
		label = "absent"
	}
	probesTotal.WithLabelValues(framework, label).Inc()
	probes.Add(1)
}

// RecordMaterialization counts one adapter materialization attempt.
func RecordMaterialization(framework string, ok bool) {
	materializationsTotal.WithLabelValues(framework, result(ok)).Inc()
	materializations.Add(1)
}

// RecordInvocation counts one adapter method call.
func RecordInvocation(method string, ok bool) {
	invocationsTotal.WithLabelValues(method, result(ok)).Inc()
	invocations.Add(1)
}

// RecordLevelUpdate counts one level update request.
func RecordLevelUpdate(ok bool) {
	levelUpdatesTotal.WithLabelValues(result(ok)).Inc()
	levelUpdates.Add(1)
}

// GetEngineTotals returns the running totals.
func GetEngineTotals() EngineTotals {
	return EngineTotals{
		Probes:           probes.Load(),
		Materializations: materializations.Load(),
		Invocations:      invocations.Load(),
		LevelUpdates:     levelUpdates.Load(),
	}
}
