package exporters

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/smazurov/logscope/internal/events"
	"github.com/smazurov/logscope/internal/metrics"
)

// EventPublisher interface for publishing events.
type EventPublisher interface {
	Publish(ev events.Event)
}

// SSEExporter exports engine counters via Server-Sent Events.
type SSEExporter struct {
	eventBus EventPublisher
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSSEExporter creates a new SSE exporter.
func NewSSEExporter(eventBus EventPublisher) *SSEExporter {
	return &SSEExporter{
		eventBus: eventBus,
		interval: 5 * time.Second,
	}
}

// Start begins the SSE export loop.
func (s *SSEExporter) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run()
}

// Stop stops the SSE exporter and waits for the goroutine to finish.
func (s *SSEExporter) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *SSEExporter) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.publishMetrics()
		}
	}
}

func (s *SSEExporter) publishMetrics() {
	totals := metrics.GetEngineTotals()
	s.eventBus.Publish(events.EngineStatsEvent{
		EventType:        "engine_stats",
		Scopes:           metrics.GetLiveScopes(),
		Probes:           strconv.FormatUint(totals.Probes, 10),
		Materializations: strconv.FormatUint(totals.Materializations, 10),
		Invocations:      strconv.FormatUint(totals.Invocations, 10),
		LevelUpdates:     strconv.FormatUint(totals.LevelUpdates, 10),
		Timestamp:        time.Now().Format(time.RFC3339),
	})
}

// GetEventTypes returns event types for SSE endpoint registration.
func GetEventTypes() map[string]any {
	return map[string]any{
		"engine-stats": events.EngineStatsEvent{},
	}
}
