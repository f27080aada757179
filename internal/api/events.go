package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/logscope/internal/api/models"
	"github.com/smazurov/logscope/internal/events"
)

// eventTypes maps SSE event names to the payloads sent on /api/events.
func eventTypes() map[string]any {
	return map[string]any{
		"connected":            models.ConnectedEvent{},
		"level-changed":        events.LevelChangedEvent{},
		"adapter-materialized": events.AdapterMaterializedEvent{},
		"adapter-failed":       events.AdapterFailedEvent{},
		"topology-reloaded":    events.TopologyReloadedEvent{},
	}
}

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of level changes, adapter materializations and topology reloads",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, eventTypes(), func(ctx context.Context, _ *struct{}, send sse.Sender) {
		// Create event channel for this connection
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.LevelChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.AdapterMaterializedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.AdapterFailedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.TopologyReloadedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Send initial connection confirmation
		if err := send.Data(models.ConnectedEvent{
			Message:   "SSE connection established",
			Timestamp: time.Now().Format(time.RFC3339),
		}); err != nil {
			return
		}

		// Keep connection alive and forward events
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					// Connection failed, clean up and exit
					return
				}
			}
		}
	})
}
