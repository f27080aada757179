package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
// Usage: bus.Publish(LevelChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case LevelChangedEvent:
		event.Publish(b.dispatcher, e)
	case AdapterMaterializedEvent:
		event.Publish(b.dispatcher, e)
	case AdapterFailedEvent:
		event.Publish(b.dispatcher, e)
	case TopologyReloadedEvent:
		event.Publish(b.dispatcher, e)
	case EngineStatsEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function
// The handler type determines which events it receives
// Returns an unsubscribe function
// Usage: unsub := bus.Subscribe(func(e LevelChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(LevelChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(AdapterMaterializedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(AdapterFailedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(TopologyReloadedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(EngineStatsEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
