package topology

import (
	"log/slog"
	"sync"
	"time"

	"github.com/smazurov/logscope/internal/config"
	"github.com/smazurov/logscope/internal/events"
	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/logging"
)

// Publisher receives topology events.
type Publisher interface {
	Publish(ev events.Event)
}

// Manager keeps one deployment of a topology file live in a runtime and
// swaps it when the file changes.
type Manager struct {
	rt      *host.Runtime
	path    string
	bus     Publisher
	logger  *slog.Logger
	mu      sync.Mutex
	current *Deployment
	watcher *config.Watcher[*Spec]
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithPublisher makes the manager publish TopologyReloadedEvent.
func WithPublisher(bus Publisher) ManagerOption {
	return func(m *Manager) {
		m.bus = bus
	}
}

// WithLogger sets the manager logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager for the topology file at path.
func NewManager(rt *host.Runtime, path string, opts ...ManagerOption) *Manager {
	m := &Manager{
		rt:     rt,
		path:   path,
		logger: logging.GetLogger("topology"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the topology file.
func (m *Manager) Path() string {
	return m.path
}

// Deployment returns the live deployment, nil before the first Apply.
func (m *Manager) Deployment() *Deployment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Reload reads the topology file and applies it.
func (m *Manager) Reload() error {
	spec, err := Load(m.path)
	if err != nil {
		m.logger.Error("Failed to load topology", "path", m.path, "error", err)
		m.publish(0, err)
		return err
	}
	return m.Apply(spec)
}

// Apply builds spec and replaces the live deployment with it. When the
// build fails the previous deployment stays.
func (m *Manager) Apply(spec *Spec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := Build(m.rt, spec)
	if err != nil {
		m.logger.Error("Failed to build topology", "path", m.path, "error", err)
		m.publish(0, err)
		return err
	}
	if m.current != nil {
		m.current.Teardown()
	}
	m.current = next

	m.logger.Info("Topology applied", "path", m.path, "scopes", len(next.scopes))
	m.publish(len(next.scopes), nil)
	return nil
}

// Watch reapplies the topology whenever the file changes.
func (m *Manager) Watch(debounce time.Duration) error {
	opts := []config.WatcherOption[*Spec]{
		config.WithErrorHandler[*Spec](func(err error) {
			m.publish(0, err)
		}),
	}
	if debounce > 0 {
		opts = append(opts, config.WithDebounce[*Spec](debounce))
	}

	w := config.NewWatcher(m.path, Load, m.logger, opts...)
	w.OnReload(func(spec *Spec) {
		_ = m.Apply(spec)
	})
	if err := w.Start(); err != nil {
		return err
	}

	m.mu.Lock()
	m.watcher = w
	m.mu.Unlock()
	return nil
}

// Stop stops watching and tears the live deployment down.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.watcher != nil {
		err = m.watcher.Stop()
		m.watcher = nil
	}
	if m.current != nil {
		m.current.Teardown()
		m.current = nil
	}
	return err
}

func (m *Manager) publish(scopes int, err error) {
	if m.bus == nil {
		return
	}
	ev := events.TopologyReloadedEvent{
		Path:      m.path,
		Scopes:    scopes,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	m.bus.Publish(ev)
}
