package collectors

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/logscope/internal/engine"
	"github.com/smazurov/logscope/internal/metrics"
)

type fakeSource struct {
	mu     sync.Mutex
	scopes []engine.ScopeInfo
	calls  chan struct{}
}

func (f *fakeSource) Scopes() []engine.ScopeInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return f.scopes
}

func (f *fakeSource) set(scopes []engine.ScopeInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = scopes
}

func newTestCollector(source ScopeSource) *ScopeCollector {
	c := NewScopeCollector(source)
	c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return c
}

func TestScopeCollectorCollect(t *testing.T) {
	source := &fakeSource{calls: make(chan struct{}, 1)}
	source.set([]engine.ScopeInfo{
		{Hash: "c0ffee01", Frameworks: []string{"slog", "pion"}},
		{Hash: "c0ffee02"},
	})
	c := newTestCollector(source)

	c.collect()

	if got := metrics.GetLiveScopes(); got != 2 {
		t.Errorf("GetLiveScopes() = %d, want 2", got)
	}
	if fws := metrics.GetScopeFrameworks("c0ffee01"); len(fws) != 2 {
		t.Errorf("frameworks of c0ffee01 = %v, want [slog pion]", fws)
	}
	if fws := metrics.GetScopeFrameworks("c0ffee02"); fws != nil {
		t.Errorf("frameworks of c0ffee02 = %v, want none", fws)
	}

	source.set([]engine.ScopeInfo{{Hash: "c0ffee02"}})
	c.collect()

	if fws := metrics.GetScopeFrameworks("c0ffee01"); fws != nil {
		t.Errorf("unloaded scope still recorded: %v", fws)
	}
	if got := metrics.GetLiveScopes(); got != 1 {
		t.Errorf("GetLiveScopes() = %d, want 1", got)
	}
}

func TestScopeCollectorStartStop(t *testing.T) {
	source := &fakeSource{calls: make(chan struct{}, 1)}
	c := newTestCollector(source)
	c.interval = 10 * time.Millisecond

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	select {
	case <-source.calls:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for first collection")
	}
	if err := c.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
