// Package collectors samples the host runtime into Prometheus metrics.
package collectors

import (
	"context"
	"time"

	"github.com/smazurov/logscope/internal/engine"
	"github.com/smazurov/logscope/internal/logging"
	"github.com/smazurov/logscope/internal/metrics"
)

// ScopeSource lists the live scopes of a runtime.
type ScopeSource interface {
	Scopes() []engine.ScopeInfo
}

// ScopeCollector periodically records live scopes and their frameworks.
type ScopeCollector struct {
	logger   logging.Logger
	source   ScopeSource
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewScopeCollector creates a new scope collector.
func NewScopeCollector(source ScopeSource) *ScopeCollector {
	return &ScopeCollector{
		logger:   logging.GetLogger("collector"),
		source:   source,
		interval: 15 * time.Second,
	}
}

// Start begins collecting scope metrics.
func (c *ScopeCollector) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)
	go c.run()
	return nil
}

// Stop stops the scope collector.
func (c *ScopeCollector) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *ScopeCollector) run() {
	c.logger.Info("Starting scope metrics collection", "interval", c.interval)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

func (c *ScopeCollector) collect() {
	scopes := c.source.Scopes()
	metrics.SetLiveScopes(len(scopes))

	live := make(map[string]bool, len(scopes))
	for _, s := range scopes {
		live[s.Hash] = true
		if len(s.Frameworks) > 0 {
			metrics.SetScopeFrameworks(s.Hash, s.Frameworks)
		} else {
			metrics.DeleteScopeMetrics(s.Hash)
		}
	}
	for _, hash := range metrics.RecordedScopes() {
		if !live[hash] {
			metrics.DeleteScopeMetrics(hash)
		}
	}
	c.logger.Debug("Collected scope metrics", "scopes", len(scopes))
}
