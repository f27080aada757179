package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/logscope/cmd"
	"github.com/smazurov/logscope/internal/api"
	"github.com/smazurov/logscope/internal/config"
	"github.com/smazurov/logscope/internal/engine"
	"github.com/smazurov/logscope/internal/events"
	"github.com/smazurov/logscope/internal/logging"
	"github.com/smazurov/logscope/internal/metrics/collectors"
	"github.com/smazurov/logscope/internal/metrics/exporters"
	"github.com/smazurov/logscope/internal/topology"
	"github.com/smazurov/logscope/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Topology settings
	TopologyFile       string `help:"Topology file describing the host scopes" default:"topology.toml" toml:"topology.file" env:"TOPOLOGY_FILE"`
	TopologyWatch      bool   `help:"Rebuild the scopes when the topology file changes" default:"true" toml:"topology.watch" env:"TOPOLOGY_WATCH"`
	TopologyDebounceMs int    `help:"Delay before a changed topology file is applied, in milliseconds" default:"1500" toml:"topology.debounce_ms" env:"TOPOLOGY_DEBOUNCE_MS"`

	// Metrics settings
	MetricsPrometheusEnabled bool `help:"Enable Prometheus" default:"true" toml:"metrics.prometheus_enabled" env:"METRICS_PROMETHEUS_ENABLED"`
	MetricsSSEEnabled        bool `help:"Enable SSE" default:"true" toml:"metrics.sse_enabled" env:"METRICS_SSE_ENABLED"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingEngine   string `help:"Engine logging level" default:"info" toml:"logging.engine" env:"LOGGING_ENGINE"`
	LoggingTopology string `help:"Topology logging level" default:"info" toml:"logging.topology" env:"LOGGING_TOPOLOGY"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"engine":   opts.LoggingEngine,
				"topology": opts.LoggingTopology,
				"api":      opts.LoggingAPI,
			},
		})

		logger := logging.GetLogger("main")

		// Create event bus for in-process event handling
		eventBus := events.New()

		// The process's own loggers live in the system scope.
		rt, err := cmd.NewHost(logging.Default())
		if err != nil {
			logger.Error("Failed to create host runtime", "error", err)
			os.Exit(1)
		}

		eng := engine.New(rt,
			engine.WithEventBus(eventBus),
			engine.WithLogger(logging.GetLogger("engine")),
		)

		topologyManager := topology.NewManager(rt, opts.TopologyFile,
			topology.WithPublisher(eventBus),
			topology.WithLogger(logging.GetLogger("topology")),
		)

		scopeCollector := collectors.NewScopeCollector(eng)

		var sseExporter *exporters.SSEExporter
		if opts.MetricsSSEEnabled {
			sseExporter = exporters.NewSSEExporter(eventBus)
		}

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Engine:       eng,
			EventBus:     eventBus,
			Topology:     topologyManager,
		}
		if opts.MetricsPrometheusEnabled {
			apiOpts.PrometheusHandler = exporters.HTTPHandler()
		}

		server := api.NewServer(apiOpts)

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			if _, statErr := os.Stat(opts.TopologyFile); statErr == nil {
				if loadErr := topologyManager.Reload(); loadErr != nil {
					logger.Error("Failed to apply topology", "path", opts.TopologyFile, "error", loadErr)
				}
				if opts.TopologyWatch {
					debounce := time.Duration(opts.TopologyDebounceMs) * time.Millisecond
					if watchErr := topologyManager.Watch(debounce); watchErr != nil {
						logger.Warn("Failed to watch topology file", "error", watchErr)
					}
				}
			} else {
				logger.Info("No topology file, inspecting the system scope only", "path", opts.TopologyFile)
			}

			if startErr := scopeCollector.Start(ctx); startErr != nil {
				logger.Warn("Failed to start scope collector", "error", startErr)
			}
			if sseExporter != nil {
				sseExporter.Start(ctx)
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if stopErr := server.Stop(shutdownCtx); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			if sseExporter != nil {
				sseExporter.Stop()
			}
			if stopErr := scopeCollector.Stop(); stopErr != nil {
				logger.Warn("Error stopping scope collector", "error", stopErr)
			}
			if stopErr := topologyManager.Stop(); stopErr != nil {
				logger.Warn("Error stopping topology manager", "error", stopErr)
			}
			cancel()
		})
	})

	root := cli.Root()
	root.Use = version.Name
	root.Short = "Inspect and change logger levels across the scopes of a host process"
	root.Version = version.String()

	root.AddCommand(cmd.CreateLoggerCmd())
	root.AddCommand(cmd.CreateScopesCmd())

	cli.Run()
}
