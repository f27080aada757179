package logging

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
)

// RootModule names the registry-wide level every module without its own
// level follows.
const RootModule = "ROOT"

// Logger is a duck-typed interface satisfied by *slog.Logger.
// Use this interface instead of *slog.Logger to decouple from the concrete type.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

// ModuleInfo is a snapshot of one module logger.
type ModuleInfo struct {
	Name     string
	Level    slog.Level
	Explicit bool
	Handlers []slog.Handler
}

// Registry owns a set of module loggers, each with its own LevelVar so
// levels can change at runtime.
type Registry struct {
	mu            sync.RWMutex
	out           io.Writer
	config        Config
	isInitialized bool
	rootLevel     *slog.LevelVar
	loggers       map[string]*slog.Logger
	levelVars     map[string]*slog.LevelVar
	explicit      map[string]bool
	handlers      map[string][]slog.Handler
}

// NewRegistry creates a registry writing to out (stdout when nil).
func NewRegistry(out io.Writer) *Registry {
	if out == nil {
		out = os.Stdout
	}
	r := &Registry{
		out:       out,
		rootLevel: &slog.LevelVar{},
		loggers:   make(map[string]*slog.Logger),
		levelVars: make(map[string]*slog.LevelVar),
		explicit:  make(map[string]bool),
		handlers:  make(map[string][]slog.Handler),
	}
	r.rootLevel.Set(slog.LevelInfo)
	return r
}

var defaultRegistry = NewRegistry(os.Stdout)

// Default returns the process-wide registry used by Initialize and GetLogger.
func Default() *Registry {
	return defaultRegistry
}

// Initialize sets up the process-wide logging system.
func Initialize(config Config) {
	defaultRegistry.Initialize(config)

	handler, _ := defaultRegistry.createHandler(config.Format, defaultRegistry.rootLevel)
	slog.SetDefault(slog.New(handler))
}

// GetLogger returns a logger for the specified module from the process-wide registry.
func GetLogger(module string) *slog.Logger {
	return defaultRegistry.GetLogger(module)
}

// Initialize applies config to the registry and rebuilds existing loggers.
func (r *Registry) Initialize(config Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.config = config
	r.isInitialized = true

	globalLevel := parseLevel(config.Level)
	if globalLevel == nil {
		defaultLevel := slog.LevelInfo
		globalLevel = &defaultLevel
	}
	r.rootLevel.Set(*globalLevel)

	// Loggers created before Initialize get the configured format and level.
	for module, levelVar := range r.levelVars {
		moduleLevel, explicit := r.configuredLevelLocked(module)
		levelVar.Set(moduleLevel)
		r.explicit[module] = explicit

		handler, leaves := r.createHandler(config.Format, levelVar)
		r.loggers[module] = slog.New(handler).With("module", module)
		r.handlers[module] = leaves
	}
}

// GetLogger returns a logger for the specified module, creating it if needed.
func (r *Registry) GetLogger(module string) *slog.Logger {
	r.mu.RLock()
	if logger, exists := r.loggers[module]; exists {
		r.mu.RUnlock()
		return logger
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check in case another goroutine created it
	if logger, exists := r.loggers[module]; exists {
		return logger
	}

	levelVar := &slog.LevelVar{}
	moduleLevel, explicit := r.configuredLevelLocked(module)
	levelVar.Set(moduleLevel)

	format := "text"
	if r.isInitialized {
		format = r.config.Format
	}
	handler, leaves := r.createHandler(format, levelVar)

	logger := slog.New(handler).With("module", module)
	r.loggers[module] = logger
	r.levelVars[module] = levelVar
	r.explicit[module] = explicit
	r.handlers[module] = leaves
	return logger
}

// configuredLevelLocked returns the level a module starts with and whether
// it comes from a module-specific entry.
func (r *Registry) configuredLevelLocked(module string) (slog.Level, bool) {
	if !r.isInitialized {
		return r.rootLevel.Level(), false
	}
	if levelStr, exists := r.config.Modules[module]; exists {
		if parsed := parseLevel(levelStr); parsed != nil {
			return *parsed, true
		}
	}
	return r.rootLevel.Level(), false
}

// SetLevel assigns a level to a module, or to every non-explicit module
// when module is RootModule. It reports whether an assignment happened.
func (r *Registry) SetLevel(module, level string) bool {
	parsed := parseLevel(level)
	if parsed == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.EqualFold(module, RootModule) {
		r.rootLevel.Set(*parsed)
		for name, levelVar := range r.levelVars {
			if !r.explicit[name] {
				levelVar.Set(*parsed)
			}
		}
		return true
	}

	levelVar, exists := r.levelVars[module]
	if !exists {
		return false
	}
	levelVar.Set(*parsed)
	r.explicit[module] = true
	return true
}

// Writer returns the destination of the registry's text or json handlers.
func (r *Registry) Writer() io.Writer {
	return r.out
}

// RootLevel returns the registry-wide level.
func (r *Registry) RootLevel() slog.Level {
	return r.rootLevel.Level()
}

// Modules returns a snapshot of every module logger sorted by name.
func (r *Registry) Modules() []ModuleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modules := make([]ModuleInfo, 0, len(r.levelVars))
	for name, levelVar := range r.levelVars {
		leaves := make([]slog.Handler, len(r.handlers[name]))
		copy(leaves, r.handlers[name])
		modules = append(modules, ModuleInfo{
			Name:     name,
			Level:    levelVar.Level(),
			Explicit: r.explicit[name],
			Handlers: leaves,
		})
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })
	return modules
}

// createHandler creates a slog handler with the specified format and level.
// Logs to the registry writer and to the journal when available.
// It also returns the leaf handlers behind any fan-out.
func (r *Registry) createHandler(format string, level slog.Leveler) (slog.Handler, []slog.Handler) {
	opts := &slog.HandlerOptions{Level: level}

	var outHandler slog.Handler
	if format == "json" {
		outHandler = slog.NewJSONHandler(r.out, opts)
	} else {
		outHandler = slog.NewTextHandler(r.out, opts)
	}

	var handlers []slog.Handler
	if r.out != os.Stdout || isStdoutAvailable() {
		handlers = append(handlers, outHandler)
	}
	if r.out == os.Stdout && IsJournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}

	switch len(handlers) {
	case 0:
		return outHandler, []slog.Handler{outHandler}
	case 1:
		return handlers[0], handlers
	default:
		return NewMultiHandler(handlers...), handlers
	}
}

// isStdoutAvailable checks if stdout is connected to a terminal, pipe, socket, or file.
func isStdoutAvailable() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	// Available if terminal, pipe, socket, or regular file (not /dev/null which is ModeDevice)
	return (mode&os.ModeCharDevice) != 0 || (mode&os.ModeNamedPipe) != 0 || (mode&os.ModeSocket) != 0 || mode.IsRegular()
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(level string) (slog.Level, bool) {
	parsed := parseLevel(level)
	if parsed == nil {
		return 0, false
	}
	return *parsed, true
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) *slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		l := slog.LevelDebug
		return &l
	case "info":
		l := slog.LevelInfo
		return &l
	case "warn", "warning":
		l := slog.LevelWarn
		return &l
	case "error":
		l := slog.LevelError
		return &l
	default:
		return nil
	}
}
