package backends

import (
	"io"
	"sort"
	"strings"
	"sync"

	plog "github.com/pion/logging"

	"github.com/smazurov/logscope/internal/host"
)

// Identity of the pion/logging family.
const (
	PionMarker   = "github.com/pion/logging.LeveledLogger"
	PionResource = "github.com/pion/logging/scoped.go"
)

// PionContextType is the type under which InstallPion registers a context.
var PionContextType = host.TypeName((*PionContext)(nil))

// PionLoggerType is the class of every logger a PionContext hands out.
var PionLoggerType = host.TypeName((*plog.DefaultLeveledLogger)(nil))

// PionLoggerInfo is a snapshot of one pion logger.
type PionLoggerInfo struct {
	Name     string
	Level    plog.LogLevel
	Explicit bool
	Writer   io.Writer
}

type pionEntry struct {
	logger *plog.DefaultLeveledLogger
	level  plog.LogLevel
	writer io.Writer
}

// PionContext is a pion logger factory that remembers what it created.
// Scope levels set on the factory are explicit; every other logger follows
// the default level.
type PionContext struct {
	mu      sync.RWMutex
	factory *plog.DefaultLoggerFactory
	scope   *host.Scope
	loggers map[string]*pionEntry
}

// NewPionContext creates a context writing to w at the given default level.
func NewPionContext(w io.Writer, level plog.LogLevel) *PionContext {
	return &PionContext{
		factory: &plog.DefaultLoggerFactory{
			Writer:          w,
			DefaultLogLevel: level,
			ScopeLevels:     make(map[string]plog.LogLevel),
		},
		loggers: make(map[string]*pionEntry),
	}
}

// NewLogger returns the logger for name, writing to the context writer.
// It satisfies plog.LoggerFactory.
func (c *PionContext) NewLogger(name string) plog.LeveledLogger {
	return c.newLogger(name, c.factory.Writer)
}

// NewLoggerTo returns the logger for name writing to w. A nil writer gives
// a logger without any output.
func (c *PionContext) NewLoggerTo(name string, w io.Writer) plog.LeveledLogger {
	return c.newLogger(name, w)
}

func (c *PionContext) newLogger(name string, w io.Writer) *plog.DefaultLeveledLogger {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.loggers[name]; exists {
		return entry.logger
	}

	level, explicit := c.factory.ScopeLevels[name]
	if !explicit {
		level = c.factory.DefaultLogLevel
	}
	out := w
	if out == nil {
		out = io.Discard
	}
	entry := &pionEntry{
		logger: plog.NewDefaultLeveledLoggerForScope(name, level, out),
		level:  level,
		writer: w,
	}
	c.loggers[name] = entry
	if c.scope != nil && w != nil {
		_ = ensureType(c.scope, host.TypeName(w))
	}
	return entry.logger
}

// RootLevel returns the default level.
func (c *PionContext) RootLevel() plog.LogLevel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.factory.DefaultLogLevel
}

// Writer returns the context writer.
func (c *PionContext) Writer() io.Writer {
	return c.factory.Writer
}

// SetLevel assigns a level to one logger, or the default level to every
// logger without a scope level when name is ROOT.
func (c *PionContext) SetLevel(name, level string) bool {
	parsed, ok := ParsePionLevel(level)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.EqualFold(name, RootLogger) {
		c.factory.DefaultLogLevel = parsed
		for loggerName, entry := range c.loggers {
			if _, explicit := c.factory.ScopeLevels[loggerName]; !explicit {
				entry.logger.SetLevel(parsed)
				entry.level = parsed
			}
		}
		return true
	}

	entry, exists := c.loggers[name]
	if !exists {
		return false
	}
	entry.logger.SetLevel(parsed)
	entry.level = parsed
	c.factory.ScopeLevels[name] = parsed
	return true
}

// Loggers returns a snapshot of every logger sorted by name.
func (c *PionContext) Loggers() []PionLoggerInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]PionLoggerInfo, 0, len(c.loggers))
	for name, entry := range c.loggers {
		_, explicit := c.factory.ScopeLevels[name]
		out = append(out, PionLoggerInfo{
			Name:     name,
			Level:    entry.level,
			Explicit: explicit,
			Writer:   entry.writer,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *PionContext) bind(scope *host.Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scope = scope
}

// InstallPion makes ctx the pion logger factory of scope.
func InstallPion(scope *host.Scope, ctx *PionContext) error {
	if ctx == nil {
		return errNilContext("pion")
	}
	types := []string{PionLoggerType, host.TypeName(ctx.factory)}
	for _, info := range ctx.Loggers() {
		if info.Writer != nil {
			types = append(types, host.TypeName(info.Writer))
		}
	}
	if ctx.Writer() != nil {
		types = append(types, host.TypeName(ctx.Writer()))
	}
	fw := framework{
		name:     "pion",
		marker:   PionMarker,
		resource: PionResource,
		context:  PionContextType,
		types:    types,
	}
	if err := fw.install(scope, ctx); err != nil {
		return err
	}
	ctx.bind(scope)
	return nil
}

// ParsePionLevel converts a level name to a pion level.
func ParsePionLevel(level string) (plog.LogLevel, bool) {
	switch strings.ToLower(level) {
	case "disabled", "off":
		return plog.LogLevelDisabled, true
	case "error":
		return plog.LogLevelError, true
	case "warn", "warning":
		return plog.LogLevelWarn, true
	case "info":
		return plog.LogLevelInfo, true
	case "debug":
		return plog.LogLevelDebug, true
	case "trace":
		return plog.LogLevelTrace, true
	default:
		return 0, false
	}
}
