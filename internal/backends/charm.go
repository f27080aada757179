package backends

import (
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/smazurov/logscope/internal/host"
)

// Identity of the charmbracelet/log family.
const (
	CharmMarker   = "github.com/charmbracelet/log.Logger"
	CharmResource = "github.com/charmbracelet/log/styles.go"
)

// CharmContextType is the type under which InstallCharm registers a context.
var CharmContextType = host.TypeName((*CharmContext)(nil))

// CharmLoggerInfo is a snapshot of one prefixed charm logger.
type CharmLoggerInfo struct {
	Name      string
	Level     log.Level
	Explicit  bool
	Writer    io.Writer
	Formatter log.Formatter
}

type charmEntry struct {
	logger    *log.Logger
	writer    io.Writer
	formatter log.Formatter
	explicit  bool
}

// CharmContext owns a root charm logger and the prefixed loggers derived
// from it. Derived loggers follow the root level until one is set on them.
type CharmContext struct {
	mu        sync.RWMutex
	root      *log.Logger
	writer    io.Writer
	formatter log.Formatter
	scope     *host.Scope
	loggers   map[string]*charmEntry
}

// NewCharmContext creates a context whose root logger writes to w.
func NewCharmContext(w io.Writer, opts log.Options) *CharmContext {
	out := w
	if out == nil {
		out = io.Discard
	}
	return &CharmContext{
		root:      log.NewWithOptions(out, opts),
		writer:    w,
		formatter: opts.Formatter,
		loggers:   make(map[string]*charmEntry),
	}
}

// Root returns the root logger.
func (c *CharmContext) Root() *log.Logger {
	return c.root
}

// Writer returns the root logger's writer.
func (c *CharmContext) Writer() io.Writer {
	return c.writer
}

// Formatter returns the root logger's formatter.
func (c *CharmContext) Formatter() log.Formatter {
	return c.formatter
}

// Logger returns the logger with the given prefix, sharing the root output.
func (c *CharmContext) Logger(prefix string) *log.Logger {
	return c.logger(prefix, c.writer, c.formatter)
}

// LoggerTo returns the logger with the given prefix writing to w. A nil
// writer gives a logger without any output.
func (c *CharmContext) LoggerTo(prefix string, w io.Writer, f log.Formatter) *log.Logger {
	return c.logger(prefix, w, f)
}

func (c *CharmContext) logger(prefix string, w io.Writer, f log.Formatter) *log.Logger {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.loggers[prefix]; exists {
		return entry.logger
	}

	l := c.root.WithPrefix(prefix)
	l.SetLevel(c.root.GetLevel())
	if w != c.writer {
		if w == nil {
			l.SetOutput(io.Discard)
		} else {
			l.SetOutput(w)
		}
	}
	if f != c.formatter {
		l.SetFormatter(f)
	}
	c.loggers[prefix] = &charmEntry{logger: l, writer: w, formatter: f}
	if c.scope != nil && w != nil {
		_ = ensureType(c.scope, host.TypeName(w))
	}
	return l
}

// RootLevel returns the root logger level.
func (c *CharmContext) RootLevel() log.Level {
	return c.root.GetLevel()
}

// SetLevel assigns a level to one prefixed logger, or to the root and every
// logger still following it when name is ROOT.
func (c *CharmContext) SetLevel(name, level string) bool {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.EqualFold(name, RootLogger) {
		c.root.SetLevel(parsed)
		for _, entry := range c.loggers {
			if !entry.explicit {
				entry.logger.SetLevel(parsed)
			}
		}
		return true
	}

	entry, exists := c.loggers[name]
	if !exists {
		return false
	}
	entry.logger.SetLevel(parsed)
	entry.explicit = true
	return true
}

// Loggers returns a snapshot of every prefixed logger sorted by name.
func (c *CharmContext) Loggers() []CharmLoggerInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]CharmLoggerInfo, 0, len(c.loggers))
	for name, entry := range c.loggers {
		out = append(out, CharmLoggerInfo{
			Name:      name,
			Level:     entry.logger.GetLevel(),
			Explicit:  entry.explicit,
			Writer:    entry.writer,
			Formatter: entry.formatter,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *CharmContext) bind(scope *host.Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scope = scope
}

// InstallCharm makes ctx the charm logger tree of scope.
func InstallCharm(scope *host.Scope, ctx *CharmContext) error {
	if ctx == nil {
		return errNilContext("charm")
	}
	types := []string{}
	if ctx.Writer() != nil {
		types = append(types, host.TypeName(ctx.Writer()))
	}
	for _, info := range ctx.Loggers() {
		if info.Writer != nil {
			types = append(types, host.TypeName(info.Writer))
		}
	}
	fw := framework{
		name:     "charm",
		marker:   CharmMarker,
		resource: CharmResource,
		context:  CharmContextType,
		types:    types,
	}
	if err := fw.install(scope, ctx); err != nil {
		return err
	}
	ctx.bind(scope)
	return nil
}

// CharmFormatterName names a formatter the way appender records report it.
func CharmFormatterName(f log.Formatter) string {
	switch f {
	case log.JSONFormatter:
		return "json"
	case log.LogfmtFormatter:
		return "logfmt"
	default:
		return "text"
	}
}
