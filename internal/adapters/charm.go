package adapters

import (
	"fmt"
	"strings"

	"github.com/smazurov/logscope/internal/backends"
	"github.com/smazurov/logscope/internal/host"
)

// CharmAdapter exposes the charm logger tree of one scope.
type CharmAdapter struct {
	scope *host.Scope
	ctx   *backends.CharmContext
}

func charmBlueprint() *Blueprint {
	return newBlueprint("charm", backends.CharmContextType, (*CharmAdapter)(nil), func(scope *host.Scope, ctx any) (any, error) {
		charm, ok := ctx.(*backends.CharmContext)
		if !ok || charm == nil {
			return nil, fmt.Errorf("%w: %T", ErrContextMismatch, ctx)
		}
		return &CharmAdapter{scope: scope, ctx: charm}, nil
	})
}

// Enumerate lists the root logger and every prefixed logger matching name.
func (a *CharmAdapter) Enumerate(name string, includeNoAppender bool) map[string]LoggerInfo {
	out := make(map[string]LoggerInfo)
	class := resolve(a.scope, backends.CharmMarker)

	if matches(name, backends.RootLogger) {
		root := strings.ToUpper(a.ctx.RootLevel().String())
		info := LoggerInfo{
			Name:           backends.RootLogger,
			Level:          root,
			EffectiveLevel: root,
			Class:          class,
			Appenders:      writerAppenders(a.scope, backends.CharmFormatterName(a.ctx.Formatter()), a.ctx.Writer()),
		}
		if keep(info, includeNoAppender) {
			out[info.Name] = info
		}
	}

	for _, logger := range a.ctx.Loggers() {
		if !matches(name, logger.Name) {
			continue
		}
		effective := strings.ToUpper(logger.Level.String())
		info := LoggerInfo{
			Name:           logger.Name,
			EffectiveLevel: effective,
			Additive:       !logger.Explicit,
			Class:          class,
			Appenders:      writerAppenders(a.scope, backends.CharmFormatterName(logger.Formatter), logger.Writer),
		}
		if logger.Explicit {
			info.Level = effective
		}
		if keep(info, includeNoAppender) {
			out[info.Name] = info
		}
	}
	return out
}

// SetLevel assigns level to a prefixed logger or to ROOT.
func (a *CharmAdapter) SetLevel(name, level string) bool {
	return a.ctx.SetLevel(name, level)
}
