package adapters

import (
	"fmt"
	"strings"

	"github.com/smazurov/logscope/internal/backends"
	"github.com/smazurov/logscope/internal/host"
)

// PionAdapter exposes the pion logger factory of one scope.
type PionAdapter struct {
	scope *host.Scope
	ctx   *backends.PionContext
}

func pionBlueprint() *Blueprint {
	return newBlueprint("pion", backends.PionContextType, (*PionAdapter)(nil), func(scope *host.Scope, ctx any) (any, error) {
		pion, ok := ctx.(*backends.PionContext)
		if !ok || pion == nil {
			return nil, fmt.Errorf("%w: %T", ErrContextMismatch, ctx)
		}
		return &PionAdapter{scope: scope, ctx: pion}, nil
	})
}

// Enumerate lists the root logger and every pion logger matching name.
func (a *PionAdapter) Enumerate(name string, includeNoAppender bool) map[string]LoggerInfo {
	out := make(map[string]LoggerInfo)
	class := resolve(a.scope, backends.PionLoggerType)

	if matches(name, backends.RootLogger) {
		root := strings.ToUpper(a.ctx.RootLevel().String())
		info := LoggerInfo{
			Name:           backends.RootLogger,
			Level:          root,
			EffectiveLevel: root,
			Class:          resolve(a.scope, backends.PionMarker),
			Appenders:      writerAppenders(a.scope, "writer", a.ctx.Writer()),
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
			Appenders:      writerAppenders(a.scope, "writer", logger.Writer),
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

// SetLevel assigns level to a pion logger or to ROOT.
func (a *PionAdapter) SetLevel(name, level string) bool {
	return a.ctx.SetLevel(name, level)
}
