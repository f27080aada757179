package adapters

import (
	"fmt"
	"strings"

	"github.com/smazurov/logscope/internal/backends"
	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/logging"
)

// SlogAdapter exposes the slog registry of one scope.
type SlogAdapter struct {
	scope *host.Scope
	reg   *logging.Registry
}

func slogBlueprint() *Blueprint {
	return newBlueprint("slog", backends.SlogContextType, (*SlogAdapter)(nil), func(scope *host.Scope, ctx any) (any, error) {
		reg, ok := ctx.(*logging.Registry)
		if !ok || reg == nil {
			return nil, fmt.Errorf("%w: %T", ErrContextMismatch, ctx)
		}
		return &SlogAdapter{scope: scope, reg: reg}, nil
	})
}

// Enumerate lists the root logger and every module logger matching name.
func (a *SlogAdapter) Enumerate(name string, includeNoAppender bool) map[string]LoggerInfo {
	out := make(map[string]LoggerInfo)
	class := resolve(a.scope, backends.SlogMarker)

	if matches(name, backends.RootLogger) {
		root := strings.ToUpper(a.reg.RootLevel().String())
		info := LoggerInfo{
			Name:           backends.RootLogger,
			Level:          root,
			EffectiveLevel: root,
			Class:          class,
			Appenders:      writerAppenders(a.scope, "writer", a.reg.Writer()),
		}
		if keep(info, includeNoAppender) {
			out[info.Name] = info
		}
	}

	for _, module := range a.reg.Modules() {
		if !matches(name, module.Name) {
			continue
		}
		effective := strings.ToUpper(module.Level.String())
		info := LoggerInfo{
			Name:           module.Name,
			EffectiveLevel: effective,
			Additive:       !module.Explicit,
			Class:          class,
		}
		if module.Explicit {
			info.Level = effective
		}
		for _, h := range module.Handlers {
			target := backends.DescribeWriter(a.reg.Writer())
			if _, journal := h.(*logging.JournalHandler); journal {
				target = "journald"
			}
			info.Appenders = append(info.Appenders, AppenderInfo{
				Name:   backends.SlogHandlerKind(h),
				Class:  resolve(a.scope, host.TypeName(h)),
				Target: target,
			})
		}
		if keep(info, includeNoAppender) {
			out[info.Name] = info
		}
	}
	return out
}

// SetLevel assigns level to a module logger or to ROOT.
func (a *SlogAdapter) SetLevel(name, level string) bool {
	return a.reg.SetLevel(name, level)
}
