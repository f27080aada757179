package adapters

import (
	"io"
	"strings"

	"github.com/smazurov/logscope/internal/backends"
	"github.com/smazurov/logscope/internal/host"
)

// LoggerInfo describes one logger as an adapter reports it.
// Level is empty when the logger follows the root level.
type LoggerInfo struct {
	Name           string
	Level          string
	EffectiveLevel string
	Additive       bool
	Class          *host.Type
	Appenders      []AppenderInfo
}

// AppenderInfo describes one output attached to a logger.
type AppenderInfo struct {
	Name   string
	Class  *host.Type
	Target string
}

// matches applies the logger name filter: empty matches everything, the
// root logger matches case-insensitively, anything else exactly.
func matches(filter, name string) bool {
	if filter == "" {
		return true
	}
	if strings.EqualFold(filter, backends.RootLogger) {
		return name == backends.RootLogger
	}
	return filter == name
}

func keep(info LoggerInfo, includeNoAppender bool) bool {
	return includeNoAppender || len(info.Appenders) > 0
}

// resolve loads a type as seen from scope, nil when it cannot be resolved.
func resolve(scope *host.Scope, name string) *host.Type {
	if name == "" {
		return nil
	}
	t, err := scope.LoadType(name)
	if err != nil {
		return nil
	}
	return t
}

// writerAppenders reports w as a single appender, none for a nil writer.
func writerAppenders(scope *host.Scope, name string, w io.Writer) []AppenderInfo {
	if w == nil {
		return nil
	}
	return []AppenderInfo{{
		Name:   name,
		Class:  resolve(scope, host.TypeName(w)),
		Target: backends.DescribeWriter(w),
	}}
}
