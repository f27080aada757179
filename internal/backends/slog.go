package backends

import (
	"log/slog"

	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/logging"
)

// Identity of the log/slog family.
const (
	SlogMarker   = "log/slog.Logger"
	SlogResource = "log/slog/handler.go"
)

// SlogContextType is the type under which InstallSlog registers the registry.
var SlogContextType = host.TypeName((*logging.Registry)(nil))

// SlogHandlerKind names a leaf handler the way appender records report it.
func SlogHandlerKind(h slog.Handler) string {
	switch h.(type) {
	case *slog.TextHandler:
		return "text"
	case *slog.JSONHandler:
		return "json"
	case *logging.JournalHandler:
		return "journal"
	default:
		return host.TypeName(h)
	}
}

// InstallSlog makes reg the slog registry of scope.
func InstallSlog(scope *host.Scope, reg *logging.Registry) error {
	if reg == nil {
		return errNilContext("slog")
	}
	fw := framework{
		name:     "slog",
		marker:   SlogMarker,
		resource: SlogResource,
		context:  SlogContextType,
		types: []string{
			host.TypeName((*slog.TextHandler)(nil)),
			host.TypeName((*slog.JSONHandler)(nil)),
			host.TypeName((*logging.MultiHandler)(nil)),
			host.TypeName((*logging.JournalHandler)(nil)),
			host.TypeName(reg.Writer()),
		},
	}
	return fw.install(scope, reg)
}
