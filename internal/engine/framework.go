package engine

import (
	"strings"

	"github.com/smazurov/logscope/internal/backends"
)

// Framework is a supported logging framework family.
type Framework int

// Frameworks in enumeration order.
const (
	FrameworkSlog Framework = iota
	FrameworkPion
	FrameworkCharm
)

// Frameworks lists every supported family in enumeration order.
var Frameworks = []Framework{FrameworkSlog, FrameworkPion, FrameworkCharm}

func (f Framework) String() string {
	switch f {
	case FrameworkSlog:
		return "slog"
	case FrameworkPion:
		return "pion"
	case FrameworkCharm:
		return "charm"
	default:
		return "unknown"
	}
}

// Marker returns the type name whose presence suggests the framework.
func (f Framework) Marker() string {
	switch f {
	case FrameworkSlog:
		return backends.SlogMarker
	case FrameworkPion:
		return backends.PionMarker
	case FrameworkCharm:
		return backends.CharmMarker
	default:
		return ""
	}
}

// Resource returns the implementation resource that confirms the framework.
func (f Framework) Resource() string {
	switch f {
	case FrameworkSlog:
		return backends.SlogResource
	case FrameworkPion:
		return backends.PionResource
	case FrameworkCharm:
		return backends.CharmResource
	default:
		return ""
	}
}

// ContextType returns the type name under which the framework's live
// context is registered in the scope that hosts it.
func (f Framework) ContextType() string {
	switch f {
	case FrameworkSlog:
		return backends.SlogContextType
	case FrameworkPion:
		return backends.PionContextType
	case FrameworkCharm:
		return backends.CharmContextType
	default:
		return ""
	}
}

// ParseFramework converts a family name to a Framework.
func ParseFramework(name string) (Framework, bool) {
	for _, f := range Frameworks {
		if strings.EqualFold(name, f.String()) {
			return f, true
		}
	}
	return 0, false
}

// frameworkByMarker maps a marker type name back to its framework.
func frameworkByMarker(typeName string) (Framework, bool) {
	for _, f := range Frameworks {
		if f.Marker() == typeName {
			return f, true
		}
	}
	return 0, false
}

// FrameworkNames renders frameworks as their family names.
func FrameworkNames(fws []Framework) []string {
	out := make([]string, len(fws))
	for i, f := range fws {
		out[i] = f.String()
	}
	return out
}
