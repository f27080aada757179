package engine

import (
	"sort"

	"github.com/smazurov/logscope/internal/adapters"
	"github.com/smazurov/logscope/internal/host"
)

// LoggerRecord is one logger as reported across scopes.
type LoggerRecord struct {
	Framework      string           `json:"framework" example:"slog" doc:"Framework family"`
	Name           string           `json:"name" example:"ROOT" doc:"Logger name"`
	Level          string           `json:"level,omitempty" example:"DEBUG" doc:"Level set on the logger, empty when inherited"`
	EffectiveLevel string           `json:"effective_level" example:"INFO" doc:"Level the logger applies"`
	Additive       bool             `json:"additive" doc:"Whether the logger follows the root level"`
	Class          string           `json:"class,omitempty" doc:"Logger type name"`
	Scope          string           `json:"scope,omitempty" example:"plugins/billing@1b6d3586" doc:"Display name of the scope defining the logger type"`
	ScopeHash      string           `json:"scope_hash,omitempty" example:"1b6d3586" doc:"Identity hash of the scope defining the logger type"`
	Appenders      []AppenderRecord `json:"appenders" doc:"Outputs attached to the logger"`
}

// AppenderRecord is one logger output.
type AppenderRecord struct {
	Name      string `json:"name" example:"text" doc:"Appender name"`
	Class     string `json:"class,omitempty" doc:"Appender type name"`
	Target    string `json:"target,omitempty" example:"stdout" doc:"Output destination"`
	Scope     string `json:"scope,omitempty" doc:"Display name of the scope defining the appender type"`
	ScopeHash string `json:"scope_hash,omitempty" doc:"Identity hash of the scope defining the appender type"`
}

// normalize turns adapter output into records sorted by logger name.
func normalize(fw Framework, infos map[string]adapters.LoggerInfo) []LoggerRecord {
	records := make([]LoggerRecord, 0, len(infos))
	for _, info := range infos {
		record := LoggerRecord{
			Framework:      fw.String(),
			Name:           info.Name,
			Level:          info.Level,
			EffectiveLevel: info.EffectiveLevel,
			Additive:       info.Additive,
			Appenders:      make([]AppenderRecord, 0, len(info.Appenders)),
		}
		record.Class, record.Scope, record.ScopeHash = describeType(info.Class)
		for _, a := range info.Appenders {
			appender := AppenderRecord{Name: a.Name, Target: a.Target}
			appender.Class, appender.Scope, appender.ScopeHash = describeType(a.Class)
			record.Appenders = append(record.Appenders, appender)
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}

// describeType returns a type's name and its defining scope, all empty for nil.
func describeType(t *host.Type) (name, scope, hash string) {
	if t == nil {
		return "", "", ""
	}
	if s := t.Scope(); s != nil {
		return t.Name(), s.String(), s.Hash()
	}
	return t.Name(), "", ""
}
