package engine

import (
	"errors"
	"testing"

	"github.com/smazurov/logscope/internal/adapters"
	"github.com/smazurov/logscope/internal/host"
)

type panickingAdapter struct{}

func (panickingAdapter) Enumerate(string, bool) map[string]adapters.LoggerInfo {
	panic("enumerate exploded")
}

func (panickingAdapter) SetLevel(string, string) bool {
	panic("set level exploded")
}

type wrongShapeAdapter struct{}

func (wrongShapeAdapter) Enumerate(string) []string { return nil }

func (wrongShapeAdapter) SetLevel(string, string) string { return "yes" }

type noAppenderAdapter struct{}

func (noAppenderAdapter) Enumerate(string, bool) map[string]adapters.LoggerInfo {
	return map[string]adapters.LoggerInfo{
		"bare":  {Name: "bare"},
		"wired": {Name: "wired", Appenders: []adapters.AppenderInfo{{Name: "stdout"}}},
	}
}

func (noAppenderAdapter) SetLevel(string, string) bool { return true }

func readyHandle(adapter any) *AdapterHandle {
	h := &AdapterHandle{scope: host.NewRuntime().SystemScope(), framework: FrameworkSlog}
	h.transition(StateReady, adapter, nil)
	return h
}

func TestInvokeDowngradesFailures(t *testing.T) {
	eng := newTestEngine(host.NewRuntime())

	tests := []struct {
		name    string
		handle  *AdapterHandle
		wantErr error
	}{
		{"panic", readyHandle(panickingAdapter{}), ErrAdapterPanic},
		{"wrong shape", readyHandle(wrongShapeAdapter{}), ErrBadSignature},
		{"missing method", readyHandle(struct{}{}), ErrMethodMissing},
		{"not ready", &AdapterHandle{framework: FrameworkPion}, ErrHandleNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eng.listLoggers(tt.handle, "", true); len(got) != 0 {
				t.Errorf("listLoggers() = %v, want empty", got)
			}
			if eng.setLevel(tt.handle, "ROOT", "DEBUG") {
				t.Error("setLevel() = true, want false")
			}

			_, err := eng.invoke(tt.handle, adapters.MethodSetLevel, boolType, "ROOT", "DEBUG")
			var invErr *InvocationError
			if !errors.As(err, &invErr) || !errors.Is(err, tt.wantErr) {
				t.Errorf("invoke() error = %v, want InvocationError wrapping %v", err, tt.wantErr)
			}
		})
	}
}

func TestListLoggersDropsAppenderless(t *testing.T) {
	eng := newTestEngine(host.NewRuntime())
	h := readyHandle(noAppenderAdapter{})

	if got := eng.listLoggers(h, "", false); len(got) != 1 {
		t.Errorf("listLoggers(include=false) = %v, want only wired", got)
	}
	if got := eng.listLoggers(h, "", true); len(got) != 2 {
		t.Errorf("listLoggers(include=true) = %v, want both", got)
	}
}

func TestNormalizeNilClass(t *testing.T) {
	records := normalize(FrameworkCharm, map[string]adapters.LoggerInfo{
		"b": {Name: "b", Appenders: []adapters.AppenderInfo{{Name: "text"}}},
		"a": {Name: "a"},
	})

	if len(records) != 2 || records[0].Name != "a" || records[1].Name != "b" {
		t.Fatalf("records = %+v, want sorted a, b", records)
	}
	if records[1].Scope != "" || records[1].ScopeHash != "" || records[1].Appenders[0].ScopeHash != "" {
		t.Errorf("nil class refs should leave scope fields empty: %+v", records[1])
	}
	if records[0].Framework != "charm" {
		t.Errorf("framework = %q, want charm", records[0].Framework)
	}
}
