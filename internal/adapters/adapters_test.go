package adapters

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	plog "github.com/pion/logging"

	"github.com/smazurov/logscope/internal/backends"
	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/logging"
)

func TestLookup(t *testing.T) {
	for _, fw := range []string{"slog", "pion", "charm"} {
		b, err := Lookup(fw)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", fw, err)
		}
		if b.Framework() != fw {
			t.Errorf("Framework() = %q, want %q", b.Framework(), fw)
		}
		if err := b.Validate(); err != nil {
			t.Errorf("registered %s blueprint invalid: %v", fw, err)
		}
	}

	if _, err := Lookup("zap"); !errors.Is(err, ErrUnknownFramework) {
		t.Errorf("Lookup(zap) error = %v, want ErrUnknownFramework", err)
	}
}

func TestBlueprintRename(t *testing.T) {
	b, _ := Lookup("pion")
	original := b.Name()

	renamed := b.Rename(original + "$abc$1f")
	if err := renamed.Validate(); err != nil {
		t.Fatalf("renamed blueprint invalid: %v", err)
	}
	for _, sym := range renamed.Symbols() {
		if !strings.HasPrefix(sym, renamed.Name()+".") {
			t.Errorf("symbol %q not rewritten", sym)
		}
	}
	if b.Name() != original {
		t.Error("Rename must not modify the registered blueprint")
	}
	for _, sym := range b.Symbols() {
		if strings.Contains(sym, "$") {
			t.Errorf("registered symbol %q was rewritten", sym)
		}
	}
}

func TestBlueprintValidateStaleReference(t *testing.T) {
	b, _ := Lookup("slog")
	broken := b.Rename("renamed")
	broken.symbols = append(broken.symbols, b.Name()+".Enumerate")

	if err := broken.Validate(); !errors.Is(err, ErrStaleReference) {
		t.Errorf("Validate() error = %v, want ErrStaleReference", err)
	}
}

func TestInstantiateWithoutContext(t *testing.T) {
	scope := host.NewRuntime().NewScope("bare", nil)
	b, _ := Lookup("charm")

	if _, err := b.Instantiate(scope); !errors.Is(err, host.ErrTypeNotFound) {
		t.Errorf("Instantiate() error = %v, want ErrTypeNotFound", err)
	}
}

func TestSlogAdapter(t *testing.T) {
	scope := host.NewRuntime().NewScope("app", nil)
	reg := logging.NewRegistry(&bytes.Buffer{})
	reg.GetLogger("api")
	reg.GetLogger("db")
	if err := backends.InstallSlog(scope, reg); err != nil {
		t.Fatalf("InstallSlog failed: %v", err)
	}

	b, _ := Lookup("slog")
	adapter, err := b.Instantiate(scope)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	a := adapter.(*SlogAdapter)

	all := a.Enumerate("", false)
	if len(all) != 3 {
		t.Fatalf("Enumerate(\"\") returned %d loggers, want 3", len(all))
	}
	api := all["api"]
	if api.Level != "" || api.EffectiveLevel != "INFO" || !api.Additive {
		t.Errorf("api = %+v, want inherited INFO", api)
	}
	if len(api.Appenders) != 1 || api.Appenders[0].Name != "text" {
		t.Fatalf("api appenders = %+v, want one text handler", api.Appenders)
	}
	if api.Appenders[0].Class == nil || api.Appenders[0].Class.Scope() != scope {
		t.Error("appender class should resolve in the installing scope")
	}
	if api.Class == nil || api.Class.Name() != backends.SlogMarker {
		t.Errorf("logger class = %v, want %s", api.Class, backends.SlogMarker)
	}

	if !a.SetLevel("db", "debug") {
		t.Fatal("SetLevel(db, debug) = false")
	}
	db := a.Enumerate("db", false)
	if len(db) != 1 || db["db"].Level != "DEBUG" || db["db"].Additive {
		t.Errorf("Enumerate(db) = %+v, want explicit DEBUG", db)
	}

	root := a.Enumerate("root", false)
	if _, ok := root["ROOT"]; !ok || len(root) != 1 {
		t.Errorf("Enumerate(root) = %+v, want only ROOT", root)
	}
}

func TestPionAdapterIncludeNoAppender(t *testing.T) {
	scope := host.NewRuntime().NewScope("rtc", nil)
	ctx := backends.NewPionContext(io.Discard, plog.LogLevelWarn)
	ctx.NewLogger("ice")
	ctx.NewLoggerTo("silent", nil)
	if err := backends.InstallPion(scope, ctx); err != nil {
		t.Fatalf("InstallPion failed: %v", err)
	}

	b, _ := Lookup("pion")
	adapter, err := b.Instantiate(scope)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	a := adapter.(*PionAdapter)

	tests := []struct {
		name              string
		includeNoAppender bool
		want              []string
	}{
		{"with appenders only", false, []string{"ROOT", "ice"}},
		{"include no appender", true, []string{"ROOT", "ice", "silent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Enumerate("", tt.includeNoAppender)
			if len(got) != len(tt.want) {
				t.Fatalf("Enumerate() = %d loggers, want %d", len(got), len(tt.want))
			}
			for _, name := range tt.want {
				if _, ok := got[name]; !ok {
					t.Errorf("missing logger %q", name)
				}
			}
		})
	}

	ice := a.Enumerate("ice", false)["ice"]
	if ice.EffectiveLevel != "WARN" {
		t.Errorf("ice effective level = %q, want WARN", ice.EffectiveLevel)
	}
	if ice.Appenders[0].Target != "discard" {
		t.Errorf("ice target = %q, want discard", ice.Appenders[0].Target)
	}
}

func TestCharmAdapterSetLevel(t *testing.T) {
	scope := host.NewRuntime().NewScope("cli", nil)
	ctx := backends.NewCharmContext(io.Discard, log.Options{Level: log.InfoLevel, Formatter: log.LogfmtFormatter})
	ctx.Logger("http")
	if err := backends.InstallCharm(scope, ctx); err != nil {
		t.Fatalf("InstallCharm failed: %v", err)
	}

	b, _ := Lookup("charm")
	adapter, err := b.Instantiate(scope)
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	a := adapter.(*CharmAdapter)

	tests := []struct {
		logger string
		level  string
		want   bool
	}{
		{"ROOT", "DEBUG", true},
		{"http", "warn", true},
		{"grpc", "warn", false},
		{"http", "chatty", false},
	}

	for _, tt := range tests {
		t.Run(tt.logger+"/"+tt.level, func(t *testing.T) {
			if got := a.SetLevel(tt.logger, tt.level); got != tt.want {
				t.Errorf("SetLevel(%q, %q) = %v, want %v", tt.logger, tt.level, got, tt.want)
			}
		})
	}

	http := a.Enumerate("http", false)["http"]
	if http.Level != "WARN" || http.Appenders[0].Name != "logfmt" {
		t.Errorf("http = %+v, want explicit WARN with logfmt appender", http)
	}
}

func TestSetLevelToCurrentLevel(t *testing.T) {
	tests := []struct {
		framework string
		install   func(*host.Scope) error
		level     string
		want      string
	}{
		{"slog", func(s *host.Scope) error {
			return backends.InstallSlog(s, logging.NewRegistry(io.Discard))
		}, "info", "INFO"},
		{"pion", func(s *host.Scope) error {
			return backends.InstallPion(s, backends.NewPionContext(io.Discard, plog.LogLevelWarn))
		}, "warn", "WARN"},
		{"charm", func(s *host.Scope) error {
			return backends.InstallCharm(s, backends.NewCharmContext(io.Discard, log.Options{Level: log.InfoLevel}))
		}, "info", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.framework, func(t *testing.T) {
			scope := host.NewRuntime().NewScope(tt.framework, nil)
			if err := tt.install(scope); err != nil {
				t.Fatalf("install failed: %v", err)
			}
			b, _ := Lookup(tt.framework)
			adapter, err := b.Instantiate(scope)
			if err != nil {
				t.Fatalf("Instantiate failed: %v", err)
			}
			a := adapter.(interface {
				Enumerate(string, bool) map[string]LoggerInfo
				SetLevel(string, string) bool
			})

			// Assigning the level a logger already has still counts as an update.
			if !a.SetLevel(backends.RootLogger, tt.level) {
				t.Errorf("SetLevel(ROOT, %q) = false, want true", tt.level)
			}
			if got := a.Enumerate(backends.RootLogger, true)[backends.RootLogger].EffectiveLevel; got != tt.want {
				t.Errorf("ROOT effective level = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		filter, name string
		want         bool
	}{
		{"", "anything", true},
		{"root", "ROOT", true},
		{"Root", "api", false},
		{"api", "api", true},
		{"api", "api.v2", false},
	}

	for _, tt := range tests {
		if got := matches(tt.filter, tt.name); got != tt.want {
			t.Errorf("matches(%q, %q) = %v, want %v", tt.filter, tt.name, got, tt.want)
		}
	}
}
