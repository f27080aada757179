package backends

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	plog "github.com/pion/logging"

	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/logging"
)

func TestInstallSlogDefinesFramework(t *testing.T) {
	rt := host.NewRuntime()
	scope := rt.NewScope("app", nil)
	reg := logging.NewRegistry(&bytes.Buffer{})

	if err := InstallSlog(scope, reg); err != nil {
		t.Fatalf("InstallSlog failed: %v", err)
	}

	if _, err := scope.FindType(SlogMarker); err != nil {
		t.Errorf("marker not defined: %v", err)
	}
	if _, err := scope.Resource(SlogResource); err != nil {
		t.Errorf("resource not published: %v", err)
	}
	ctx, err := scope.FindType(SlogContextType)
	if err != nil {
		t.Fatalf("context type not defined: %v", err)
	}
	if ctx.Value() != reg {
		t.Error("context type should carry the registry")
	}
	if _, err := scope.LoadType("bytes.Buffer"); err != nil {
		t.Errorf("writer type not resolvable: %v", err)
	}
}

func TestInstallTwiceFails(t *testing.T) {
	scope := host.NewRuntime().NewScope("app", nil)
	reg := logging.NewRegistry(io.Discard)

	if err := InstallSlog(scope, reg); err != nil {
		t.Fatalf("first InstallSlog failed: %v", err)
	}
	if err := InstallSlog(scope, reg); !errors.Is(err, host.ErrDuplicateType) {
		t.Errorf("second InstallSlog error = %v, want ErrDuplicateType", err)
	}
}

func TestInstallNilContext(t *testing.T) {
	scope := host.NewRuntime().NewScope("app", nil)

	if err := InstallSlog(scope, nil); err == nil {
		t.Error("InstallSlog(nil) should fail")
	}
	if err := InstallPion(scope, nil); err == nil {
		t.Error("InstallPion(nil) should fail")
	}
	if err := InstallCharm(scope, nil); err == nil {
		t.Error("InstallCharm(nil) should fail")
	}
}

func TestInstallShimHasNoResource(t *testing.T) {
	scope := host.NewRuntime().NewScope("facade", nil)

	if err := InstallShim(scope, PionMarker); err != nil {
		t.Fatalf("InstallShim failed: %v", err)
	}
	if _, err := scope.FindType(PionMarker); err != nil {
		t.Errorf("marker not defined: %v", err)
	}
	if _, err := scope.Resource(PionResource); !errors.Is(err, host.ErrResourceNotFound) {
		t.Errorf("Resource error = %v, want ErrResourceNotFound", err)
	}
}

func TestMarkerDefinedInChildScope(t *testing.T) {
	rt := host.NewRuntime()
	parent := rt.NewScope("parent", nil)
	child := rt.NewScope("child", parent)

	if err := InstallCharm(parent, NewCharmContext(io.Discard, log.Options{})); err != nil {
		t.Fatalf("InstallCharm(parent) failed: %v", err)
	}
	if err := InstallCharm(child, NewCharmContext(io.Discard, log.Options{})); err != nil {
		t.Fatalf("InstallCharm(child) failed: %v", err)
	}
	if _, err := child.FindType(CharmMarker); err != nil {
		t.Errorf("child should define its own marker: %v", err)
	}
}

func TestPionContextSetLevel(t *testing.T) {
	ctx := NewPionContext(io.Discard, plog.LogLevelWarn)
	ctx.NewLogger("ice")
	ctx.NewLogger("dtls")

	tests := []struct {
		name   string
		logger string
		level  string
		want   bool
	}{
		{"named logger", "ice", "debug", true},
		{"root", "root", "trace", true},
		{"unknown logger", "sctp", "debug", false},
		{"bad level", "ice", "verbose", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ctx.SetLevel(tt.logger, tt.level); got != tt.want {
				t.Errorf("SetLevel(%q, %q) = %v, want %v", tt.logger, tt.level, got, tt.want)
			}
		})
	}

	loggers := ctx.Loggers()
	if len(loggers) != 2 {
		t.Fatalf("Loggers() returned %d, want 2", len(loggers))
	}
	// sorted: dtls, ice
	if loggers[0].Name != "dtls" || loggers[0].Level != plog.LogLevelTrace || loggers[0].Explicit {
		t.Errorf("dtls = %+v, want inherited trace", loggers[0])
	}
	if loggers[1].Name != "ice" || loggers[1].Level != plog.LogLevelDebug || !loggers[1].Explicit {
		t.Errorf("ice = %+v, want explicit debug", loggers[1])
	}
	if ctx.RootLevel() != plog.LogLevelTrace {
		t.Errorf("RootLevel() = %v, want Trace", ctx.RootLevel())
	}
}

func TestPionLoggerWritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewPionContext(&buf, plog.LogLevelError)
	logger := ctx.NewLogger("ice")

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info written at error level: %q", buf.String())
	}

	ctx.SetLevel("ice", "info")
	logger.Info("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("output = %q, want visible message", buf.String())
	}
}

func TestPionLoggerWithoutWriter(t *testing.T) {
	ctx := NewPionContext(io.Discard, plog.LogLevelInfo)
	ctx.NewLoggerTo("silent", nil)

	loggers := ctx.Loggers()
	if len(loggers) != 1 || loggers[0].Writer != nil {
		t.Errorf("Loggers() = %+v, want one logger without writer", loggers)
	}
}

func TestCharmContextSetLevel(t *testing.T) {
	ctx := NewCharmContext(io.Discard, log.Options{Level: log.InfoLevel})
	api := ctx.Logger("api")
	db := ctx.Logger("db")

	if !ctx.SetLevel("db", "error") {
		t.Fatal("SetLevel(db) = false")
	}
	if !ctx.SetLevel("ROOT", "debug") {
		t.Fatal("SetLevel(ROOT) = false")
	}
	if ctx.SetLevel("cache", "debug") {
		t.Error("SetLevel on unknown logger should be false")
	}
	if ctx.SetLevel("api", "loud") {
		t.Error("SetLevel with bad level should be false")
	}

	if api.GetLevel() != log.DebugLevel {
		t.Errorf("api level = %v, want debug", api.GetLevel())
	}
	if db.GetLevel() != log.ErrorLevel {
		t.Errorf("db level = %v, want error", db.GetLevel())
	}
	if ctx.RootLevel() != log.DebugLevel {
		t.Errorf("root level = %v, want debug", ctx.RootLevel())
	}
}

func TestCharmLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewCharmContext(io.Discard, log.Options{Level: log.InfoLevel})
	l := ctx.LoggerTo("audit", &buf, log.JSONFormatter)

	l.Info("recorded")
	if !strings.Contains(buf.String(), `"prefix":"audit"`) {
		t.Errorf("output = %q, want json with prefix", buf.String())
	}

	infos := ctx.Loggers()
	if len(infos) != 1 || CharmFormatterName(infos[0].Formatter) != "json" {
		t.Errorf("Loggers() = %+v, want one json logger", infos)
	}
}

func TestDescribeWriter(t *testing.T) {
	tests := []struct {
		name string
		w    io.Writer
		want string
	}{
		{"nil", nil, ""},
		{"discard", io.Discard, "discard"},
		{"stdout", os.Stdout, "stdout"},
		{"stderr", os.Stderr, "stderr"},
		{"buffer", &bytes.Buffer{}, "bytes.Buffer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeWriter(tt.w); got != tt.want {
				t.Errorf("DescribeWriter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePionLevel(t *testing.T) {
	tests := []struct {
		input string
		want  plog.LogLevel
		ok    bool
	}{
		{"TRACE", plog.LogLevelTrace, true},
		{"warning", plog.LogLevelWarn, true},
		{"off", plog.LogLevelDisabled, true},
		{"fatal", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePionLevel(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParsePionLevel(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
