package topology

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/logscope/internal/engine"
	"github.com/smazurov/logscope/internal/events"
	"github.com/smazurov/logscope/internal/host"
)

const sampleTopology = `
[[scope]]
name = "plugins/billing"
types = ["billing.Invoice"]

[scope.slog]
writer = "discard"
level = "info"
loggers = [{ name = "db", level = "debug" }, { name = "cache" }]

[[scope]]
name = "plugins/media"
parent = "plugins/billing"

[scope.pion]
writer = "discard"
loggers = [{ name = "ice", level = "debug" }, { name = "dtls", writer = "none" }]

[scope.charm]
writer = "discard"
formatter = "json"
loggers = [{ name = "api", level = "warn" }]

[[scope]]
name = "plugins/legacy"
shims = ["slog"]
sealed = true
`

func TestParse(t *testing.T) {
	spec, err := Parse([]byte(sampleTopology))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if spec.Version != 1 {
		t.Errorf("Version = %d, want 1", spec.Version)
	}
	if len(spec.Scopes) != 3 {
		t.Fatalf("got %d scopes, want 3", len(spec.Scopes))
	}
	media := spec.Scopes[1]
	if media.Parent != "plugins/billing" || media.Pion == nil || media.Charm == nil {
		t.Errorf("media scope = %+v", media)
	}
	if got := len(media.Pion.Loggers); got != 2 {
		t.Errorf("pion loggers = %d, want 2", got)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want string
	}{
		{"no name", "[[scope]]\nparent = \"x\"\n", "has no name"},
		{"reserved", "[[scope]]\nname = \"system\"\n", "reserved"},
		{"duplicate", "[[scope]]\nname = \"a\"\n[[scope]]\nname = \"a\"\n", "duplicate scope"},
		{"parent order", "[[scope]]\nname = \"b\"\nparent = \"a\"\n[[scope]]\nname = \"a\"\n", "before it is declared"},
		{"shim", "[[scope]]\nname = \"a\"\nshims = [\"log4j\"]\n", "unknown shim"},
		{"writer", "[[scope]]\nname = \"a\"\n[scope.pion]\nwriter = \"syslog\"\n", "unknown writer"},
		{"logger writer", "[[scope]]\nname = \"a\"\n[scope.charm]\nloggers = [{ name = \"x\", writer = \"tty\" }]\n", "unknown writer"},
		{"duplicate logger", "[[scope]]\nname = \"a\"\n[scope.slog]\nloggers = [{ name = \"x\" }, { name = \"x\" }]\n", "duplicate logger"},
		{"version", "version = 2\n", "unsupported version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if !errors.Is(err, ErrInvalidTopology) {
				t.Fatalf("Parse error = %v, want ErrInvalidTopology", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("[[scope]\nname = ")); err == nil {
		t.Error("Parse should fail on malformed TOML")
	}
}

func TestBuild(t *testing.T) {
	spec, err := Parse([]byte(sampleTopology))
	if err != nil {
		t.Fatal(err)
	}
	rt := host.NewRuntime()
	d, err := Build(rt, spec)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	billing, ok := d.Scope("plugins/billing")
	if !ok {
		t.Fatal("billing scope missing")
	}
	media, _ := d.Scope("plugins/media")
	if media.Parent() != billing {
		t.Errorf("media parent = %v, want %v", media.Parent(), billing)
	}
	legacy, _ := d.Scope("plugins/legacy")
	if legacy.Parent() != rt.SystemScope() {
		t.Errorf("legacy parent = %v, want system scope", legacy.Parent())
	}

	if _, err := billing.FindType("billing.Invoice"); err != nil {
		t.Errorf("declared type missing: %v", err)
	}
	if _, err := legacy.DefineType("late.Type", nil); !errors.Is(err, host.ErrScopeSealed) {
		t.Errorf("sealed scope DefineType error = %v, want ErrScopeSealed", err)
	}

	if _, ok := d.SlogRegistry(billing); !ok {
		t.Error("billing has no slog registry")
	}
	if _, ok := d.PionContext(media); !ok {
		t.Error("media has no pion context")
	}
	if _, ok := d.CharmContext(media); !ok {
		t.Error("media has no charm context")
	}

	e := engine.New(rt)
	got := map[string][]string{}
	for _, info := range e.Scopes() {
		got[info.Name] = info.Frameworks
	}
	if fws := got["plugins/billing"]; len(fws) != 1 || fws[0] != "slog" {
		t.Errorf("billing frameworks = %v, want [slog]", fws)
	}
	if fws := got["plugins/media"]; len(fws) != 2 || fws[0] != "pion" || fws[1] != "charm" {
		t.Errorf("media frameworks = %v, want [pion charm]", fws)
	}
	if fws := got["plugins/legacy"]; len(fws) != 0 {
		t.Errorf("legacy shim frameworks = %v, want none", fws)
	}
}

func TestBuildLoggers(t *testing.T) {
	spec, err := Parse([]byte(sampleTopology))
	if err != nil {
		t.Fatal(err)
	}
	rt := host.NewRuntime()
	d, err := Build(rt, spec)
	if err != nil {
		t.Fatal(err)
	}
	media, _ := d.Scope("plugins/media")

	e := engine.New(rt)
	records := e.ListLoggersAcrossScopes(engine.ListOptions{Scope: media})
	byName := map[string]engine.LoggerRecord{}
	for _, r := range records {
		byName[r.Framework+"/"+r.Name] = r
	}

	if r, ok := byName["pion/ice"]; !ok || r.Level != "DEBUG" || r.Additive {
		t.Errorf("pion/ice = %+v, want explicit DEBUG", r)
	}
	if _, ok := byName["pion/dtls"]; ok {
		t.Error("pion/dtls has no appender and should be filtered")
	}
	if r, ok := byName["charm/api"]; !ok || r.Level != "WARN" {
		t.Errorf("charm/api = %+v, want WARN", r)
	}

	all := e.ListLoggersAcrossScopes(engine.ListOptions{Scope: media, IncludeNoAppender: true})
	found := false
	for _, r := range all {
		if r.Framework == "pion" && r.Name == "dtls" {
			found = true
		}
	}
	if !found {
		t.Error("pion/dtls missing with IncludeNoAppender")
	}
}

func TestBuildFailureUnloads(t *testing.T) {
	spec, err := Parse([]byte(`
[[scope]]
name = "good"

[[scope]]
name = "bad"
[scope.pion]
level = "loud"
`))
	if err != nil {
		t.Fatal(err)
	}
	rt := host.NewRuntime()
	if _, err := Build(rt, spec); err == nil {
		t.Fatal("Build should fail on an unknown level")
	}
	if n := len(rt.Scopes()); n != 1 {
		t.Errorf("%d scopes left after failed build, want only the system scope", n)
	}
}

func TestTeardown(t *testing.T) {
	spec, err := Parse([]byte(sampleTopology))
	if err != nil {
		t.Fatal(err)
	}
	rt := host.NewRuntime()
	d, err := Build(rt, spec)
	if err != nil {
		t.Fatal(err)
	}
	scopes := d.Scopes()
	d.Teardown()

	for _, s := range scopes {
		if !s.Closed() {
			t.Errorf("%s still open after teardown", s)
		}
	}
	if n := len(rt.Scopes()); n != 1 {
		t.Errorf("%d scopes left, want 1", n)
	}
}

type recordingBus struct {
	mu     sync.Mutex
	events []events.TopologyReloadedEvent
}

func (b *recordingBus) Publish(ev events.Event) {
	if e, ok := ev.(events.TopologyReloadedEvent); ok {
		b.mu.Lock()
		b.events = append(b.events, e)
		b.mu.Unlock()
	}
}

func (b *recordingBus) last() (events.TopologyReloadedEvent, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return events.TopologyReloadedEvent{}, 0
	}
	return b.events[len(b.events)-1], len(b.events)
}

func writeTopology(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestManagerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.toml")
	writeTopology(t, path, sampleTopology)

	rt := host.NewRuntime()
	bus := &recordingBus{}
	m := NewManager(rt, path, WithPublisher(bus))
	defer m.Stop()

	if err := m.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	first := m.Deployment()
	if ev, n := bus.last(); n != 1 || ev.Scopes != 3 || ev.Error != "" {
		t.Errorf("event = %+v (count %d), want 3 scopes", ev, n)
	}

	writeTopology(t, path, "[[scope]]\nname = \"solo\"\n")
	if err := m.Reload(); err != nil {
		t.Fatalf("second Reload failed: %v", err)
	}
	for _, s := range first.Scopes() {
		if !s.Closed() {
			t.Errorf("%s from the previous deployment is still open", s)
		}
	}
	if n := len(rt.Scopes()); n != 2 {
		t.Errorf("%d live scopes, want system + solo", n)
	}
}

func TestManagerKeepsDeploymentOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.toml")
	writeTopology(t, path, "[[scope]]\nname = \"solo\"\n")

	rt := host.NewRuntime()
	bus := &recordingBus{}
	m := NewManager(rt, path, WithPublisher(bus))
	defer m.Stop()

	if err := m.Reload(); err != nil {
		t.Fatal(err)
	}
	kept := m.Deployment()

	writeTopology(t, path, "[[scope]]\nname = \"system\"\n")
	if err := m.Reload(); err == nil {
		t.Fatal("Reload should fail on an invalid topology")
	}
	if m.Deployment() != kept {
		t.Error("failed reload replaced the live deployment")
	}
	if ev, _ := bus.last(); ev.Error == "" {
		t.Error("failure event carries no error")
	}
}

func TestManagerWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.toml")
	writeTopology(t, path, "[[scope]]\nname = \"one\"\n")

	rt := host.NewRuntime()
	bus := &recordingBus{}
	m := NewManager(rt, path, WithPublisher(bus))
	if err := m.Reload(); err != nil {
		t.Fatal(err)
	}
	if err := m.Watch(50 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	defer m.Stop()

	time.Sleep(100 * time.Millisecond)
	writeTopology(t, path, "[[scope]]\nname = \"one\"\n[[scope]]\nname = \"two\"\n")

	deadline := time.After(2 * time.Second)
	for {
		if ev, n := bus.last(); n >= 2 && ev.Scopes == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for topology reload")
		case <-time.After(20 * time.Millisecond):
		}
	}
	if _, ok := m.Deployment().Scope("two"); !ok {
		t.Error("watched reload did not deploy scope two")
	}
}

func TestManagerStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.toml")
	writeTopology(t, path, "[[scope]]\nname = \"one\"\n")

	rt := host.NewRuntime()
	m := NewManager(rt, path)
	if err := m.Reload(); err != nil {
		t.Fatal(err)
	}
	if err := m.Stop(); err != nil {
		t.Fatal(err)
	}
	if m.Deployment() != nil {
		t.Error("Deployment() should be nil after Stop")
	}
	if n := len(rt.Scopes()); n != 1 {
		t.Errorf("%d scopes left after Stop, want 1", n)
	}
}
