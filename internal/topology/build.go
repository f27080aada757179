package topology

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/smazurov/logscope/internal/backends"
	"github.com/smazurov/logscope/internal/engine"
	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/logging"
)

// Deployment is a topology built into a runtime.
type Deployment struct {
	rt     *host.Runtime
	spec   *Spec
	scopes []*host.Scope
	byName map[string]*host.Scope

	slog  map[string]*logging.Registry
	pion  map[string]*backends.PionContext
	charm map[string]*backends.CharmContext
}

// Build creates every scope of spec in rt. On failure the scopes created so
// far are unloaded again.
func Build(rt *host.Runtime, spec *Spec) (*Deployment, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrInvalidTopology)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	d := &Deployment{
		rt:     rt,
		spec:   spec,
		byName: make(map[string]*host.Scope, len(spec.Scopes)),
		slog:   make(map[string]*logging.Registry),
		pion:   make(map[string]*backends.PionContext),
		charm:  make(map[string]*backends.CharmContext),
	}
	for _, s := range spec.Scopes {
		if err := d.buildScope(s); err != nil {
			d.Teardown()
			return nil, fmt.Errorf("scope %q: %w", s.Name, err)
		}
	}
	return d, nil
}

func (d *Deployment) buildScope(s ScopeSpec) error {
	var parent *host.Scope
	if s.Parent != "" && s.Parent != host.SystemScopeName {
		parent = d.byName[s.Parent]
	}
	scope := d.rt.NewScope(s.Name, parent)
	d.scopes = append(d.scopes, scope)
	d.byName[s.Name] = scope

	for _, name := range s.Types {
		if _, err := scope.DefineType(name, nil); err != nil {
			return err
		}
	}
	for _, shim := range s.Shims {
		marker, _ := frameworkMarker(shim)
		if err := backends.InstallShim(scope, marker); err != nil {
			return err
		}
	}
	if s.Slog != nil {
		if err := d.installSlog(scope, s.Slog); err != nil {
			return err
		}
	}
	if s.Pion != nil {
		if err := d.installPion(scope, s.Pion); err != nil {
			return err
		}
	}
	if s.Charm != nil {
		if err := d.installCharm(scope, s.Charm); err != nil {
			return err
		}
	}
	if s.Sealed {
		scope.Seal()
	}
	return nil
}

func (d *Deployment) installSlog(scope *host.Scope, fw *FrameworkSpec) error {
	cfg := logging.Config{
		Level:   orDefault(fw.Level, "info"),
		Format:  orDefault(fw.Format, "text"),
		Modules: make(map[string]string, len(fw.Loggers)),
	}
	if _, ok := logging.ParseLevel(cfg.Level); !ok {
		return fmt.Errorf("slog: unknown level %q", cfg.Level)
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return fmt.Errorf("slog: unknown format %q", cfg.Format)
	}
	for _, l := range fw.Loggers {
		if l.Level == "" {
			continue
		}
		if _, ok := logging.ParseLevel(l.Level); !ok {
			return fmt.Errorf("slog: logger %q: unknown level %q", l.Name, l.Level)
		}
		cfg.Modules[l.Name] = l.Level
	}

	// A registry always has a handler; "none" means it writes nowhere.
	w := resolveWriter(fw.Writer, os.Stdout)
	if w == nil {
		w = io.Discard
	}
	reg := logging.NewRegistry(w)
	reg.Initialize(cfg)
	for _, l := range fw.Loggers {
		reg.GetLogger(l.Name)
	}

	if err := backends.InstallSlog(scope, reg); err != nil {
		return err
	}
	d.slog[scope.Hash()] = reg
	return nil
}

func (d *Deployment) installPion(scope *host.Scope, fw *FrameworkSpec) error {
	level, ok := backends.ParsePionLevel(orDefault(fw.Level, "info"))
	if !ok {
		return fmt.Errorf("pion: unknown level %q", fw.Level)
	}
	ctx := backends.NewPionContext(resolveWriter(fw.Writer, os.Stdout), level)
	if err := backends.InstallPion(scope, ctx); err != nil {
		return err
	}
	for _, l := range fw.Loggers {
		ctx.NewLoggerTo(l.Name, resolveWriter(l.Writer, ctx.Writer()))
		if l.Level != "" && !ctx.SetLevel(l.Name, l.Level) {
			return fmt.Errorf("pion: logger %q: unknown level %q", l.Name, l.Level)
		}
	}
	d.pion[scope.Hash()] = ctx
	return nil
}

func (d *Deployment) installCharm(scope *host.Scope, fw *FrameworkSpec) error {
	level, err := log.ParseLevel(orDefault(fw.Level, "info"))
	if err != nil {
		return fmt.Errorf("charm: %w", err)
	}
	formatter, err := parseFormatter(fw.Formatter, log.TextFormatter)
	if err != nil {
		return err
	}
	ctx := backends.NewCharmContext(resolveWriter(fw.Writer, os.Stdout), log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
	})
	if err := backends.InstallCharm(scope, ctx); err != nil {
		return err
	}
	for _, l := range fw.Loggers {
		f, err := parseFormatter(l.Formatter, ctx.Formatter())
		if err != nil {
			return err
		}
		ctx.LoggerTo(l.Name, resolveWriter(l.Writer, ctx.Writer()), f)
		if l.Level != "" && !ctx.SetLevel(l.Name, l.Level) {
			return fmt.Errorf("charm: logger %q: unknown level %q", l.Name, l.Level)
		}
	}
	d.charm[scope.Hash()] = ctx
	return nil
}

// Spec returns the topology the deployment was built from.
func (d *Deployment) Spec() *Spec {
	return d.spec
}

// Scopes returns the deployed scopes in declaration order.
func (d *Deployment) Scopes() []*host.Scope {
	out := make([]*host.Scope, len(d.scopes))
	copy(out, d.scopes)
	return out
}

// Scope returns the deployed scope with the given name.
func (d *Deployment) Scope(name string) (*host.Scope, bool) {
	s, ok := d.byName[name]
	return s, ok
}

// SlogRegistry returns the slog registry installed in scope, if any.
func (d *Deployment) SlogRegistry(scope *host.Scope) (*logging.Registry, bool) {
	reg, ok := d.slog[scope.Hash()]
	return reg, ok
}

// PionContext returns the pion context installed in scope, if any.
func (d *Deployment) PionContext(scope *host.Scope) (*backends.PionContext, bool) {
	ctx, ok := d.pion[scope.Hash()]
	return ctx, ok
}

// CharmContext returns the charm context installed in scope, if any.
func (d *Deployment) CharmContext(scope *host.Scope) (*backends.CharmContext, bool) {
	ctx, ok := d.charm[scope.Hash()]
	return ctx, ok
}

// Teardown unloads every deployed scope, children first.
func (d *Deployment) Teardown() {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		d.rt.Unload(d.scopes[i])
	}
}

func frameworkMarker(name string) (string, bool) {
	fw, ok := engine.ParseFramework(name)
	if !ok {
		return "", false
	}
	return fw.Marker(), true
}

// resolveWriter maps a writer name to a destination. "none" yields nil.
func resolveWriter(name string, def io.Writer) io.Writer {
	switch name {
	case WriterStdout:
		return os.Stdout
	case WriterStderr:
		return os.Stderr
	case WriterDiscard:
		return io.Discard
	case WriterNone:
		return nil
	default:
		return def
	}
}

func parseFormatter(name string, def log.Formatter) (log.Formatter, error) {
	switch strings.ToLower(name) {
	case "":
		return def, nil
	case "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return def, fmt.Errorf("charm: unknown formatter %q", name)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
