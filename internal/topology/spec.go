package topology

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/smazurov/logscope/internal/host"
)

// Writer names accepted by framework and logger declarations.
const (
	WriterStdout  = "stdout"
	WriterStderr  = "stderr"
	WriterDiscard = "discard"
	WriterNone    = "none"
)

var (
	// ErrInvalidTopology wraps every validation failure.
	ErrInvalidTopology = errors.New("invalid topology")
)

// Spec is a whole topology file.
type Spec struct {
	Version int         `toml:"version"`
	Scopes  []ScopeSpec `toml:"scope"`
}

// ScopeSpec declares one scope.
type ScopeSpec struct {
	Name   string   `toml:"name"`
	Parent string   `toml:"parent"`
	Sealed bool     `toml:"sealed"`
	Shims  []string `toml:"shims"`
	Types  []string `toml:"types"`

	Slog  *FrameworkSpec `toml:"slog"`
	Pion  *FrameworkSpec `toml:"pion"`
	Charm *FrameworkSpec `toml:"charm"`
}

// FrameworkSpec declares a framework installed into a scope.
type FrameworkSpec struct {
	Level     string       `toml:"level"`
	Writer    string       `toml:"writer"`
	Format    string       `toml:"format"`
	Formatter string       `toml:"formatter"`
	Loggers   []LoggerSpec `toml:"loggers"`
}

// LoggerSpec declares a logger created at build time. An empty level
// follows the framework level.
type LoggerSpec struct {
	Name      string `toml:"name"`
	Level     string `toml:"level"`
	Writer    string `toml:"writer"`
	Formatter string `toml:"formatter"`
}

// Load reads and validates a topology file.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read topology: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates topology TOML.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	if err := toml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse topology: %w", err)
	}
	if spec.Version == 0 {
		spec.Version = 1
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks names, parent order and writer names.
func (s *Spec) Validate() error {
	if s.Version != 1 {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidTopology, s.Version)
	}

	seen := make(map[string]bool, len(s.Scopes))
	for i, scope := range s.Scopes {
		name := strings.TrimSpace(scope.Name)
		if name == "" {
			return fmt.Errorf("%w: scope #%d has no name", ErrInvalidTopology, i+1)
		}
		if name == host.SystemScopeName {
			return fmt.Errorf("%w: scope name %q is reserved", ErrInvalidTopology, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate scope %q", ErrInvalidTopology, name)
		}
		if p := scope.Parent; p != "" && p != host.SystemScopeName && !seen[p] {
			return fmt.Errorf("%w: scope %q names parent %q before it is declared", ErrInvalidTopology, name, p)
		}
		seen[name] = true

		for _, shim := range scope.Shims {
			if _, ok := frameworkMarker(shim); !ok {
				return fmt.Errorf("%w: scope %q: unknown shim framework %q", ErrInvalidTopology, name, shim)
			}
		}
		for family, fw := range scope.frameworks() {
			if err := fw.validate(); err != nil {
				return fmt.Errorf("%w: scope %q %s: %v", ErrInvalidTopology, name, family, err)
			}
		}
	}
	return nil
}

// frameworks returns the declared frameworks keyed by family.
func (s ScopeSpec) frameworks() map[string]*FrameworkSpec {
	out := make(map[string]*FrameworkSpec, 3)
	if s.Slog != nil {
		out["slog"] = s.Slog
	}
	if s.Pion != nil {
		out["pion"] = s.Pion
	}
	if s.Charm != nil {
		out["charm"] = s.Charm
	}
	return out
}

func (f *FrameworkSpec) validate() error {
	if !validWriter(f.Writer) {
		return fmt.Errorf("unknown writer %q", f.Writer)
	}
	names := make(map[string]bool, len(f.Loggers))
	for _, l := range f.Loggers {
		if l.Name == "" {
			return errors.New("logger without a name")
		}
		if names[l.Name] {
			return fmt.Errorf("duplicate logger %q", l.Name)
		}
		names[l.Name] = true
		if !validWriter(l.Writer) {
			return fmt.Errorf("logger %q: unknown writer %q", l.Name, l.Writer)
		}
	}
	return nil
}

func validWriter(name string) bool {
	switch name {
	case "", WriterStdout, WriterStderr, WriterDiscard, WriterNone:
		return true
	default:
		return false
	}
}
