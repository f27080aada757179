package backends

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/smazurov/logscope/internal/host"
	"github.com/smazurov/logscope/internal/logging"
)

// RootLogger names the framework-wide level in every family.
const RootLogger = logging.RootModule

func errNilContext(family string) error {
	return fmt.Errorf("install %s: nil context", family)
}

// framework describes what an install puts into a scope.
type framework struct {
	name     string
	marker   string
	resource string
	context  string
	types    []string
}

func (f framework) install(scope *host.Scope, ctx any) error {
	if scope == nil {
		return fmt.Errorf("install %s: nil scope", f.name)
	}
	if err := defineOwn(scope, f.marker); err != nil {
		return fmt.Errorf("install %s: %w", f.name, err)
	}
	for _, name := range f.types {
		if err := ensureType(scope, name); err != nil {
			return fmt.Errorf("install %s: %w", f.name, err)
		}
	}
	if _, err := scope.DefineType(f.context, ctx); err != nil {
		return fmt.Errorf("install %s: %w", f.name, err)
	}
	scope.AddResource(f.resource, f.name)
	return nil
}

// InstallShim defines a marker type without the framework behind it.
func InstallShim(scope *host.Scope, marker string) error {
	if scope == nil {
		return fmt.Errorf("install shim %s: nil scope", marker)
	}
	if err := defineOwn(scope, marker); err != nil {
		return fmt.Errorf("install shim %s: %w", marker, err)
	}
	return nil
}

// defineOwn defines name in the scope's own namespace unless already there.
func defineOwn(scope *host.Scope, name string) error {
	if _, err := scope.FindType(name); err == nil {
		return nil
	}
	if _, err := scope.DefineType(name, nil); err != nil && !errors.Is(err, host.ErrDuplicateType) {
		return err
	}
	return nil
}

// ensureType defines name in scope unless the scope can already resolve it.
func ensureType(scope *host.Scope, name string) error {
	if scope == nil || name == "" {
		return nil
	}
	if _, err := scope.LoadType(name); err == nil {
		return nil
	}
	if _, err := scope.DefineType(name, nil); err != nil && !errors.Is(err, host.ErrDuplicateType) {
		return err
	}
	return nil
}

// DescribeWriter names the destination behind a writer.
func DescribeWriter(w io.Writer) string {
	switch w {
	case nil:
		return ""
	case io.Discard:
		return "discard"
	case os.Stdout:
		return "stdout"
	case os.Stderr:
		return "stderr"
	}
	if f, ok := w.(*os.File); ok {
		return f.Name()
	}
	return host.TypeName(w)
}
