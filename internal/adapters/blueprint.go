package adapters

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/smazurov/logscope/internal/host"
)

// Methods every adapter exposes to the engine.
const (
	MethodEnumerate = "Enumerate"
	MethodSetLevel  = "SetLevel"
)

// Blueprint errors.
var (
	ErrUnknownFramework = errors.New("no blueprint for framework")
	ErrStaleReference   = errors.New("blueprint refers to a stale name")
	ErrMissingMethod    = errors.New("adapter lacks method")
	ErrContextMismatch  = errors.New("scope context has unexpected type")
)

type factory func(scope *host.Scope, ctx any) (any, error)

// Blueprint is the immutable template an adapter is materialized from.
// Renaming yields a new blueprint; the registered ones never change.
type Blueprint struct {
	name        string
	framework   string
	contextType string
	symbols     []string
	prototype   any
	build       factory
}

func newBlueprint(framework, contextType string, prototype any, build factory) *Blueprint {
	name := host.TypeName(prototype)
	return &Blueprint{
		name:        name,
		framework:   framework,
		contextType: contextType,
		symbols:     []string{name + "." + MethodEnumerate, name + "." + MethodSetLevel},
		prototype:   prototype,
		build:       build,
	}
}

// Name returns the blueprint's type name.
func (b *Blueprint) Name() string {
	return b.name
}

// Framework returns the framework family the blueprint adapts.
func (b *Blueprint) Framework() string {
	return b.framework
}

// ContextType returns the type name of the scope context the adapter binds to.
func (b *Blueprint) ContextType() string {
	return b.contextType
}

// Symbols returns the qualified method references of the blueprint.
func (b *Blueprint) Symbols() []string {
	out := make([]string, len(b.symbols))
	copy(out, b.symbols)
	return out
}

// Rename returns a copy whose name and every self reference use name.
func (b *Blueprint) Rename(name string) *Blueprint {
	renamed := *b
	renamed.name = name
	renamed.symbols = make([]string, len(b.symbols))
	for i, sym := range b.symbols {
		renamed.symbols[i] = name + strings.TrimPrefix(sym, b.name)
	}
	return &renamed
}

// Validate checks the blueprint is consistent before it is instantiated.
func (b *Blueprint) Validate() error {
	if b.name == "" || b.contextType == "" || b.build == nil || b.prototype == nil {
		return fmt.Errorf("blueprint %q is incomplete", b.name)
	}
	for _, sym := range b.symbols {
		if !strings.HasPrefix(sym, b.name+".") {
			return fmt.Errorf("%w: %s in %s", ErrStaleReference, sym, b.name)
		}
	}
	typ := reflect.TypeOf(b.prototype)
	for _, method := range []string{MethodEnumerate, MethodSetLevel} {
		if _, ok := typ.MethodByName(method); !ok {
			return fmt.Errorf("%w: %s.%s", ErrMissingMethod, b.name, method)
		}
	}
	return nil
}

// Instantiate builds an adapter bound to the framework context of scope.
func (b *Blueprint) Instantiate(scope *host.Scope) (any, error) {
	ctxType, err := scope.FindType(b.contextType)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", b.name, err)
	}
	return b.build(scope, ctxType.Value())
}

var (
	registryOnce sync.Once
	registry     map[string]*Blueprint
)

// Lookup returns the registered blueprint for a framework family.
func Lookup(framework string) (*Blueprint, error) {
	registryOnce.Do(func() {
		registry = make(map[string]*Blueprint)
		for _, b := range []*Blueprint{slogBlueprint(), pionBlueprint(), charmBlueprint()} {
			registry[b.framework] = b
		}
	})
	b, ok := registry[framework]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFramework, framework)
	}
	return b, nil
}
