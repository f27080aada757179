package host

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Verifier inspects a type definition before a scope accepts it.
// Returning an error rejects the definition.
type Verifier func(name string, value any) error

// Type is a named definition living in exactly one scope's namespace.
type Type struct {
	name  string
	scope *Scope
	value any
}

// Name returns the fully qualified type name.
func (t *Type) Name() string {
	return t.name
}

// Scope returns the scope that defined the type.
func (t *Type) Scope() *Scope {
	return t.scope
}

// Value returns the definition payload.
func (t *Type) Value() any {
	return t.value
}

// Scope is an isolated namespace of types and resources. Lookups delegate
// to the parent first, definitions always land in the scope itself.
type Scope struct {
	id     uint32
	name   string
	parent *Scope

	mu        sync.RWMutex
	types     map[string]*Type
	order     []string
	resources map[string]any
	verifier  Verifier
	sealed    bool
	closed    atomic.Bool
}

func newScope(id uint32, name string, parent *Scope) *Scope {
	return &Scope{
		id:        id,
		name:      name,
		parent:    parent,
		types:     make(map[string]*Type),
		resources: make(map[string]any),
	}
}

// Hash returns the scope identity hash in lower-case hex.
func (s *Scope) Hash() string {
	return fmt.Sprintf("%x", s.id)
}

// Name returns the scope name given by the host.
func (s *Scope) Name() string {
	return s.name
}

// String returns the display name, e.g. "plugins/billing@1b6d3586".
func (s *Scope) String() string {
	return s.name + "@" + s.Hash()
}

// Parent returns the parent scope, nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Closed reports whether the host has unloaded the scope.
func (s *Scope) Closed() bool {
	return s.closed.Load()
}

// SetVerifier installs a hook consulted by DefineType.
func (s *Scope) SetVerifier(v Verifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifier = v
}

// Seal makes the scope refuse every further definition.
func (s *Scope) Seal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true
}

// FindType resolves a type in this scope's own namespace only.
func (s *Scope) FindType(name string) (*Type, error) {
	if s.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrScopeClosed, s)
	}
	s.mu.RLock()
	t, ok := s.types[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrTypeNotFound, name, s)
	}
	return t, nil
}

// LoadType resolves a type, asking the parent chain before the scope itself.
func (s *Scope) LoadType(name string) (*Type, error) {
	if s.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrScopeClosed, s)
	}
	if s.parent != nil {
		if t, err := s.parent.LoadType(name); err == nil {
			return t, nil
		}
	}
	return s.FindType(name)
}

// DefineType atomically adds a type to the scope's namespace.
// Types are never removed; a second definition of the same name fails.
func (s *Scope) DefineType(name string, value any) (*Type, error) {
	if name == "" {
		return nil, ErrInvalidTypeName
	}
	if s.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrScopeClosed, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return nil, fmt.Errorf("%w: %s", ErrScopeSealed, s)
	}
	if _, exists := s.types[name]; exists {
		return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateType, name, s)
	}
	if s.verifier != nil {
		if err := s.verifier(name, value); err != nil {
			return nil, fmt.Errorf("verification of %s rejected: %w", name, err)
		}
	}

	t := &Type{name: name, scope: s, value: value}
	s.types[name] = t
	s.order = append(s.order, name)
	return t, nil
}

// TypeNames returns the names defined by this scope in definition order.
func (s *Scope) TypeNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// AddResource publishes a named resource in the scope.
func (s *Scope) AddResource(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[name] = value
}

// Resource looks a resource up, parent-first.
func (s *Scope) Resource(name string) (any, error) {
	if s.Closed() {
		return nil, fmt.Errorf("%w: %s", ErrScopeClosed, s)
	}
	if s.parent != nil {
		if v, err := s.parent.Resource(name); err == nil {
			return v, nil
		}
	}
	s.mu.RLock()
	v, ok := s.resources[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrResourceNotFound, name, s)
	}
	return v, nil
}

// ResourceNames returns the scope's own resource names, sorted.
func (s *Scope) ResourceNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scope) close() {
	s.closed.Store(true)
}
