package host

import (
	"fmt"
	"hash/fnv"
	"sync"
)

// SystemScopeName is the name of the root scope every runtime starts with.
const SystemScopeName = "system"

// LoadedType is one row of the runtime's loaded-type table.
// Scope is nil for bootstrap types.
type LoadedType struct {
	Name  string
	Scope *Scope
}

// Runtime is the host process: it owns every scope and the bootstrap
// type table. Scopes are created and unloaded only through the runtime.
type Runtime struct {
	mu        sync.RWMutex
	scopes    []*Scope
	byHash    map[string]*Scope
	bootstrap []string
	system    *Scope
}

// NewRuntime creates a runtime with a single system scope.
func NewRuntime() *Runtime {
	r := &Runtime{
		byHash: make(map[string]*Scope),
	}
	r.system = r.NewScope(SystemScopeName, nil)
	return r
}

// SystemScope returns the root scope.
func (r *Runtime) SystemScope() *Scope {
	return r.system
}

// NewScope creates a live scope. A nil parent on any scope but the first
// one means the system scope.
func (r *Runtime) NewScope(name string, parent *Scope) *Scope {
	r.mu.Lock()
	defer r.mu.Unlock()

	if parent == nil && r.system != nil {
		parent = r.system
	}

	s := newScope(0, name, parent)
	s.id = r.identityLocked(s)
	r.scopes = append(r.scopes, s)
	r.byHash[s.Hash()] = s
	return s
}

// identityLocked derives the identity hash from the scope's address,
// salting on the rare collision with a live scope.
func (r *Runtime) identityLocked(s *Scope) uint32 {
	for salt := 0; ; salt++ {
		h := fnv.New32a()
		fmt.Fprintf(h, "%p/%d", s, salt)
		id := h.Sum32()
		if _, taken := r.byHash[fmt.Sprintf("%x", id)]; !taken && id != 0 {
			return id
		}
	}
}

// Unload closes a scope and drops it from the runtime. Children are
// unloaded with it. The system scope cannot be unloaded.
func (r *Runtime) Unload(s *Scope) {
	if s == nil || s == r.system {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doomed := map[*Scope]bool{s: true}
	for changed := true; changed; {
		changed = false
		for _, candidate := range r.scopes {
			if !doomed[candidate] && candidate.parent != nil && doomed[candidate.parent] {
				doomed[candidate] = true
				changed = true
			}
		}
	}

	kept := r.scopes[:0]
	for _, candidate := range r.scopes {
		if doomed[candidate] {
			candidate.close()
			delete(r.byHash, candidate.Hash())
			continue
		}
		kept = append(kept, candidate)
	}
	r.scopes = kept
}

// DefineBootstrapType records a type that belongs to no scope.
func (r *Runtime) DefineBootstrapType(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bootstrap = append(r.bootstrap, name)
}

// Scopes returns the live scopes in creation order.
func (r *Runtime) Scopes() []*Scope {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Scope, len(r.scopes))
	copy(out, r.scopes)
	return out
}

// LoadedTypes returns every bootstrap type followed by the types defined
// in each live scope.
func (r *Runtime) LoadedTypes() []LoadedType {
	r.mu.RLock()
	bootstrap := make([]string, len(r.bootstrap))
	copy(bootstrap, r.bootstrap)
	scopes := make([]*Scope, len(r.scopes))
	copy(scopes, r.scopes)
	r.mu.RUnlock()

	out := make([]LoadedType, 0, len(bootstrap))
	for _, name := range bootstrap {
		out = append(out, LoadedType{Name: name})
	}
	for _, s := range scopes {
		if s.Closed() {
			continue
		}
		for _, name := range s.TypeNames() {
			out = append(out, LoadedType{Name: name, Scope: s})
		}
	}
	return out
}

// ScopeByHash finds a live scope by its identity hash.
func (r *Runtime) ScopeByHash(hash string) (*Scope, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byHash[hash]
	return s, ok
}

// ScopesLoading returns the live scopes whose own namespace defines the type.
func (r *Runtime) ScopesLoading(typeName string) []*Scope {
	var out []*Scope
	for _, s := range r.Scopes() {
		if _, err := s.FindType(typeName); err == nil {
			out = append(out, s)
		}
	}
	return out
}
