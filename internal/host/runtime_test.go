package host

import (
	"errors"
	"testing"
)

func TestRuntimeSystemScope(t *testing.T) {
	rt := NewRuntime()
	sys := rt.SystemScope()

	if sys.Name() != SystemScopeName {
		t.Errorf("system scope name = %q, want %q", sys.Name(), SystemScopeName)
	}
	if sys.Parent() != nil {
		t.Error("system scope should have no parent")
	}

	child := rt.NewScope("child", nil)
	if child.Parent() != sys {
		t.Error("nil parent should default to the system scope")
	}
}

func TestRuntimeScopeByHash(t *testing.T) {
	rt := NewRuntime()
	a := rt.NewScope("a", nil)
	b := rt.NewScope("b", nil)

	if a.Hash() == b.Hash() {
		t.Fatalf("distinct scopes share hash %s", a.Hash())
	}

	got, ok := rt.ScopeByHash(b.Hash())
	if !ok || got != b {
		t.Errorf("ScopeByHash(%s) = %v, %v; want %v", b.Hash(), got, ok, b)
	}
	if _, ok := rt.ScopeByHash("deadbeef0"); ok {
		t.Error("ScopeByHash should miss an unknown hash")
	}
}

func TestRuntimeLoadedTypes(t *testing.T) {
	rt := NewRuntime()
	rt.DefineBootstrapType("builtin.Object")
	a := rt.NewScope("a", nil)
	_, _ = a.DefineType("a.One", nil)
	_, _ = a.DefineType("a.Two", nil)

	loaded := rt.LoadedTypes()
	if len(loaded) != 3 {
		t.Fatalf("LoadedTypes() returned %d rows, want 3", len(loaded))
	}
	if loaded[0].Name != "builtin.Object" || loaded[0].Scope != nil {
		t.Errorf("first row = %+v, want bootstrap builtin.Object", loaded[0])
	}
	if loaded[1].Scope != a || loaded[2].Scope != a {
		t.Error("scope rows should point at their defining scope")
	}
}

func TestRuntimeScopesLoading(t *testing.T) {
	rt := NewRuntime()
	a := rt.NewScope("a", nil)
	b := rt.NewScope("b", nil)
	_, _ = a.DefineType("com.example.Foo", nil)
	_, _ = b.DefineType("com.example.Foo", nil)

	got := rt.ScopesLoading("com.example.Foo")
	if len(got) != 2 {
		t.Fatalf("ScopesLoading() = %d scopes, want 2", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Error("ScopesLoading() should keep creation order")
	}
	if none := rt.ScopesLoading("com.example.Bar"); len(none) != 0 {
		t.Errorf("ScopesLoading(Bar) = %d scopes, want 0", len(none))
	}
}

func TestRuntimeUnload(t *testing.T) {
	rt := NewRuntime()
	parent := rt.NewScope("parent", nil)
	child := rt.NewScope("child", parent)
	other := rt.NewScope("other", nil)
	_, _ = child.DefineType("child.Type", nil)

	rt.Unload(parent)

	if !parent.Closed() || !child.Closed() {
		t.Error("unloading a scope should close its children")
	}
	if other.Closed() {
		t.Error("unrelated scope should stay live")
	}
	if _, ok := rt.ScopeByHash(child.Hash()); ok {
		t.Error("unloaded scope should not resolve by hash")
	}
	if _, err := child.LoadType("child.Type"); !errors.Is(err, ErrScopeClosed) {
		t.Errorf("LoadType on unloaded scope error = %v, want ErrScopeClosed", err)
	}
	if _, err := child.DefineType("late", nil); !errors.Is(err, ErrScopeClosed) {
		t.Errorf("DefineType on unloaded scope error = %v, want ErrScopeClosed", err)
	}

	rt.Unload(rt.SystemScope())
	if rt.SystemScope().Closed() {
		t.Error("system scope must not be unloadable")
	}
}
