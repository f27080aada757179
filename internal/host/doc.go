// Package host models the process being diagnosed: a Runtime owning a set
// of isolated scopes.
//
// A Scope is a namespace of named types and resources. Lookups delegate to
// the parent scope first, definitions always land in the scope itself and
// are never retracted. Every scope carries a stable identity hash derived
// from the scope object, so callers can address it by hash:
//
//	rt := host.NewRuntime()
//	plugin := rt.NewScope("plugins/billing", nil) // child of the system scope
//	t, err := plugin.DefineType("com.example.Invoice", nil)
//
//	s, ok := rt.ScopeByHash(plugin.Hash())
//	scopes := rt.ScopesLoading("com.example.Invoice")
//
// Unloading a scope (Runtime.Unload) closes it together with its children;
// every later lookup against it fails with ErrScopeClosed.
package host
