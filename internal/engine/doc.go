// Package engine finds logging frameworks inside the scopes of a host
// runtime and changes their levels.
//
// A scan walks the runtime's loaded-type table looking for framework
// marker types, confirms each hit by probing for the framework's
// implementation resource, and groups the confirmed frameworks by the
// scope that defines them. For each (scope, framework) pair the engine
// materializes an adapter from the framework's blueprint, defining it into
// the scope under a name unique to the engine and the scope, so the
// scope's own namespace caches it. Adapters are called by method name.
//
// Heuristic failures never escape the engine: a failed probe means the
// framework is absent, a failed materialization skips that pair, and a
// failed call yields an empty listing or false.
//
//	eng := engine.New(rt, engine.WithEventBus(bus))
//	scope, err := eng.ResolveTargetScope(engine.Target{Hash: "1b6d3586"})
//	ok := eng.SetLevelAcrossFrameworks(scope, "ROOT", "DEBUG")
//	records := eng.ListLoggersAcrossScopes(engine.ListOptions{})
package engine
