// Package backends installs logging frameworks into host scopes.
//
// Installing a framework defines its public types in the scope's namespace
// (the marker type the engine scans for, the logger and handler types),
// publishes the implementation resource that tells the real library apart
// from a facade re-using its names, and registers the live logger context
// under its own type name so code running inside the scope can reach it:
//
//	reg := logging.NewRegistry(os.Stdout)
//	err := backends.InstallSlog(scope, reg)
//
//	pion := backends.NewPionContext(os.Stderr, plog.LogLevelWarn)
//	err = backends.InstallPion(scope, pion)
//
//	charm := backends.NewCharmContext(os.Stderr, log.Options{Level: log.InfoLevel})
//	err = backends.InstallCharm(scope, charm)
//
// InstallShim defines only a marker name, the way bridging libraries do.
package backends
