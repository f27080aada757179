// Package topology describes a host process in TOML (its scopes, the
// logging frameworks each one carries and the loggers they start with)
// and builds that description into a live host runtime.
//
// A topology file looks like:
//
//	[[scope]]
//	name = "plugins/billing"
//	types = ["billing.Invoice"]
//
//	[scope.slog]
//	level = "info"
//	loggers = [{ name = "db", level = "debug" }]
//
//	[scope.pion]
//	writer = "stderr"
//	loggers = [{ name = "ice" }, { name = "dtls", writer = "none" }]
//
// Scopes without a parent hang off the system scope. A parent must be
// declared before its children.
package topology
