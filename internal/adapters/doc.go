// Package adapters holds the blueprints of the per-framework adapters the
// engine materializes into scopes.
//
// A blueprint is registered once per framework family and never changes.
// The engine renames a copy for each scope, validates it, and instantiates
// an adapter bound to the framework context that backends installed there.
// Every adapter answers the same two calls:
//
//	Enumerate(name string, includeNoAppender bool) map[string]LoggerInfo
//	SetLevel(name, level string) bool
package adapters
