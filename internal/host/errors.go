package host

import "errors"

// Lookup and definition failures reported by scopes.
var (
	ErrScopeClosed      = errors.New("scope is unloaded")
	ErrScopeSealed      = errors.New("scope refuses new types")
	ErrTypeNotFound     = errors.New("type not found")
	ErrDuplicateType    = errors.New("type already defined")
	ErrInvalidTypeName  = errors.New("invalid type name")
	ErrResourceNotFound = errors.New("resource not found")
)
