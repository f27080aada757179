package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smazurov/logscope/internal/host"
)

// Sentinel errors wrapped by the typed engine errors.
var (
	ErrScopeNotFound  = errors.New("can not find scope")
	ErrScopeAmbiguous = errors.New("found more than one scope")
	ErrHandleNotReady = errors.New("adapter handle is not ready")
	ErrMethodMissing  = errors.New("adapter method not found")
	ErrBadSignature   = errors.New("adapter method has unexpected signature")
	ErrBadResult      = errors.New("adapter method returned unexpected result")
	ErrAdapterPanic   = errors.New("adapter panicked")
)

// Messages reported to users after a level update.
const (
	MsgLevelUpdated      = "Update logger level success."
	MsgLevelUpdateFailed = "Update logger level fail. Try to specify the scope with the -c option. Use `logscope scopes` to find out the scope hash."
	MsgSpecifyScope      = "please specify scope with '-c <scope hash>'"
)

// AmbiguousMessage asks the user to pick one of the scopes defining typeName.
func AmbiguousMessage(typeName string) string {
	return fmt.Sprintf("Found more than one scope by type name %s, %s", typeName, MsgSpecifyScope)
}

// Target identifies a scope by identity hash or by a type name it defines.
type Target struct {
	Hash     string
	TypeName string
}

// IsZero reports whether the target names nothing.
func (t Target) IsZero() bool {
	return t.Hash == "" && t.TypeName == ""
}

// ResolutionError reports a target that matched no scope or several.
type ResolutionError struct {
	Target     Target
	Candidates []*host.Scope
	Err        error
}

func (e *ResolutionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrScopeAmbiguous):
		names := make([]string, len(e.Candidates))
		for i, s := range e.Candidates {
			names[i] = s.String()
		}
		return fmt.Sprintf("Found more than one scope by type name %s: %s", e.Target.TypeName, strings.Join(names, ", "))
	case e.Target.Hash != "":
		return fmt.Sprintf("Can not find scope by hash: %s", e.Target.Hash)
	default:
		return fmt.Sprintf("Can not find scope by type name: %s", e.Target.TypeName)
	}
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// InjectionError reports an adapter that could not be materialized into a scope.
type InjectionError struct {
	Scope     *host.Scope
	Framework Framework
	Err       error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("materialize %s adapter into %s: %v", e.Framework, e.Scope, e.Err)
}

func (e *InjectionError) Unwrap() error {
	return e.Err
}

// InvocationError reports a failed call into an adapter.
type InvocationError struct {
	Scope     *host.Scope
	Framework Framework
	Method    string
	Err       error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s on %s adapter in %s: %v", e.Method, e.Framework, e.Scope, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
