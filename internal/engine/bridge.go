package engine

import (
	"fmt"
	"reflect"

	"github.com/smazurov/logscope/internal/adapters"
	"github.com/smazurov/logscope/internal/metrics"
)

var (
	loggerInfoMapType = reflect.TypeOf(map[string]adapters.LoggerInfo(nil))
	boolType          = reflect.TypeOf(false)
)

// listLoggers calls Enumerate on the adapter. Failures are logged and
// yield an empty result.
func (e *Engine) listLoggers(h *AdapterHandle, name string, includeNoAppender bool) map[string]adapters.LoggerInfo {
	out, err := e.invoke(h, adapters.MethodEnumerate, loggerInfoMapType, name, includeNoAppender)
	if err != nil {
		e.logger.Warn("Listing loggers failed", "error", err)
		return map[string]adapters.LoggerInfo{}
	}

	infos, _ := out.Interface().(map[string]adapters.LoggerInfo)
	result := make(map[string]adapters.LoggerInfo, len(infos))
	for key, info := range infos {
		if !includeNoAppender && len(info.Appenders) == 0 {
			continue
		}
		result[key] = info
	}
	return result
}

// setLevel calls SetLevel on the adapter. Failures are logged and yield false.
func (e *Engine) setLevel(h *AdapterHandle, name, level string) bool {
	out, err := e.invoke(h, adapters.MethodSetLevel, boolType, name, level)
	if err != nil {
		e.logger.Warn("Setting level failed", "error", err)
		return false
	}
	return out.Bool()
}

// invoke calls a method of the handle's adapter by name, checking that it
// takes args and returns exactly one value of type want.
func (e *Engine) invoke(h *AdapterHandle, method string, want reflect.Type, args ...any) (result reflect.Value, err error) {
	fail := func(cause error) error {
		return &InvocationError{Scope: h.Scope(), Framework: h.Framework(), Method: method, Err: cause}
	}
	defer func() {
		if r := recover(); r != nil {
			err = fail(fmt.Errorf("%w: %v", ErrAdapterPanic, r))
		}
		metrics.RecordInvocation(method, err == nil)
	}()

	if h.State() != StateReady || h.Adapter() == nil {
		return reflect.Value{}, fail(ErrHandleNotReady)
	}

	fn := reflect.ValueOf(h.Adapter()).MethodByName(method)
	if !fn.IsValid() {
		return reflect.Value{}, fail(ErrMethodMissing)
	}

	fnType := fn.Type()
	if fnType.NumIn() != len(args) || fnType.NumOut() != 1 || fnType.Out(0) != want {
		return reflect.Value{}, fail(fmt.Errorf("%w: %s", ErrBadSignature, fnType))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(fnType.In(i)) {
			return reflect.Value{}, fail(fmt.Errorf("%w: %s", ErrBadSignature, fnType))
		}
		in[i] = v
	}

	out := fn.Call(in)
	if len(out) != 1 || out[0].Type() != want {
		return reflect.Value{}, fail(ErrBadResult)
	}
	return out[0], nil
}
