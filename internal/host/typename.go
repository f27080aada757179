package host

import "reflect"

// TypeName returns the canonical "<import path>.<Name>" of v's dynamic type,
// looking through pointers. Unnamed types yield their reflect string.
func TypeName(v any) string {
	if v == nil {
		return ""
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
