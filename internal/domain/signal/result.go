package signal

import "reflect"

// IsEmptyResult reports whether a listener result carries nothing: untyped
// nil, a nil pointer, map, slice, func, chan or interface, or an empty string.
// Empty results are never handed to a ResultFunc.
func IsEmptyResult(result any) bool {
	if result == nil {
		return true
	}
	v := reflect.ValueOf(result)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	case reflect.String:
		return v.Len() == 0
	default:
		return false
	}
}
