package internal

import (
	"fmt"
	"reflect"
	"strconv"
)

// Truth reports a value's truthiness: false, nil, and empty sequences are
// false; everything else is true.
func Truth(v any) bool {
	if v == nil {
		return false
	}
	switch vv := v.(type) {
	case bool:
		return vv
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return Truth(rv.Elem().Interface())
	}
	return true
}

// Stringify renders a value to its natural string representation
func Stringify(v any) string {
	switch vv := v.(type) {
	case nil:
		return StringValueEmpty
	case string:
		return vv
	case bool:
		return strconv.FormatBool(vv)
	case int:
		return strconv.Itoa(vv)
	case int8:
		return strconv.FormatInt(int64(vv), 10)
	case int16:
		return strconv.FormatInt(int64(vv), 10)
	case int32:
		return strconv.FormatInt(int64(vv), 10)
	case int64:
		return strconv.FormatInt(vv, 10)
	case uint:
		return strconv.FormatUint(uint64(vv), 10)
	case uint8:
		return strconv.FormatUint(uint64(vv), 10)
	case uint16:
		return strconv.FormatUint(uint64(vv), 10)
	case uint32:
		return strconv.FormatUint(uint64(vv), 10)
	case uint64:
		return strconv.FormatUint(vv, 10)
	case float32:
		return strconv.FormatFloat(float64(vv), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64)
	case fmt.Stringer:
		return vv.String()
	case error:
		return vv.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Sequence extracts a value's elements when it is an ordered sequence.
// nil counts as an empty sequence; strings and maps do not count.
func Sequence(v any) ([]any, bool) {
	if v == nil {
		return nil, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, true
		}
		return Sequence(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	default:
		return nil, false
	}
}

// DefaultResolver is the reflection-based property resolver used when the
// host does not inject one. It understands string-keyed maps, exported
// struct fields, and pointers to either.
func DefaultResolver(scope any, name string) (any, bool) {
	if scope == nil {
		return nil, false
	}

	switch m := scope.(type) {
	case map[string]any:
		v, ok := m[name]
		return v, ok
	case map[string]string:
		v, ok := m[name]
		return v, ok
	}

	rv := reflect.ValueOf(scope)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(name))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		fv := rv.FieldByName(name)
		if !fv.IsValid() || !fv.CanInterface() {
			return nil, false
		}
		return fv.Interface(), true
	default:
		return nil, false
	}
}
