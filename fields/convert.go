package fields

import (
	"math"
	"reflect"
)

// Convert returns v as a T. Values assignable to T pass through, numbers
// convert between numeric types when the value fits, and strings convert to
// and from byte slices. Nil converts to the zero value of nillable types.
func Convert[T any](v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	var zero T
	typ := reflect.TypeFor[T]()
	if v == nil {
		return zero, nillable(typ)
	}
	rv, ok := ConvertTo(v, typ)
	if !ok {
		return zero, false
	}
	return rv.Interface().(T), true
}

// ConvertTo is the reflection form of Convert.
func ConvertTo(v any, typ reflect.Type) (reflect.Value, bool) {
	if v == nil {
		if nillable(typ) {
			return reflect.Zero(typ), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(typ) {
		return rv, true
	}
	target := reflect.Zero(typ)

	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch {
		case isInt(rv.Kind()):
			n = rv.Int()
		case isUint(rv.Kind()):
			u := rv.Uint()
			if u > math.MaxInt64 {
				return reflect.Value{}, false
			}
			n = int64(u)
		case isFloat(rv.Kind()):
			f := rv.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return reflect.Value{}, false
			}
			n = int64(f)
		default:
			return reflect.Value{}, false
		}
		if target.OverflowInt(n) {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(n).Convert(typ), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var u uint64
		switch {
		case isUint(rv.Kind()):
			u = rv.Uint()
		case isInt(rv.Kind()):
			n := rv.Int()
			if n < 0 {
				return reflect.Value{}, false
			}
			u = uint64(n)
		case isFloat(rv.Kind()):
			f := rv.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return reflect.Value{}, false
			}
			u = uint64(f)
		default:
			return reflect.Value{}, false
		}
		if target.OverflowUint(u) {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(u).Convert(typ), true

	case reflect.Float32, reflect.Float64:
		var f float64
		switch {
		case isFloat(rv.Kind()):
			f = rv.Float()
		case isInt(rv.Kind()):
			f = float64(rv.Int())
		case isUint(rv.Kind()):
			f = float64(rv.Uint())
		default:
			return reflect.Value{}, false
		}
		if target.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(f).Convert(typ), true

	case reflect.Bool:
		if rv.Kind() == reflect.Bool {
			return rv.Convert(typ), true
		}

	case reflect.String:
		switch {
		case rv.Kind() == reflect.String:
			return rv.Convert(typ), true
		case isByteSlice(rv.Type()):
			return reflect.ValueOf(string(rv.Bytes())).Convert(typ), true
		}

	case reflect.Slice:
		if isByteSlice(typ) {
			switch {
			case rv.Kind() == reflect.String:
				return reflect.ValueOf([]byte(rv.String())).Convert(typ), true
			case isByteSlice(rv.Type()):
				return rv.Convert(typ), true
			}
		}
	}
	return reflect.Value{}, false
}

func nillable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isByteSlice(typ reflect.Type) bool {
	return typ.Kind() == reflect.Slice && typ.Elem().Kind() == reflect.Uint8
}
