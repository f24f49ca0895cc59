package sdict

import (
	"reflect"
	"sync"

	"github.com/andreyvit/sdict/fields"
)

var typeInfoCache sync.Map

var (
	marshalerType   = reflect.TypeFor[FieldMarshaler]()
	unmarshalerType = reflect.TypeFor[FieldUnmarshaler]()
	setPtrType      = reflect.TypeFor[*fields.Set]()
)

type typeInfo struct {
	// seq types (slices and arrays other than bytes) go through the chunk
	// encoding
	seq   bool
	bytes bool

	// whether *T implements FieldMarshaler / FieldUnmarshaler
	marshaler   bool
	unmarshaler bool
}

func reflectType(typ reflect.Type) *typeInfo {
	if v, ok := typeInfoCache.Load(typ); ok {
		return v.(*typeInfo)
	}
	info := reflectTypeWithoutCache(typ)
	actual, _ := typeInfoCache.LoadOrStore(typ, info)
	return actual.(*typeInfo)
}

func reflectTypeWithoutCache(typ reflect.Type) *typeInfo {
	info := &typeInfo{}
	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		if typ.Elem().Kind() == reflect.Uint8 {
			info.bytes = true
		} else {
			info.seq = true
		}
	case reflect.Pointer, reflect.Interface:
		return info
	}
	ptr := reflect.PointerTo(typ)
	info.marshaler = ptr.Implements(marshalerType)
	info.unmarshaler = ptr.Implements(unmarshalerType)
	return info
}

// addressable returns v itself if it can be addressed, and an addressable
// copy otherwise.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c
}
