// Package fields implements field sets: flat, ordered collections of named
// scalar fields. This is the only shape the sdict formatter knows how to
// persist, so everything else (maps, opaque value types, sequences) has to be
// expressed in terms of it.
//
// A field value is one of:
//
//   - nil
//   - bool
//   - int64, uint64 (narrower integers are widened by Put)
//   - float32, float64
//   - string, []byte
//   - *Set, a nested object
//   - []any, a whole sequence as written by older encoders
//
// Sequences of arbitrary length are flattened into individually named fields
// by PutSeq and read back by GetSeq, see seq.go.
package fields

import (
	"fmt"
	"iter"
)

type Field struct {
	Name  string
	Value any
}

// Set is an ordered collection of uniquely named fields. The zero value is an
// empty set ready to use. A nil *Set reads as empty.
type Set struct {
	fields []Field
	index  map[string]int
}

func New() *Set {
	return &Set{}
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Put stores the value under the given name. Putting an existing name
// replaces its value in place, keeping the original position.
//
// Put panics if the value cannot be stored in a field set.
func (s *Set) Put(name string, value any) {
	v, ok := storable(value)
	if !ok {
		panic(fmt.Errorf("fields: cannot store %T in field %q", value, name))
	}
	s.put(name, v)
}

func (s *Set) put(name string, v any) {
	if i, found := s.index[name]; found {
		s.fields[i].Value = v
		return
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[name] = len(s.fields)
	s.fields = append(s.fields, Field{name, v})
}

func (s *Set) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	i, found := s.index[name]
	if !found {
		return nil, false
	}
	return s.fields[i].Value, true
}

func (s *Set) Has(name string) bool {
	_, found := s.Get(name)
	return found
}

func (s *Set) Names() []string {
	names := make([]string, 0, s.Len())
	for name := range s.All() {
		names = append(names, name)
	}
	return names
}

// All iterates over the fields in the order they were first put.
func (s *Set) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if s == nil {
			return
		}
		for _, f := range s.fields {
			if !yield(f.Name, f.Value) {
				return
			}
		}
	}
}

func (s *Set) Int(name string) (int64, bool)       { return get[int64](s, name) }
func (s *Set) Uint(name string) (uint64, bool)     { return get[uint64](s, name) }
func (s *Set) Float32(name string) (float32, bool) { return get[float32](s, name) }
func (s *Set) Float64(name string) (float64, bool) { return get[float64](s, name) }
func (s *Set) Bool(name string) (bool, bool)       { return get[bool](s, name) }
func (s *Set) String(name string) (string, bool)   { return get[string](s, name) }
func (s *Set) Bytes(name string) ([]byte, bool)    { return get[[]byte](s, name) }

// Object returns the nested set stored under the given name.
func (s *Set) Object(name string) (*Set, bool) {
	v, found := s.Get(name)
	if !found {
		return nil, false
	}
	sub, ok := v.(*Set)
	return sub, ok && sub != nil
}

func get[T any](s *Set, name string) (T, bool) {
	v, found := s.Get(name)
	if !found {
		var zero T
		return zero, false
	}
	return Convert[T](v)
}

func storable(value any) (any, bool) {
	switch v := value.(type) {
	case nil, bool, int64, uint64, float32, float64, string, []byte:
		return v, true
	case *Set:
		if v == nil {
			return nil, true
		}
		return v, true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uintptr:
		return uint64(v), true
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			sv, ok := storable(item)
			if !ok {
				return nil, false
			}
			items[i] = sv
		}
		return items, true
	default:
		return nil, false
	}
}
