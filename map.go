package sdict

import (
	"iter"
)

// backingField is the only field a Map or BoxedMap persists.
const backingField = "_keys"

// Map is a dictionary that survives a round trip through Formatter.
//
// Lookups go through a regular Go map. The Go map is never persisted;
// instead, Map keeps a backing sequence of entries, brings it up to date in
// BeforeSerialize and rebuilds the lookup map from it in AfterDeserialize.
//
// The backing sequence only grows between serializations. BeforeSerialize
// appends the whole index when it holds more entries than the backing
// sequence, and does nothing otherwise, so a Map that had the same number of
// keys added and removed since the last checkpoint persists its old contents.
// Replacing a value with Set has the same effect.
//
// The zero value is ready to use. A Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	index   map[K]*Entry[K, V]
	backing []*Entry[K, V]
}

var (
	_ Checkpointer     = (*Map[string, int])(nil)
	_ FieldMarshaler   = (*Map[string, int])(nil)
	_ FieldUnmarshaler = (*Map[string, int])(nil)
)

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{index: make(map[K]*Entry[K, V])}
}

// FromMap builds a Map holding a copy of src.
func FromMap[K comparable, V any](src map[K]V) *Map[K, V] {
	m := &Map[K, V]{index: make(map[K]*Entry[K, V], len(src))}
	for k, v := range src {
		m.index[k] = NewEntry(k, v)
	}
	return m
}

func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.index)
}

// Add inserts a new key. Adding a key that is already present fails with
// ErrDuplicateKey and leaves the map unchanged.
func (m *Map[K, V]) Add(key K, value V) error {
	return m.AddEntry(NewEntry(key, value))
}

func (m *Map[K, V]) AddEntry(e *Entry[K, V]) error {
	if _, found := m.index[e.key]; found {
		return keyErr(e.key, ErrDuplicateKey)
	}
	m.init()
	m.index[e.key] = e
	return nil
}

// Set inserts or replaces the value under key.
func (m *Map[K, V]) Set(key K, value V) {
	m.init()
	m.index[key] = NewEntry(key, value)
}

// Delete removes key, reporting whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	if _, found := m.index[key]; !found {
		return false
	}
	delete(m.index, key)
	return true
}

func (m *Map[K, V]) Has(key K) bool {
	if m == nil {
		return false
	}
	_, found := m.index[key]
	return found
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	if e := m.Entry(key); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

func (m *Map[K, V]) Entry(key K) *Entry[K, V] {
	if m == nil {
		return nil
	}
	return m.index[key]
}

// Value returns the value under key, failing with ErrNotFound if the key is
// absent and with ErrNullValue if it holds a nil value.
func (m *Map[K, V]) Value(key K) (V, error) {
	var zero V
	e := m.Entry(key)
	if e == nil {
		return zero, keyErr(key, ErrNotFound)
	}
	if isNil(e.value) {
		return zero, keyErr(key, ErrNullValue)
	}
	return e.value, nil
}

// Keys returns the keys in no particular order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	keys := make([]K, 0, len(m.index))
	for k := range m.index {
		keys = append(keys, k)
	}
	return keys
}

func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for k, e := range m.index {
			if !yield(k, e.value) {
				return
			}
		}
	}
}

// Clear removes all keys. Like Delete, it does not touch the backing
// sequence.
func (m *Map[K, V]) Clear() {
	clear(m.index)
}

// Backing returns the backing sequence as it would be persisted right now.
// The result must not be modified.
func (m *Map[K, V]) Backing() []*Entry[K, V] {
	if m == nil {
		return nil
	}
	return m.backing
}

func (m *Map[K, V]) init() {
	if m.index == nil {
		m.index = make(map[K]*Entry[K, V])
	}
}

func (m *Map[K, V]) BeforeSerialize() {
	if len(m.index) <= len(m.backing) {
		return
	}
	for _, e := range m.index {
		m.backing = append(m.backing, e)
	}
}

// AfterDeserialize rebuilds the lookup map from the backing sequence.
// Entries without a key or a value are skipped, and so are repeated keys:
// the first occurrence wins.
func (m *Map[K, V]) AfterDeserialize() {
	if m.index == nil {
		m.index = make(map[K]*Entry[K, V], len(m.backing))
	} else {
		clear(m.index)
	}
	for _, e := range m.backing {
		if e == nil || e.incomplete || isNil(e.key) || isNil(e.value) {
			continue
		}
		if _, found := m.index[e.key]; found {
			continue
		}
		m.index[e.key] = e
	}
}

func (m *Map[K, V]) MarshalFields(w *Writer) error {
	return w.Put(backingField, m.backing)
}

func (m *Map[K, V]) UnmarshalFields(r *Reader) error {
	_, err := r.Get(backingField, &m.backing)
	return err
}
