package sdict

import (
	"iter"
)

// BoxedMap is a Map that keeps an ordered sequence of values under each key.
// It follows the same checkpoint protocol as Map, including its
// limitations.
//
// The zero value is ready to use. A BoxedMap is not safe for concurrent use.
type BoxedMap[K comparable, V any] struct {
	index   map[K]*BoxedEntry[K, V]
	backing []*BoxedEntry[K, V]
}

var (
	_ Checkpointer     = (*BoxedMap[string, int])(nil)
	_ FieldMarshaler   = (*BoxedMap[string, int])(nil)
	_ FieldUnmarshaler = (*BoxedMap[string, int])(nil)
)

func NewBoxedMap[K comparable, V any]() *BoxedMap[K, V] {
	return &BoxedMap[K, V]{index: make(map[K]*BoxedEntry[K, V])}
}

func (m *BoxedMap[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.index)
}

// Add inserts a new key holding a single value.
func (m *BoxedMap[K, V]) Add(key K, value V) error {
	return m.AddEntry(NewBoxedEntry(key, value))
}

// AddValues inserts a new key holding values. The slice is used directly.
// Empty values fail with ErrNullValue.
func (m *BoxedMap[K, V]) AddValues(key K, values []V) error {
	return m.AddEntry(NewBoxedEntryValues(key, values))
}

func (m *BoxedMap[K, V]) AddEntry(e *BoxedEntry[K, V]) error {
	if len(e.values) == 0 {
		return keyErr(e.key, ErrNullValue)
	}
	if _, found := m.index[e.key]; found {
		return keyErr(e.key, ErrDuplicateKey)
	}
	m.init()
	m.index[e.key] = e
	return nil
}

func (m *BoxedMap[K, V]) Set(key K, value V) {
	m.init()
	m.index[key] = NewBoxedEntry(key, value)
}

// SetValues replaces whatever key holds. Empty values fail with
// ErrNullValue and leave the map unchanged.
func (m *BoxedMap[K, V]) SetValues(key K, values []V) error {
	if len(values) == 0 {
		return keyErr(key, ErrNullValue)
	}
	m.init()
	m.index[key] = NewBoxedEntryValues(key, values)
	return nil
}

func (m *BoxedMap[K, V]) Delete(key K) bool {
	if _, found := m.index[key]; !found {
		return false
	}
	delete(m.index, key)
	return true
}

func (m *BoxedMap[K, V]) Has(key K) bool {
	if m == nil {
		return false
	}
	_, found := m.index[key]
	return found
}

func (m *BoxedMap[K, V]) Entry(key K) *BoxedEntry[K, V] {
	if m == nil {
		return nil
	}
	return m.index[key]
}

// Get returns the first value under key.
func (m *BoxedMap[K, V]) Get(key K) (V, bool) {
	e := m.Entry(key)
	if e == nil || len(e.values) == 0 {
		var zero V
		return zero, false
	}
	return e.values[0], true
}

func (m *BoxedMap[K, V]) GetValues(key K) ([]V, bool) {
	e := m.Entry(key)
	if e == nil {
		return nil, false
	}
	return e.values, true
}

// Value returns the first value under key, failing with ErrNotFound if
// the key is absent and with ErrNullValue if it holds no values.
func (m *BoxedMap[K, V]) Value(key K) (V, error) {
	var zero V
	values, err := m.Values(key)
	if err != nil {
		return zero, err
	}
	return values[0], nil
}

// Values returns all values under key, failing the same way as Value.
func (m *BoxedMap[K, V]) Values(key K) ([]V, error) {
	e := m.Entry(key)
	if e == nil {
		return nil, keyErr(key, ErrNotFound)
	}
	if len(e.values) == 0 {
		return nil, keyErr(key, ErrNullValue)
	}
	return e.values, nil
}

func (m *BoxedMap[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	keys := make([]K, 0, len(m.index))
	for k := range m.index {
		keys = append(keys, k)
	}
	return keys
}

func (m *BoxedMap[K, V]) All() iter.Seq2[K, []V] {
	return func(yield func(K, []V) bool) {
		if m == nil {
			return
		}
		for k, e := range m.index {
			if !yield(k, e.values) {
				return
			}
		}
	}
}

func (m *BoxedMap[K, V]) Clear() {
	clear(m.index)
}

func (m *BoxedMap[K, V]) Backing() []*BoxedEntry[K, V] {
	if m == nil {
		return nil
	}
	return m.backing
}

func (m *BoxedMap[K, V]) init() {
	if m.index == nil {
		m.index = make(map[K]*BoxedEntry[K, V])
	}
}

func (m *BoxedMap[K, V]) BeforeSerialize() {
	if len(m.index) <= len(m.backing) {
		return
	}
	for _, e := range m.index {
		m.backing = append(m.backing, e)
	}
}

func (m *BoxedMap[K, V]) AfterDeserialize() {
	if m.index == nil {
		m.index = make(map[K]*BoxedEntry[K, V], len(m.backing))
	} else {
		clear(m.index)
	}
	for _, e := range m.backing {
		if e == nil || e.incomplete || isNil(e.key) || len(e.values) == 0 {
			continue
		}
		if _, found := m.index[e.key]; found {
			continue
		}
		m.index[e.key] = e
	}
}

func (m *BoxedMap[K, V]) MarshalFields(w *Writer) error {
	return w.Put(backingField, m.backing)
}

func (m *BoxedMap[K, V]) UnmarshalFields(r *Reader) error {
	_, err := r.Get(backingField, &m.backing)
	return err
}
