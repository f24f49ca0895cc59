package sdict

// Entry is an immutable key-value pair, the unit stored in a Map's backing
// sequence.
type Entry[K comparable, V any] struct {
	key   K
	value V

	// set when loaded from data that had no key or no value
	incomplete bool
}

func NewEntry[K comparable, V any](key K, value V) *Entry[K, V] {
	return &Entry[K, V]{key: key, value: value}
}

func (e *Entry[K, V]) Key() K   { return e.key }
func (e *Entry[K, V]) Value() V { return e.value }

func (e *Entry[K, V]) MarshalFields(w *Writer) error {
	if err := w.Put("Key", e.key); err != nil {
		return err
	}
	return w.Put("Value", e.value)
}

func (e *Entry[K, V]) UnmarshalFields(r *Reader) error {
	e.incomplete = !r.Present("Key") || !r.Present("Value")
	if _, err := r.Get("Key", &e.key); err != nil {
		return err
	}
	_, err := r.Get("Value", &e.value)
	return err
}

// BoxedEntry holds an ordered sequence of values under one key.
//
// Values are persisted through the sequence chunk encoding, which is how
// a BoxedMap gets to store value types that only make sense in a list.
type BoxedEntry[K comparable, V any] struct {
	key    K
	values []V

	incomplete bool
}

func NewBoxedEntry[K comparable, V any](key K, value V) *BoxedEntry[K, V] {
	return &BoxedEntry[K, V]{key: key, values: []V{value}}
}

// NewBoxedEntryValues uses values directly, without copying.
func NewBoxedEntryValues[K comparable, V any](key K, values []V) *BoxedEntry[K, V] {
	return &BoxedEntry[K, V]{key: key, values: values}
}

func (e *BoxedEntry[K, V]) Key() K      { return e.key }
func (e *BoxedEntry[K, V]) Values() []V { return e.values }

// Value returns the first value. It panics if the entry has no values;
// entries reachable from a BoxedMap always have at least one.
func (e *BoxedEntry[K, V]) Value() V {
	return e.values[0]
}

func (e *BoxedEntry[K, V]) Len() int {
	return len(e.values)
}

// AddValue appends a value. Only used while reconstructing an entry.
func (e *BoxedEntry[K, V]) AddValue(v V) {
	e.values = append(e.values, v)
}

// AddValues appends values. Only used while reconstructing an entry.
func (e *BoxedEntry[K, V]) AddValues(vs []V) {
	e.values = append(e.values, vs...)
}

func (e *BoxedEntry[K, V]) MarshalFields(w *Writer) error {
	if err := w.Put("Key", e.key); err != nil {
		return err
	}
	return w.Put("Values", e.values)
}

func (e *BoxedEntry[K, V]) UnmarshalFields(r *Reader) error {
	e.incomplete = !r.Present("Key")
	if _, err := r.Get("Key", &e.key); err != nil {
		return err
	}
	var values []V
	if _, err := r.Get("Values", &values); err != nil {
		return err
	}
	e.values = nil
	e.AddValues(values)
	return nil
}
