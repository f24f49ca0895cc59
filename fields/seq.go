package fields

import (
	"reflect"
	"strconv"
)

// The naming scheme below is part of the persisted format. Data written by
// every version of the encoder must keep loading, so it must never change.
//
//	<name>_Count   number of items
//	<name>_[i]     item i, for i in [0, Count)

func CountName(name string) string {
	return name + "_Count"
}

func ItemName(name string, i int) string {
	return name + "_[" + strconv.Itoa(i) + "]"
}

// PutSeq flattens seq into a count field plus one field per item.
func PutSeq[T any](s *Set, name string, seq []T) {
	PutSeqFunc(s, name, seq, func(v T) any { return v })
}

// PutSeqFunc is PutSeq with a conversion applied to every item before it is
// stored.
func PutSeqFunc[T any](s *Set, name string, seq []T, conv func(T) any) {
	s.Put(CountName(name), len(seq))
	for i, v := range seq {
		s.Put(ItemName(name, i), conv(v))
	}
}

// GetSeq reads a sequence written by PutSeq. Sets written before sequences
// were chunked hold the whole sequence in a single field called name, and
// those are read too. If neither form is present, GetSeq returns an empty
// slice. Items that are missing or cannot be converted to T are skipped.
func GetSeq[T any](s *Set, name string) []T {
	return GetSeqFunc(s, name, Convert[T])
}

// GetSeqFunc is GetSeq with a custom item conversion.
func GetSeqFunc[T any](s *Set, name string, conv func(any) (T, bool)) []T {
	if count, ok := s.Int(CountName(name)); ok && count >= 0 {
		// a corrupted count must not make us spin, and a set cannot hold
		// more items than it has fields
		n := int(min(count, int64(s.Len())))
		result := make([]T, 0, n)
		for i := range n {
			raw, found := s.Get(ItemName(name, i))
			if !found {
				continue
			}
			if v, ok := conv(raw); ok {
				result = append(result, v)
			}
		}
		return result
	}

	if raw, found := s.Get(name); found {
		if items, ok := wholeSeq(raw); ok {
			result := make([]T, 0, len(items))
			for _, raw := range items {
				if v, ok := conv(raw); ok {
					result = append(result, v)
				}
			}
			return result
		}
	}

	return []T{}
}

func wholeSeq(raw any) ([]any, bool) {
	if items, ok := raw.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(raw)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || isByteSlice(rv.Type()) {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
