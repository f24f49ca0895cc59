package fields

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

var (
	_ msgpack.CustomEncoder = (*Set)(nil)
	_ msgpack.CustomDecoder = (*Set)(nil)
)

// EncodeMsgpack writes the set as a msgpack map, preserving field order.
// Nested sets become nested maps, whole sequences become arrays.
func (s *Set) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(s.Len()); err != nil {
		return err
	}
	for name, v := range s.All() {
		if err := enc.EncodeString(name); err != nil {
			return err
		}
		if err := encodeValue(enc, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func encodeValue(enc *msgpack.Encoder, value any) error {
	switch v := value.(type) {
	case nil:
		return enc.EncodeNil()
	case bool:
		return enc.EncodeBool(v)
	case int64:
		return enc.EncodeInt(v)
	case uint64:
		return enc.EncodeUint(v)
	case float32:
		return enc.EncodeFloat32(v)
	case float64:
		return enc.EncodeFloat64(v)
	case string:
		return enc.EncodeString(v)
	case []byte:
		return enc.EncodeBytes(v)
	case *Set:
		return v.EncodeMsgpack(enc)
	case []any:
		if err := enc.EncodeArrayLen(len(v)); err != nil {
			return err
		}
		for i, item := range v {
			if err := encodeValue(enc, item); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("cannot encode %T", value)
	}
}

// DecodeMsgpack replaces the contents of the set with a msgpack map.
func (s *Set) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	s.fields, s.index = nil, nil
	for range n {
		name, err := dec.DecodeString()
		if err != nil {
			return err
		}
		v, err := decodeValue(dec)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		s.put(name, v)
	}
	return nil
}

func decodeValue(dec *msgpack.Decoder) (any, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		sub := New()
		if err := sub.DecodeMsgpack(dec); err != nil {
			return nil, err
		}
		return sub, nil

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, nil
		}
		items := make([]any, 0, min(n, 1024))
		for i := range n {
			item, err := decodeValue(dec)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return items, nil
	}

	raw, err := dec.DecodeInterface()
	if err != nil {
		return nil, err
	}
	v, ok := storable(raw)
	if !ok {
		return nil, fmt.Errorf("unsupported msgpack value %T", raw)
	}
	return v, nil
}
