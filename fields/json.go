package fields

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

var _ json.Marshaler = (*Set)(nil)

// MarshalJSON renders the set as a JSON object in field order. Byte fields
// are rendered as hex strings, so the output is meant for people, not for
// reading back.
func (s *Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Set) appendJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	i := 0
	for name, v := range s.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		raw, err := json.Marshal(name)
		if err != nil {
			return err
		}
		buf.Write(raw)
		buf.WriteByte(':')
		if err := appendJSONValue(buf, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func appendJSONValue(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case *Set:
		return v.appendJSON(buf)
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSONValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case []byte:
		value = hex.EncodeToString(v)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(raw)
	return nil
}
