package sdict

// Checkpointer is implemented by values that keep state outside of their
// persisted fields. Formatter calls BeforeSerialize before MarshalFields and
// AfterDeserialize after UnmarshalFields.
type Checkpointer interface {
	BeforeSerialize()
	AfterDeserialize()
}

// FieldMarshaler is implemented by values that write their own persisted
// fields.
type FieldMarshaler interface {
	MarshalFields(w *Writer) error
}

// FieldUnmarshaler is implemented by values that read their own persisted
// fields. UnmarshalFields is always called on a pointer to a zero value.
type FieldUnmarshaler interface {
	UnmarshalFields(r *Reader) error
}
