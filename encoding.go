package sdict

import (
	"bytes"
	"fmt"

	"github.com/andreyvit/sdict/fields"
	"github.com/vmihailenco/msgpack/v5"
)

// encodeFields appends the MessagePack form of fs to buf.
func encodeFields(buf []byte, fs *fields.Set) ([]byte, error) {
	bb := bytesBuilder{buf}
	enc := msgpack.GetEncoder()
	enc.ResetDict(&bb, nil)
	err := fs.EncodeMsgpack(enc)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fields using MsgPack: %w", err)
	}
	return bb.Buf, nil
}

func decodeFields(buf []byte) (*fields.Set, error) {
	var r bytes.Reader
	r.Reset(buf)
	dec := msgpack.GetDecoder()
	dec.ResetDict(&r, nil)
	fs := fields.New()
	err := fs.DecodeMsgpack(dec)
	msgpack.PutDecoder(dec)
	if err != nil {
		return nil, dataErrf(buf, int(r.Size())-r.Len(), err, "failed to decode msgpack fields")
	}
	if r.Len() != 0 {
		return nil, dataErrf(buf, int(r.Size())-r.Len(), nil, "%d bytes of trailing data", r.Len())
	}
	return fs, nil
}
