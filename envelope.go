package sdict

import (
	"encoding/binary"
	"fmt"

	"github.com/andreyvit/sdict/fields"
	"github.com/cespare/xxhash/v2"
)

// Stored documents are wrapped into an envelope:
//
//	flags      uvarint (format version bits)
//	dataSize   uvarint
//	checksum   8 bytes, big-endian xxhash64 of data
//	data       MessagePack field set

type envelopeFlags uint64

const (
	efVerBit0 = envelopeFlags(1 << iota)
	efVerBit1
	efVerBit2
	efVerBit3

	efVerMask       = (efVerBit0 | efVerBit1 | efVerBit2 | efVerBit3)
	efVer1          = efVerBit0
	efSupportedMask = efVer1
	efDefault       = efVer1

	minEnvelopeSize       = 1 + 1 + 8 + 1
	maxEnvelopeHeaderSize = binary.MaxVarintLen64*2 + 8
)

func (ef envelopeFlags) ver() envelopeFlags {
	return ef & efVerMask
}

type envelope struct {
	Flags    envelopeFlags
	Checksum uint64
	Data     []byte
}

// appendEnvelope encodes fs into buf, which must be empty.
func appendEnvelope(buf []byte, fs *fields.Set) ([]byte, error) {
	if len(buf) != 0 {
		panic("envelope must be written to an empty buffer")
	}
	_, buf = grow(buf, maxEnvelopeHeaderSize)
	buf, err := encodeFields(buf, fs)
	if err != nil {
		return nil, err
	}
	return putEnvelopeHeader(buf, efDefault), nil
}

func putEnvelopeHeader(buf []byte, flags envelopeFlags) []byte {
	if (flags &^ efSupportedMask) != 0 {
		panic(fmt.Errorf("invalid flags %x", flags))
	}
	data := buf[maxEnvelopeHeaderSize:]

	var hdr [maxEnvelopeHeaderSize]byte
	off := binary.PutUvarint(hdr[:], uint64(flags))
	off += binary.PutUvarint(hdr[off:], uint64(len(data)))
	binary.BigEndian.PutUint64(hdr[off:], xxhash.Sum64(data))
	off += 8

	// move the header closer to data
	start := maxEnvelopeHeaderSize - off
	copy(buf[start:maxEnvelopeHeaderSize], hdr[:off])
	return buf[start:]
}

func (env *envelope) decode(raw []byte) error {
	if len(raw) < minEnvelopeSize {
		return dataErrf(raw, 0, nil, "invalid envelope: at least %d bytes required", minEnvelopeSize)
	}
	d := makeByteDecoder(raw)

	v, err := d.Uvarint()
	if err != nil {
		return err
	}
	if (v &^ uint64(efSupportedMask)) != 0 {
		return dataErrf(raw, 0, nil, "invalid envelope: unsupported flags %x", v)
	}
	env.Flags = envelopeFlags(v)
	if env.Flags.ver() != efVer1 {
		return dataErrf(raw, 0, nil, "invalid envelope: unsupported version %d", env.Flags.ver())
	}

	dataSize, err := d.Uvarinti()
	if err != nil {
		return err
	}
	env.Checksum, err = d.FixedUint64()
	if err != nil {
		return err
	}
	if len(d.Buf) != dataSize {
		return dataErrf(raw, d.Off(), nil, "invalid envelope: got %d bytes of data, expected %d bytes", len(d.Buf), dataSize)
	}
	env.Data = d.Buf

	if actual := xxhash.Sum64(env.Data); actual != env.Checksum {
		return dataErrf(raw, d.Off(), nil, "invalid envelope: checksum %016x, expected %016x", actual, env.Checksum)
	}
	return nil
}

// decodeEnvelope verifies raw and decodes the field set it carries.
func decodeEnvelope(raw []byte) (*fields.Set, error) {
	var env envelope
	err := env.decode(raw)
	if err != nil {
		return nil, err
	}
	return decodeFields(env.Data)
}
