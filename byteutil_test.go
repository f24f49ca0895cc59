package sdict

import (
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestBytesBuilder_Basics(t *testing.T) {
	var bb bytesBuilder
	off := bb.Grow(3)
	copy(bb.Buf[off:], []byte{1, 2, 3})

	_, _ = bb.Write([]byte{9, 8})
	if !reflect.DeepEqual(bb.Buf, []byte{1, 2, 3, 9, 8}) {
		t.Fatalf("after Write: bb.Buf = %x, wanted 0102030908", bb.Buf)
	}

	_ = bb.WriteByte(7)
	if !reflect.DeepEqual(bb.Buf, []byte{1, 2, 3, 9, 8, 7}) {
		t.Fatalf("after WriteByte: bb.Buf = %x, wanted 010203090807", bb.Buf)
	}
}

func TestEnsureCapacity(t *testing.T) {
	buf := ensureCapacity([]byte{1, 2}, 100)
	if cap(buf) < 100 || len(buf) != 2 || buf[0] != 1 || buf[1] != 2 {
		t.Fatalf("ensureCapacity = len %d cap %d %x, wanted len 2 cap >= 100 0102", len(buf), cap(buf), buf)
	}
	src := []byte{0xAA, 0xBB, 0xCC}
	if got := appendRaw(nil, src); !reflect.DeepEqual(got, src) {
		t.Fatalf("appendRaw = %x, wanted %x", got, src)
	}
}

func TestByteDecoder(t *testing.T) {
	var buf []byte
	buf = binary.AppendUvarint(buf, 300)
	buf = binary.BigEndian.AppendUint64(buf, 0x0102030405060708)
	buf = append(buf, 0xEE)

	d := makeByteDecoder(buf)
	if v, err := d.Uvarinti(); err != nil || v != 300 {
		t.Fatalf("Uvarinti = (%d, %v), wanted (300, nil)", v, err)
	}
	if v, err := d.FixedUint64(); err != nil || v != 0x0102030405060708 {
		t.Fatalf("FixedUint64 = (%x, %v), wanted (0102030405060708, nil)", v, err)
	}
	if v, err := d.Raw(1); err != nil || v[0] != 0xEE || len(d.Buf) != 0 {
		t.Fatalf("Raw = (%x, %v), remaining=%d, wanted (ee, nil), remaining=0", v, err, len(d.Buf))
	}
}

func TestByteDecoder_Errors(t *testing.T) {
	t.Run("invalid uvarint", func(t *testing.T) {
		d := makeByteDecoder([]byte{0x80}) // continuation bit with no terminator
		_, err := d.Uvarint()
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("Uvarint err = %T %v, wanted *DataError", err, err)
		}
		if de.Off != 0 {
			t.Fatalf("DataError.Off = %d, wanted 0", de.Off)
		}
	})

	t.Run("uvarint overflows int", func(t *testing.T) {
		var b [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(b[:], uint64(math.MaxInt)+1)
		d := makeByteDecoder(b[:n])
		_, err := d.Uvarinti()
		if err == nil {
			t.Fatalf("Uvarinti err = nil, wanted error")
		}
	})

	t.Run("Raw not enough data", func(t *testing.T) {
		d := makeByteDecoder([]byte{1, 2})
		_, err := d.Raw(3)
		if err == nil {
			t.Fatalf("Raw err = nil, wanted error")
		}
	})
}
