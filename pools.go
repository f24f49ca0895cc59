package sdict

import "sync"

var valueBytesPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 65536)
	},
}

var releaseValueBytes = func(b []byte) {
	valueBytesPool.Put(b[:0])
}

// withValueBytes runs f with an empty pooled buffer. The buffer f returns
// (or the original one, if f returns nil) goes back to the pool whether or
// not f fails.
func withValueBytes(f func(buf []byte) ([]byte, error)) error {
	buf := valueBytesPool.Get().([]byte)
	out, err := f(buf)
	if out == nil {
		out = buf
	}
	releaseValueBytes(out)
	return err
}
