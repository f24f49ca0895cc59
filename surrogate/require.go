package surrogate

import (
	"fmt"

	"github.com/andreyvit/sdict/fields"
	"github.com/hengadev/errsx"
)

// Reader reads the fields a Restore needs, remembering every one that is
// missing or has the wrong type, so that a single error can describe them
// all.
type Reader struct {
	fs   *fields.Set
	errs errsx.Map
}

func Require(fs *fields.Set) *Reader {
	return &Reader{fs: fs}
}

func (r *Reader) Float32(name string) float32 { return read[float32](r, name) }
func (r *Reader) Float64(name string) float64 { return read[float64](r, name) }
func (r *Reader) Int(name string) int         { return read[int](r, name) }
func (r *Reader) Int64(name string) int64     { return read[int64](r, name) }
func (r *Reader) String(name string) string   { return read[string](r, name) }
func (r *Reader) Bool(name string) bool       { return read[bool](r, name) }

// Err returns nil if every field read so far was present and convertible.
func (r *Reader) Err() error {
	if r.errs.IsEmpty() {
		return nil
	}
	return r.errs.AsError()
}

func read[T any](r *Reader, name string) T {
	raw, found := r.fs.Get(name)
	if !found {
		r.errs.Set(name, "missing")
		var zero T
		return zero
	}
	v, ok := fields.Convert[T](raw)
	if !ok {
		var zero T
		r.errs.Set(name, fmt.Sprintf("cannot use %T as %T", raw, zero))
	}
	return v
}
