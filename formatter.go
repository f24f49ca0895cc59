package sdict

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/andreyvit/sdict/fields"
	"github.com/andreyvit/sdict/surrogate"
)

// MaxDepth limits how deeply values may nest. There is no cycle detection,
// so a cyclic graph fails with ErrTooDeep instead of overflowing the stack.
const MaxDepth = 64

// nestedSeqName names the chunked sequence inside the object that a
// sequence of sequences stores for each inner sequence.
const nestedSeqName = "Items"

var ErrTooDeep = errors.New("nesting too deep")

type FormatterOptions struct {
	Surrogates *surrogate.Registry
	Context    surrogate.Context
	Logger     *slog.Logger
}

// Formatter turns values into field sets and back.
//
// Natively supported are booleans, integers, floats, strings and byte
// slices, pointers to and slices of supported values, values implementing
// FieldMarshaler/FieldUnmarshaler, and values whose type has a surrogate.
// Slices are stored through the chunk encoding (see fields.PutSeq).
// Anything else, notably maps and plain structs, fails with
// UnsupportedTypeError.
//
// A Formatter is safe for concurrent use if its surrogate registry is not
// modified.
type Formatter struct {
	surrogates *surrogate.Registry
	ctx        surrogate.Context
	logger     *slog.Logger
}

func NewFormatter(opt FormatterOptions) *Formatter {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &Formatter{
		surrogates: opt.Surrogates,
		ctx:        opt.Context,
		logger:     opt.Logger,
	}
}

func (f *Formatter) Surrogates() *surrogate.Registry {
	return f.surrogates
}

// MarshalFields captures v, calling BeforeSerialize on every Checkpointer it
// meets along the way.
func (f *Formatter) MarshalFields(v FieldMarshaler) (*fields.Set, error) {
	if isNil(v) {
		return nil, fmt.Errorf("cannot marshal nil %T", v)
	}
	fs := fields.New()
	err := f.marshalObject(fs, v, "", 0)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// UnmarshalFields restores v from fs, calling AfterDeserialize on every
// Checkpointer once its own fields have been read.
func (f *Formatter) UnmarshalFields(fs *fields.Set, v FieldUnmarshaler) error {
	if isNil(v) {
		return fmt.Errorf("cannot unmarshal into nil %T", v)
	}
	return f.unmarshalObject(fs, v, "", 0)
}

func (f *Formatter) Marshal(v FieldMarshaler) ([]byte, error) {
	fs, err := f.MarshalFields(v)
	if err != nil {
		return nil, err
	}
	return encodeFields(nil, fs)
}

func (f *Formatter) Unmarshal(data []byte, v FieldUnmarshaler) error {
	fs, err := decodeFields(data)
	if err != nil {
		return err
	}
	return f.UnmarshalFields(fs, v)
}

func (f *Formatter) marshalObject(fs *fields.Set, v FieldMarshaler, path string, depth int) error {
	if depth > MaxDepth {
		return tooDeep(path)
	}
	if cp, ok := v.(Checkpointer); ok {
		cp.BeforeSerialize()
	}
	return v.MarshalFields(&Writer{f, fs, path, depth})
}

func (f *Formatter) unmarshalObject(fs *fields.Set, v FieldUnmarshaler, path string, depth int) error {
	if depth > MaxDepth {
		return tooDeep(path)
	}
	err := v.UnmarshalFields(&Reader{f, fs, path, depth})
	if err != nil {
		return err
	}
	if cp, ok := v.(Checkpointer); ok {
		cp.AfterDeserialize()
	}
	return nil
}

func (f *Formatter) put(fs *fields.Set, name string, rv reflect.Value, path string, depth int) error {
	if rv.IsValid() && reflectType(rv.Type()).seq && !f.custom(rv.Type()) {
		items, err := f.encodeSeq(rv, path, depth)
		if err != nil {
			return err
		}
		fields.PutSeq(fs, name, items)
		return nil
	}
	v, err := f.encode(rv, path, depth)
	if err != nil {
		return err
	}
	fs.Put(name, v)
	return nil
}

// custom reports whether values of typ are stored as objects even though
// typ is a slice or array.
func (f *Formatter) custom(typ reflect.Type) bool {
	if reflectType(typ).marshaler {
		return true
	}
	_, found := f.surrogates.Lookup(typ)
	return found
}

func (f *Formatter) encodeSeq(rv reflect.Value, path string, depth int) ([]any, error) {
	n := rv.Len()
	items := make([]any, n)
	for i := range n {
		item, err := f.encode(rv.Index(i), itemPath(path, i), depth+1)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func (f *Formatter) encode(rv reflect.Value, path string, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, tooDeep(path)
	}
	if !rv.IsValid() {
		return nil, nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
	}
	typ := rv.Type()
	if typ == setPtrType {
		return rv.Interface(), nil
	}
	if s, found := f.surrogates.Lookup(typ); found {
		sub := fields.New()
		s.Capture(rv.Interface(), sub, f.ctx)
		return sub, nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return f.encode(rv.Elem(), path, depth+1)
	}

	ti := reflectType(typ)
	if ti.marshaler {
		sub := fields.New()
		m := addressable(rv).Addr().Interface().(FieldMarshaler)
		err := f.marshalObject(sub, m, path, depth)
		if err != nil {
			return nil, err
		}
		return sub, nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32:
		return float32(rv.Float()), nil
	case reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice, reflect.Array:
		if ti.bytes {
			if rv.Kind() == reflect.Slice && rv.IsNil() {
				return nil, nil
			}
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), addressable(rv))
			return b, nil
		}
		items, err := f.encodeSeq(rv, path, depth)
		if err != nil {
			return nil, err
		}
		sub := fields.New()
		fields.PutSeq(sub, nestedSeqName, items)
		return sub, nil
	}
	return nil, &UnsupportedTypeError{typ, path}
}

func (f *Formatter) decodeSeq(fs *fields.Set, name string, target reflect.Value, path string, depth int) error {
	items := fields.GetSeq[any](fs, name)
	typ := target.Type()

	if typ.Kind() == reflect.Array {
		target.SetZero()
		for i, raw := range items {
			if i >= typ.Len() {
				break
			}
			err := f.decodeItem(raw, target.Index(i), itemPath(path, i), depth+1)
			if err != nil && err != errSkipItem {
				return err
			}
		}
		return nil
	}

	out := reflect.MakeSlice(typ, 0, len(items))
	elem := reflect.New(typ.Elem()).Elem()
	for i, raw := range items {
		elem.SetZero()
		err := f.decodeItem(raw, elem, itemPath(path, i), depth+1)
		if err == errSkipItem {
			continue
		} else if err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	target.Set(out)
	return nil
}

var errSkipItem = errors.New("skip item")

// decodeItem decodes one sequence item. Items that cannot be decoded are
// logged and skipped (errSkipItem), except for configuration problems, which
// fail the whole operation.
func (f *Formatter) decodeItem(raw any, target reflect.Value, path string, depth int) error {
	err := f.decode(raw, target, path, depth)
	if err == nil {
		return nil
	}
	var ute *UnsupportedTypeError
	if errors.As(err, &ute) || errors.Is(err, ErrTooDeep) {
		return err
	}
	f.logger.Warn("sdict: skipping undecodable item", "path", path, "err", err)
	target.SetZero()
	return errSkipItem
}

func (f *Formatter) decode(raw any, target reflect.Value, path string, depth int) error {
	if depth > MaxDepth {
		return tooDeep(path)
	}
	typ := target.Type()
	if raw == nil {
		target.SetZero()
		return nil
	}

	if s, found := f.surrogates.Lookup(typ); found {
		sub, ok := raw.(*fields.Set)
		if !ok {
			return fmt.Errorf("%sexpected an object for %v, got %T", pathPrefix(path), typ, raw)
		}
		obj, err := s.Restore(target.Interface(), sub, f.ctx)
		if err != nil {
			return fmt.Errorf("%s%w", pathPrefix(path), err)
		}
		ov := reflect.ValueOf(obj)
		if !ov.IsValid() || !ov.Type().AssignableTo(typ) {
			return fmt.Errorf("%ssurrogate for %v restored %T", pathPrefix(path), typ, obj)
		}
		target.Set(ov)
		return nil
	}

	switch typ.Kind() {
	case reflect.Pointer:
		if typ == setPtrType {
			sub, ok := raw.(*fields.Set)
			if !ok {
				return fmt.Errorf("%sexpected an object, got %T", pathPrefix(path), raw)
			}
			target.Set(reflect.ValueOf(sub))
			return nil
		}
		p := reflect.New(typ.Elem())
		err := f.decode(raw, p.Elem(), path, depth+1)
		if err != nil {
			return err
		}
		target.Set(p)
		return nil
	case reflect.Interface:
		rv := reflect.ValueOf(raw)
		if !rv.Type().AssignableTo(typ) {
			return fmt.Errorf("%scannot use %T as %v", pathPrefix(path), raw, typ)
		}
		target.Set(rv)
		return nil
	}

	ti := reflectType(typ)
	if ti.unmarshaler {
		sub, ok := raw.(*fields.Set)
		if !ok {
			return fmt.Errorf("%sexpected an object for %v, got %T", pathPrefix(path), typ, raw)
		}
		target.SetZero()
		u := target.Addr().Interface().(FieldUnmarshaler)
		return f.unmarshalObject(sub, u, path, depth)
	}

	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		if ti.bytes {
			b, ok := raw.([]byte)
			if !ok {
				return fmt.Errorf("%scannot decode %T into %v", pathPrefix(path), raw, typ)
			}
			if typ.Kind() == reflect.Array {
				target.SetZero()
				reflect.Copy(target, reflect.ValueOf(b))
			} else {
				target.Set(reflect.ValueOf(b).Convert(typ))
			}
			return nil
		}
		switch raw := raw.(type) {
		case *fields.Set:
			return f.decodeSeq(raw, nestedSeqName, target, path, depth)
		case []any:
			// written before nested sequences were chunked
			tmp := fields.New()
			tmp.Put(nestedSeqName, raw)
			return f.decodeSeq(tmp, nestedSeqName, target, path, depth)
		default:
			return fmt.Errorf("%scannot decode %T into %v", pathPrefix(path), raw, typ)
		}
	case reflect.Map, reflect.Struct, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return &UnsupportedTypeError{typ, path}
	}

	v, ok := fields.ConvertTo(raw, typ)
	if !ok {
		return fmt.Errorf("%scannot decode %T into %v", pathPrefix(path), raw, typ)
	}
	target.Set(v)
	return nil
}

func tooDeep(path string) error {
	return fmt.Errorf("%s%w: more than %d levels", pathPrefix(path), ErrTooDeep, MaxDepth)
}

func fieldPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func itemPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// Writer is handed to FieldMarshaler.MarshalFields.
type Writer struct {
	f     *Formatter
	fs    *fields.Set
	path  string
	depth int
}

// Put stores v under name. Slices and arrays other than byte slices are
// stored through the chunk encoding.
func (w *Writer) Put(name string, v any) error {
	return w.f.put(w.fs, name, reflect.ValueOf(v), fieldPath(w.path, name), w.depth+1)
}

// Fields gives direct access to the set being written.
func (w *Writer) Fields() *fields.Set {
	return w.fs
}

func (w *Writer) Context() surrogate.Context {
	return w.f.ctx
}

// Reader is handed to FieldUnmarshaler.UnmarshalFields.
type Reader struct {
	f     *Formatter
	fs    *fields.Set
	path  string
	depth int
}

// Get decodes the field called name into the value ptr points to, and
// reports whether the field was present. An absent field leaves the value
// untouched, except for slices, which are set to an empty slice.
//
// Undecodable sequence items are logged and skipped. All other decoding
// problems are returned.
func (r *Reader) Get(name string, ptr any) (bool, error) {
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		panic(fmt.Errorf("Reader.Get(%q) needs a non-nil pointer, got %T", name, ptr))
	}
	target := pv.Elem()
	path := fieldPath(r.path, name)

	if reflectType(target.Type()).seq && !r.f.custom(target.Type()) {
		found := r.fs.Has(fields.CountName(name)) || r.fs.Has(name)
		return found, r.f.decodeSeq(r.fs, name, target, path, r.depth+1)
	}

	raw, found := r.fs.Get(name)
	if !found {
		if target.Kind() == reflect.Interface && r.fs.Has(fields.CountName(name)) {
			var items []any
			if err := r.f.decodeSeq(r.fs, name, reflect.ValueOf(&items).Elem(), path, r.depth+1); err != nil {
				return true, err
			}
			target.Set(reflect.ValueOf(items))
			return true, nil
		}
		return false, nil
	}
	return true, r.f.decode(raw, target, path, r.depth+1)
}

func (r *Reader) Has(name string) bool {
	return r.fs.Has(name)
}

// HasValue reports whether the field called name is present and not nil.
func (r *Reader) HasValue(name string) bool {
	v, found := r.fs.Get(name)
	return found && v != nil
}

// Present reports whether name holds a non-nil value, either as a plain
// field or as a chunked sequence.
func (r *Reader) Present(name string) bool {
	return r.fs.Has(fields.CountName(name)) || r.HasValue(name)
}

// Fields gives direct access to the set being read.
func (r *Reader) Fields() *fields.Set {
	return r.fs
}

func (r *Reader) Context() surrogate.Context {
	return r.f.ctx
}
