package sdict

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"testing"

	"github.com/andreyvit/sdict/fields"
	"github.com/andreyvit/sdict/geom"
	"github.com/andreyvit/sdict/surrogate"
)

type inventory struct {
	Owner     string
	Slots     [2]int
	Items     *BoxedMap[string, geom.Vector3]
	Tint      *Map[string, geom.Color]
	Thumbnail []byte
}

func (inv *inventory) MarshalFields(w *Writer) error {
	for _, err := range []error{
		w.Put("owner", inv.Owner),
		w.Put("slots", inv.Slots),
		w.Put("items", inv.Items),
		w.Put("tint", inv.Tint),
		w.Put("thumb", inv.Thumbnail),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (inv *inventory) UnmarshalFields(r *Reader) error {
	for _, f := range []struct {
		name string
		ptr  any
	}{
		{"owner", &inv.Owner},
		{"slots", &inv.Slots},
		{"items", &inv.Items},
		{"tint", &inv.Tint},
		{"thumb", &inv.Thumbnail},
	} {
		if _, err := r.Get(f.name, f.ptr); err != nil {
			return err
		}
	}
	return nil
}

func geomFormatter() *Formatter {
	r := surrogate.NewRegistry()
	geom.AddSurrogates(r)
	return NewFormatter(FormatterOptions{
		Surrogates: r,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestFormatterGeomRoundTrip(t *testing.T) {
	inv := &inventory{
		Owner:     "alice",
		Slots:     [2]int{7, 9},
		Items:     NewBoxedMap[string, geom.Vector3](),
		Tint:      NewMap[string, geom.Color](),
		Thumbnail: []byte{0xFF, 0x00},
	}
	ensure(inv.Items.AddValues("path", []geom.Vector3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: -1, Y: 0.5, Z: 0}}))
	ensure(inv.Items.Add("spawn", geom.Vector3{X: 0, Y: 0, Z: 0}))
	ensure(inv.Tint.Add("bg", geom.Black))
	ensure(inv.Tint.Add("fg", geom.Color{R: 0.5, G: 0.25, B: 1, A: 1}))

	a := roundTrip(t, geomFormatter(), inv)

	if a.Owner != "alice" || a.Slots != [2]int{7, 9} || !slices.Equal(a.Thumbnail, []byte{0xFF, 0x00}) {
		t.Errorf("** scalars = %q %v %x, wanted alice [7 9] ff00", a.Owner, a.Slots, a.Thumbnail)
	}
	if vs, err := a.Items.Values("path"); err != nil || !slices.Equal(vs, []geom.Vector3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: -1, Y: 0.5, Z: 0}}) {
		t.Errorf("** Items.Values(path) = (%v, %v)", vs, err)
	}
	if v, err := a.Items.Value("spawn"); err != nil || v != (geom.Vector3{}) {
		t.Errorf("** Items.Value(spawn) = (%v, %v)", v, err)
	}
	e := map[string]geom.Color{"bg": geom.Black, "fg": {R: 0.5, G: 0.25, B: 1, A: 1}}
	if got := maps.Collect(a.Tint.All()); !reflect.DeepEqual(got, e) {
		t.Errorf("** Tint = %v, wanted %v", got, e)
	}
}

func TestFormatterNilContainer(t *testing.T) {
	a := roundTrip(t, geomFormatter(), &inventory{Owner: "bob"})
	if a.Items != nil || a.Tint != nil || a.Thumbnail != nil {
		t.Errorf("** nil fields came back as %v %v %v", a.Items, a.Tint, a.Thumbnail)
	}
}

func TestFormatterNestedMaps(t *testing.T) {
	inner := NewMap[string, int]()
	ensure(inner.Add("x", 1))
	outer := NewMap[string, *Map[string, int]]()
	ensure(outer.Add("inner", inner))
	ensure(outer.Add("none", nil))

	a := roundTrip(t, NewFormatter(FormatterOptions{}), outer)

	if a.Len() != 1 {
		t.Errorf("** Len = %d, wanted 1 (nil value dropped)", a.Len())
	}
	in, err := a.Value("inner")
	if err != nil {
		t.Fatal(err)
	}
	if v, err := in.Value("x"); err != nil || v != 1 {
		t.Errorf("** inner.Value(x) = (%v, %v), wanted 1", v, err)
	}
}

func TestFormatterSequenceOfSequences(t *testing.T) {
	m := NewBoxedMap[string, []int]()
	ensure(m.AddValues("grid", [][]int{{1, 2}, {}, {3}}))

	a := roundTrip(t, NewFormatter(FormatterOptions{}), m)

	vs, err := a.Values("grid")
	if err != nil {
		t.Fatal(err)
	}
	if e := [][]int{{1, 2}, {}, {3}}; !reflect.DeepEqual(vs, e) {
		t.Errorf("** Values(grid) = %v, wanted %v", vs, e)
	}
}

func TestFormatterInterfaceValues(t *testing.T) {
	m := NewMap[string, any]()
	ensure(m.Add("s", "str"))
	ensure(m.Add("n", 42))

	a := roundTrip(t, NewFormatter(FormatterOptions{}), m)

	e := map[string]any{"s": "str", "n": int64(42)}
	if got := maps.Collect(a.All()); !reflect.DeepEqual(got, e) {
		t.Errorf("** round trip = %#v, wanted %#v", got, e)
	}
}

func TestFormatterUnsupportedType(t *testing.T) {
	noSurrogates := NewFormatter(FormatterOptions{})

	m := NewMap[string, geom.Vector3]()
	ensure(m.Add("a", geom.Vector3{X: 1, Y: 2, Z: 3}))
	_, err := noSurrogates.Marshal(m)
	var ute *UnsupportedTypeError
	if !errors.As(err, &ute) || ute.Type != reflect.TypeFor[geom.Vector3]() {
		t.Errorf("** Marshal(unregistered) = %v, wanted UnsupportedTypeError for Vector3", err)
	}

	mm := NewMap[string, map[string]int]()
	ensure(mm.Add("a", map[string]int{"x": 1}))
	_, err = noSurrogates.Marshal(mm)
	if !errors.As(err, &ute) {
		t.Errorf("** Marshal(map value) = %v, wanted UnsupportedTypeError", err)
	}

	// decoding must not swallow configuration errors either
	data, err := geomFormatter().Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	err = noSurrogates.Unmarshal(data, NewMap[string, geom.Vector3]())
	if !errors.As(err, &ute) {
		t.Errorf("** Unmarshal(unregistered) = %v, wanted UnsupportedTypeError", err)
	}
}

func TestFormatterSkipsUndecodableItems(t *testing.T) {
	good := fields.New()
	good.Put("Key", "a")
	fields.PutSeq(good, "Values", []any{float32(1), "not a number", float32(3)})
	notAnObject := "junk"

	fs := fields.New()
	fields.PutSeq(fs, backingField, []any{good, notAnObject})

	var m BoxedMap[string, float32]
	if err := geomFormatter().UnmarshalFields(fs, &m); err != nil {
		t.Fatal(err)
	}
	if vs, _ := m.Values("a"); !slices.Equal(vs, []float32{1, 3}) {
		t.Errorf("** Values(a) = %v, wanted [1 3]", vs)
	}
	if a := len(m.Backing()); a != 1 {
		t.Errorf("** len(backing) = %d, wanted 1", a)
	}
}

func TestFormatterSurrogateRestoreFailure(t *testing.T) {
	broken := fields.New()
	broken.Put("x", float32(1))
	good := fields.New()
	good.Put("x", float32(1))
	good.Put("y", float32(2))

	entry := fields.New()
	entry.Put("Key", "k")
	fields.PutSeq(entry, "Values", []any{broken, good})
	fs := fields.New()
	fields.PutSeq(fs, backingField, []any{entry})

	var m BoxedMap[string, geom.Vector2]
	if err := geomFormatter().UnmarshalFields(fs, &m); err != nil {
		t.Fatal(err)
	}
	if vs, _ := m.Values("k"); !slices.Equal(vs, []geom.Vector2{{X: 1, Y: 2}}) {
		t.Errorf("** Values(k) = %v, wanted [{1 2}]", vs)
	}
}

func TestFormatterTooDeep(t *testing.T) {
	m := NewMap[string, any]()
	ensure(m.Add("self", m))

	_, err := NewFormatter(FormatterOptions{}).Marshal(m)
	if !errors.Is(err, ErrTooDeep) {
		t.Errorf("** Marshal(cycle) = %v, wanted ErrTooDeep", err)
	}
}

func TestFormatterNil(t *testing.T) {
	f := NewFormatter(FormatterOptions{})
	var m *Map[string, int]
	if _, err := f.Marshal(m); err == nil {
		t.Errorf("** Marshal(nil) succeeded, wanted error")
	}
	if err := f.UnmarshalFields(fields.New(), m); err == nil {
		t.Errorf("** UnmarshalFields(nil) succeeded, wanted error")
	}
}

func TestReaderGetNeedsPointer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	r := &Reader{f: NewFormatter(FormatterOptions{}), fs: fields.New()}
	var s string
	_, _ = r.Get("x", s)
}
