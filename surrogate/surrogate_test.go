package surrogate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/andreyvit/sdict/fields"
	"github.com/hengadev/errsx"
)

type point struct {
	x, y int
}

type label struct {
	text string
}

func registerPoint(r *Registry) {
	Register(r, func(p point, fs *fields.Set) {
		fs.Put("x", p.x)
		fs.Put("y", p.y)
	}, func(prev point, fs *fields.Set) (point, error) {
		rd := Require(fs)
		prev.x = rd.Int("x")
		prev.y = rd.Int("y")
		return prev, rd.Err()
	})
}

func TestRegistryRoundTrip(t *testing.T) {
	r := NewRegistry()
	registerPoint(r)

	s, ok := r.Lookup(reflect.TypeFor[point]())
	if !ok {
		t.Fatalf("** Lookup(point) failed")
	}
	fs := fields.New()
	s.Capture(point{3, -4}, fs, Context{})
	if a, e := strings.Join(fs.Names(), " "), "x y"; a != e {
		t.Errorf("** captured fields = %q, wanted %q", a, e)
	}

	obj, err := s.Restore(point{}, fs, Context{Value: "ignored"})
	if err != nil {
		t.Fatalf("** Restore: %v", err)
	}
	if a, e := obj.(point), (point{3, -4}); a != e {
		t.Errorf("** Restore = %v, wanted %v", a, e)
	}
}

func TestRegistryRestoreReportsAllMissingFields(t *testing.T) {
	r := NewRegistry()
	registerPoint(r)
	s, _ := r.Lookup(reflect.TypeFor[point]())

	_, err := s.Restore(point{}, fields.New(), Context{})
	if err == nil {
		t.Fatalf("** Restore(empty) succeeded, wanted error")
	}
	errs, ok := err.(errsx.Map)
	if !ok {
		t.Fatalf("** Restore(empty) error is %T, wanted errsx.Map", err)
	}
	for _, name := range []string{"x", "y"} {
		if _, found := errs[name]; !found {
			t.Errorf("** Restore(empty) error %q does not mention %q", err, name)
		}
	}
}

func TestRegistryRestoreWrongType(t *testing.T) {
	r := NewRegistry()
	registerPoint(r)
	s, _ := r.Lookup(reflect.TypeFor[point]())

	fs := fields.New()
	fs.Put("x", "one")
	fs.Put("y", 2)
	_, err := s.Restore(point{}, fs, Context{})
	errs, _ := err.(errsx.Map)
	if _, found := errs["x"]; !found || len(errs) != 1 {
		t.Errorf("** Restore(x=string) = %v, wanted error about x only", err)
	}
}

func TestRegistryTypes(t *testing.T) {
	r := NewRegistry()
	registerPoint(r)
	r.Add(reflect.TypeFor[label](), Funcs{
		CaptureFunc: func(obj any, fs *fields.Set, ctx Context) {
			fs.Put("text", obj.(label).text)
		},
		RestoreFunc: func(prev any, fs *fields.Set, ctx Context) (any, error) {
			s, _ := fs.String("text")
			return label{s}, nil
		},
	})

	if r.Len() != 2 {
		t.Errorf("** Len = %d, wanted 2", r.Len())
	}
	a := r.Types()
	e := []reflect.Type{reflect.TypeFor[point](), reflect.TypeFor[label]()}
	if !reflect.DeepEqual(a, e) {
		t.Errorf("** Types = %v, wanted %v", a, e)
	}
	if _, ok := r.Lookup(reflect.TypeFor[int]()); ok {
		t.Errorf("** Lookup(int) succeeded, wanted miss")
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	registerPoint(r)
	defer func() {
		if recover() == nil {
			t.Errorf("** duplicate registration did not panic")
		}
	}()
	registerPoint(r)
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if _, ok := r.Lookup(reflect.TypeFor[point]()); ok {
		t.Errorf("** nil registry Lookup succeeded")
	}
	if r.Len() != 0 || r.Types() != nil {
		t.Errorf("** nil registry is not empty")
	}
}
