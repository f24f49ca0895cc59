// Package surrogate lets a formatter persist value types it has no native
// support for. A surrogate captures the public components of a value into a
// field set of primitives, and restores a value from the same fields.
//
// Registries are built explicitly, once, at startup:
//
//	reg := surrogate.NewRegistry()
//	geom.AddSurrogates(reg)
//
// and are never modified afterwards.
package surrogate

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/andreyvit/sdict/fields"
)

// Context is passed through to every Capture and Restore call untouched.
// Surrogates must not change behavior based on it.
type Context struct {
	Value any
}

type Surrogate interface {
	// Capture writes the components of obj into fs.
	Capture(obj any, fs *fields.Set, ctx Context)

	// Restore builds a value from the fields written by Capture. prev is the
	// value currently held by the destination (usually the zero value).
	Restore(prev any, fs *fields.Set, ctx Context) (any, error)
}

// Funcs adapts a pair of functions to Surrogate.
type Funcs struct {
	CaptureFunc func(obj any, fs *fields.Set, ctx Context)
	RestoreFunc func(prev any, fs *fields.Set, ctx Context) (any, error)
}

func (f Funcs) Capture(obj any, fs *fields.Set, ctx Context) {
	f.CaptureFunc(obj, fs, ctx)
}

func (f Funcs) Restore(prev any, fs *fields.Set, ctx Context) (any, error) {
	return f.RestoreFunc(prev, fs, ctx)
}

// Registry maps value types to their surrogates.
type Registry struct {
	mu    sync.RWMutex
	byTyp map[reflect.Type]Surrogate
	types []reflect.Type
}

func NewRegistry() *Registry {
	return &Registry{
		byTyp: make(map[reflect.Type]Surrogate),
	}
}

// Add registers a surrogate for typ. Registering the same type twice is
// a configuration bug and panics.
func (r *Registry) Add(typ reflect.Type, s Surrogate) {
	if typ == nil {
		panic("surrogate: nil type")
	}
	if s == nil {
		panic(fmt.Errorf("surrogate: nil surrogate for %v", typ))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byTyp == nil {
		r.byTyp = make(map[reflect.Type]Surrogate)
	}
	if _, found := r.byTyp[typ]; found {
		panic(fmt.Errorf("surrogate: %v already registered", typ))
	}
	r.byTyp[typ] = s
	r.types = append(r.types, typ)
}

// Register is the typed form of Add.
func Register[T any](r *Registry, capture func(v T, fs *fields.Set), restore func(prev T, fs *fields.Set) (T, error)) {
	r.Add(reflect.TypeFor[T](), Funcs{
		CaptureFunc: func(obj any, fs *fields.Set, ctx Context) {
			capture(obj.(T), fs)
		},
		RestoreFunc: func(prev any, fs *fields.Set, ctx Context) (any, error) {
			p, _ := prev.(T)
			return restore(p, fs)
		},
	})
}

// Lookup returns the surrogate registered for typ. A nil registry has no
// surrogates.
func (r *Registry) Lookup(typ reflect.Type) (Surrogate, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, found := r.byTyp[typ]
	return s, found
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []reflect.Type {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]reflect.Type(nil), r.types...)
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
