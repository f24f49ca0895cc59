package sdict

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotFound is returned by value accessors when the key is absent.
	ErrNotFound = errors.New("key not found")

	// ErrNullValue is returned by value accessors when the key is present
	// but holds no value (a nil value or an empty value sequence).
	ErrNullValue = errors.New("key has no value")

	// ErrDuplicateKey is returned when adding a key that is already present.
	ErrDuplicateKey = errors.New("key already exists")
)

type KeyError struct {
	Key any
	Err error
}

func keyErr(key any, err error) error {
	return &KeyError{key, err}
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%v: %v", e.Key, e.Err)
}

// UnsupportedTypeError is returned by Formatter when it meets a value it has
// no way to persist: a type that is neither natively supported, nor
// a FieldMarshaler, nor registered with a surrogate. This is a configuration
// problem, not a data problem.
type UnsupportedTypeError struct {
	Type reflect.Type
	Path string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%sno surrogate registered for %v", pathPrefix(e.Path), e.Type)
}

type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s at %d: %v: (%d) %x", e.Msg, e.Off, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s at %d: (%d) %x", e.Msg, e.Off, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s at %d: %v: (%d) %x...%x", e.Msg, e.Off, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s at %d: (%d) %x...%x", e.Msg, e.Off, n, p, s)
		}
	}
}

func pathPrefix(p string) string {
	if p == "" {
		return ""
	}
	return p + ": "
}
