package sdict

import (
	"log/slog"
	"testing"
)

func TestIsNil(t *testing.T) {
	var nilPtr *int
	var nilSlice []int
	var nilMap map[string]int
	var nilFunc func()
	var nilIface any

	tests := []struct {
		name string
		a    bool
		e    bool
	}{
		{"nil interface", isNil(nilIface), true},
		{"nil pointer", isNil(nilPtr), true},
		{"nil pointer in interface", isNil[any](nilPtr), true},
		{"nil slice", isNil(nilSlice), true},
		{"nil map", isNil(nilMap), true},
		{"nil func", isNil(nilFunc), true},
		{"empty string", isNil(""), false},
		{"zero int", isNil(0), false},
		{"empty slice", isNil([]int{}), false},
		{"pointer", isNil(new(int)), false},
		{"boxed value", isNil[any](42), false},
	}
	for _, test := range tests {
		if test.a != test.e {
			t.Errorf("** isNil(%s) = %v, wanted %v", test.name, test.a, test.e)
		}
	}
}

func TestHexstr(t *testing.T) {
	if got := hexstr(nil); got != "<nil>" {
		t.Fatalf("hexstr(nil) = %q, wanted %q", got, "<nil>")
	}
	if got := hexstr([]byte{}); got != "<empty>" {
		t.Fatalf("hexstr(empty) = %q, wanted %q", got, "<empty>")
	}
	if got := hexstr([]byte{0xAB}); got != "ab" {
		t.Fatalf("hexstr = %q, wanted %q", got, "ab")
	}
	if a := hexAttr("k", []byte{0x01}); a.Key != "k" || a.Value.Kind() != slog.KindString || a.Value.String() != "01" {
		t.Fatalf("hexAttr = %v, wanted k=01", a)
	}
}
