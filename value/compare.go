package value

import (
	"bytes"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Equal reports whether two values are equal.
//
// Equality is defined across the whole union: Ints by numeric value,
// Strings after NFC normalization, Arrays elementwise, Objects keywise.
// Null equals only Null. Values of different variants are never equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case String:
		bv, ok := b.(String)
		return ok && norm.NFC.String(string(av)) == norm.NFC.String(string(bv))
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, elem := range av {
			other, exists := bv[k]
			if !exists || !Equal(elem, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two values of the same variant.
// Returns -1, 0, or 1, and an error for unordered variants or a variant
// mismatch. Only Int and String are ordered: Ints numerically, Strings by
// byte order of their NFC normalization. Bool, Null, Array, and Object
// support equality only.
func Compare(a, b Value) (int, error) {
	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)
		if !ok {
			return 0, fmt.Errorf("cannot order int against %s", TypeName(b))
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case String:
		bv, ok := b.(String)
		if !ok {
			return 0, fmt.Errorf("cannot order string against %s", TypeName(b))
		}
		return bytes.Compare(
			[]byte(norm.NFC.String(string(av))),
			[]byte(norm.NFC.String(string(bv))),
		), nil
	default:
		return 0, fmt.Errorf("%s values are not ordered", TypeName(a))
	}
}
