package node

import (
	"reflect"
	"strconv"
)

// TypePair identifies a mapping by its source and destination types.
// Two pairs are equal iff both types are identical.
type TypePair struct{ Src, Dst reflect.Type }

// PairOf builds a pair from user facing types, stripping pointer wrappers
// so that *User -> UserDTO and User -> UserDTO share a key.
func PairOf(src, dst reflect.Type) TypePair {
	return TypePair{Src: base(src), Dst: base(dst)}
}

func (p TypePair) String() string {
	return TypeID(p.Src) + " -> " + TypeID(p.Dst)
}

// IsZero reports whether the pair was never initialized.
func (p TypePair) IsZero() bool {
	return p.Src == nil && p.Dst == nil
}

// TypeID renders a fully qualified, stable identifier of a type.
func TypeID(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	// fully qualified named types, or builtin string for basics
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + TypeID(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			return "[]" + TypeID(t.Elem())
		}
	case reflect.Array:
		if t.Name() == "" {
			return "[" + strconv.Itoa(t.Len()) + "]" + TypeID(t.Elem())
		}
	case reflect.Map:
		if t.Name() == "" {
			return "map[" + TypeID(t.Key()) + "]" + TypeID(t.Elem())
		}
	}

	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}

func base(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

// PtrDepthAndBase returns the pointer depth and the final base type.
func PtrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for base != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return
}

func isError(t reflect.Type) bool {
	if t == nil {
		return false
	}

	terr := reflect.TypeFor[error]()

	return t.Implements(terr)
}
