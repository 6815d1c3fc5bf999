package mapping

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

var (
	ErrDuplicateName = errors.New("name already registered")
	ErrUnknownType   = errors.New("unknown type name")
	ErrAmbiguousType = errors.New("ambiguous type name")
	ErrUnknownFunc   = errors.New("unknown function name")
)

// Registry binds the names used in profile files to Go types and functions.
type Registry struct {
	types map[string]reflect.Type
	funcs map[string]any
}

func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]reflect.Type),
		funcs: make(map[string]any),
	}
}

// AddType registers t under its short ("store.User") and full
// ("automapper/store.User") names, plus an optional alias.
func (r *Registry) AddType(t reflect.Type, alias string) error {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Name() == "" {
		return fmt.Errorf("type %s has no name", t)
	}

	names := []string{t.String(), t.PkgPath() + "." + t.Name()}
	if alias != "" {
		names = append(names, alias)
	}

	for _, name := range names {
		if prev, ok := r.types[name]; ok && prev != t {
			return fmt.Errorf("%w: type %q", ErrDuplicateName, name)
		}
	}

	for _, name := range names {
		r.types[name] = t
	}

	return nil
}

// AddFunc registers a resolver or converter function under name.
func (r *Registry) AddFunc(name string, fn any) error {
	if name == "" {
		return errors.New("function name is empty")
	}

	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("%w: function %q", ErrDuplicateName, name)
	}

	r.funcs[name] = fn

	return nil
}

// Type resolves a type name like:
// - "store.User" (short)
// - "automapper/store.User" (full)
// - "User" (name only, when unique).
func (r *Registry) Type(name string) (reflect.Type, error) {
	if t, ok := r.types[name]; ok {
		return t, nil
	}

	if name == "" || strings.Contains(name, ".") {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}

	var found reflect.Type
	for _, t := range r.types {
		if t.Name() != name || t == found {
			continue
		}

		if found != nil {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousType, name)
		}
		found = t
	}

	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}

	return found, nil
}

func (r *Registry) Func(name string) (any, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunc, name)
	}

	return fn, nil
}

// Has returns true if a function with the given name exists.
func (r *Registry) Has(name string) bool {
	_, exists := r.funcs[name]
	return exists
}

// FuncNames returns all function names, sorted.
func (r *Registry) FuncNames() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
